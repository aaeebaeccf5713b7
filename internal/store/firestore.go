package store

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	scansCollection    = "scans"
	chatsCollection    = "chatMessages"
	metricsCollection  = "healthMetrics"
	profilesCollection = "profiles"

	batchLimit = 500
)

// FirestoreStore implements the Store interface using Firestore
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore creates a new Firestore-backed store
func NewFirestoreStore(client *firestore.Client) Store {
	return &FirestoreStore{
		client: client,
	}
}

func notFound(err error, what, id string) error {
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("%s %s: %w", what, id, ErrNotFound)
	}
	return fmt.Errorf("failed to get %s: %w", what, err)
}

// deleteMatching removes every document in collection owned by userID.
func (s *FirestoreStore) deleteMatching(ctx context.Context, collection, userID string) error {
	docs, err := s.client.Collection(collection).Where("userId", "==", userID).Documents(ctx).GetAll()
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", collection, err)
	}
	for i := 0; i < len(docs); i += batchLimit {
		batch := s.client.Batch()
		end := min(i+batchLimit, len(docs))
		for _, doc := range docs[i:end] {
			batch.Delete(doc.Ref)
		}
		if _, err := batch.Commit(ctx); err != nil {
			return fmt.Errorf("failed to batch delete %s: %w", collection, err)
		}
	}
	return nil
}

// Scan operations

func (s *FirestoreStore) SaveScan(ctx context.Context, scan *ScanRecord) error {
	if scan.ID == "" {
		scan.ID = uuid.New().String()
	}
	if scan.CreatedAt.IsZero() {
		scan.CreatedAt = time.Now()
	}
	if _, err := s.client.Collection(scansCollection).Doc(scan.ID).Set(ctx, scan); err != nil {
		return fmt.Errorf("failed to save scan: %w", err)
	}
	return nil
}

func (s *FirestoreStore) GetScan(ctx context.Context, userID, scanID string) (*ScanRecord, error) {
	doc, err := s.client.Collection(scansCollection).Doc(scanID).Get(ctx)
	if err != nil {
		return nil, notFound(err, "scan", scanID)
	}
	var scan ScanRecord
	if err := doc.DataTo(&scan); err != nil {
		return nil, fmt.Errorf("failed to parse scan: %w", err)
	}
	if scan.UserID != userID {
		return nil, fmt.Errorf("scan %s: %w", scanID, ErrNotFound)
	}
	return &scan, nil
}

func (s *FirestoreStore) ListScans(ctx context.Context, userID string, pageSize int32, pageToken string) ([]*ScanRecord, string, error) {
	if pageSize <= 0 {
		pageSize = 100
	}

	query := s.client.Collection(scansCollection).
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Desc).
		OrderBy(firestore.DocumentID, firestore.Desc)

	if pageToken != "" {
		docID, err := DecodePageToken(pageToken)
		if err != nil {
			return nil, "", fmt.Errorf("invalid page token: %w", err)
		}
		cursorDoc, err := s.client.Collection(scansCollection).Doc(docID).Get(ctx)
		if err != nil {
			return nil, "", fmt.Errorf("failed to fetch cursor document: %w", err)
		}
		query = query.StartAfter(cursorDoc)
	}

	docs, err := query.Limit(int(pageSize) + 1).Documents(ctx).GetAll()
	if err != nil {
		return nil, "", fmt.Errorf("failed to list scans: %w", err)
	}

	var nextPageToken string
	if len(docs) > int(pageSize) {
		docs = docs[:pageSize]
		nextPageToken = EncodePageToken(docs[pageSize-1].Ref.ID)
	}

	scans := make([]*ScanRecord, 0, len(docs))
	for _, doc := range docs {
		var scan ScanRecord
		if err := doc.DataTo(&scan); err != nil {
			return nil, "", fmt.Errorf("failed to parse scan: %w", err)
		}
		scans = append(scans, &scan)
	}
	return scans, nextPageToken, nil
}

func (s *FirestoreStore) DeleteScan(ctx context.Context, userID, scanID string) error {
	if _, err := s.GetScan(ctx, userID, scanID); err != nil {
		return err
	}
	if _, err := s.client.Collection(scansCollection).Doc(scanID).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete scan: %w", err)
	}
	return nil
}

func (s *FirestoreStore) ClearScans(ctx context.Context, userID string) error {
	return s.deleteMatching(ctx, scansCollection, userID)
}

// Chat operations

func (s *FirestoreStore) SaveChatMessage(ctx context.Context, msg *ChatMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	if _, err := s.client.Collection(chatsCollection).Doc(msg.ID).Set(ctx, msg); err != nil {
		return fmt.Errorf("failed to save chat message: %w", err)
	}
	return nil
}

func (s *FirestoreStore) ListChatMessages(ctx context.Context, userID string) ([]*ChatMessage, error) {
	docs, err := s.client.Collection(chatsCollection).
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Asc).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}

	messages := make([]*ChatMessage, 0, len(docs))
	for _, doc := range docs {
		var msg ChatMessage
		if err := doc.DataTo(&msg); err != nil {
			return nil, fmt.Errorf("failed to parse chat message: %w", err)
		}
		messages = append(messages, &msg)
	}
	return messages, nil
}

func (s *FirestoreStore) ClearChatMessages(ctx context.Context, userID string) error {
	return s.deleteMatching(ctx, chatsCollection, userID)
}

// Health metric operations

func (s *FirestoreStore) SaveHealthMetric(ctx context.Context, metric *HealthMetric) error {
	if metric.ID == "" {
		metric.ID = uuid.New().String()
	}
	if metric.CreatedAt.IsZero() {
		metric.CreatedAt = time.Now()
	}
	if _, err := s.client.Collection(metricsCollection).Doc(metric.ID).Set(ctx, metric); err != nil {
		return fmt.Errorf("failed to save health metric: %w", err)
	}
	return nil
}

func (s *FirestoreStore) ListHealthMetrics(ctx context.Context, userID, kind string) ([]*HealthMetric, error) {
	query := s.client.Collection(metricsCollection).Where("userId", "==", userID)
	if kind != "" {
		query = query.Where("kind", "==", kind)
	}
	docs, err := query.OrderBy("createdAt", firestore.Desc).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list health metrics: %w", err)
	}

	metrics := make([]*HealthMetric, 0, len(docs))
	for _, doc := range docs {
		var metric HealthMetric
		if err := doc.DataTo(&metric); err != nil {
			return nil, fmt.Errorf("failed to parse health metric: %w", err)
		}
		metrics = append(metrics, &metric)
	}
	return metrics, nil
}

// Profile operations

func (s *FirestoreStore) GetProfile(ctx context.Context, userID string) (*ProfileRecord, error) {
	doc, err := s.client.Collection(profilesCollection).Doc(userID).Get(ctx)
	if err != nil {
		return nil, notFound(err, "profile", userID)
	}
	var profile ProfileRecord
	if err := doc.DataTo(&profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	return &profile, nil
}

func (s *FirestoreStore) SaveProfile(ctx context.Context, profile *ProfileRecord) error {
	profile.UpdatedAt = time.Now()
	if _, err := s.client.Collection(profilesCollection).Doc(profile.UserID).Set(ctx, profile); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}
