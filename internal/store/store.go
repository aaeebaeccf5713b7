package store

import (
	"context"
	"encoding/base64"
	"errors"
	"time"

	"github.com/castlemilk/cardiagno/internal/analysis"
	"github.com/castlemilk/cardiagno/internal/risk"
)

//go:generate mockgen -source=store.go -destination=store_mock.go -package=store

// ErrNotFound is returned when a record does not exist or belongs to
// another user.
var ErrNotFound = errors.New("not found")

// Store defines the interface for all database operations used by the service
type Store interface {
	// Scan history, newest first
	SaveScan(ctx context.Context, scan *ScanRecord) error
	GetScan(ctx context.Context, userID, scanID string) (*ScanRecord, error)
	ListScans(ctx context.Context, userID string, pageSize int32, pageToken string) ([]*ScanRecord, string, error)
	DeleteScan(ctx context.Context, userID, scanID string) error
	ClearScans(ctx context.Context, userID string) error

	// Chat history, oldest first
	SaveChatMessage(ctx context.Context, msg *ChatMessage) error
	ListChatMessages(ctx context.Context, userID string) ([]*ChatMessage, error)
	ClearChatMessages(ctx context.Context, userID string) error

	// Health metric readings, newest first
	SaveHealthMetric(ctx context.Context, metric *HealthMetric) error
	ListHealthMetrics(ctx context.Context, userID, kind string) ([]*HealthMetric, error)

	// Profile
	GetProfile(ctx context.Context, userID string) (*ProfileRecord, error)
	SaveProfile(ctx context.Context, profile *ProfileRecord) error
}

// ScanRecord is one analyzed report.
type ScanRecord struct {
	ID          string            `json:"id" firestore:"id"`
	UserID      string            `json:"userId" firestore:"userId"`
	ImageName   string            `json:"imageName" firestore:"imageName"`
	ImageSize   int64             `json:"imageSize" firestore:"imageSize"`
	ArchivePath string            `json:"archivePath,omitempty" firestore:"archivePath,omitempty"`
	Analysis    analysis.Analysis `json:"analysis" firestore:"analysis"`
	CreatedAt   time.Time         `json:"createdAt" firestore:"createdAt"`
}

// Chat message senders.
const (
	SenderUser      = "user"
	SenderAssistant = "assistant"
)

// ChatMessage is one turn of the assistant conversation.
type ChatMessage struct {
	ID        string    `json:"id" firestore:"id"`
	UserID    string    `json:"userId" firestore:"userId"`
	Sender    string    `json:"sender" firestore:"sender"`
	Text      string    `json:"text" firestore:"text"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
}

// HealthMetric is a single manually entered reading, e.g. a heart rate.
type HealthMetric struct {
	ID        string    `json:"id" firestore:"id"`
	UserID    string    `json:"userId" firestore:"userId"`
	Kind      string    `json:"kind" firestore:"kind"`
	Value     string    `json:"value" firestore:"value"`
	Unit      string    `json:"unit,omitempty" firestore:"unit,omitempty"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
}

// ProfileRecord stores a user's biometrics for risk assessment.
type ProfileRecord struct {
	UserID    string       `json:"userId" firestore:"userId"`
	Name      string       `json:"name,omitempty" firestore:"name,omitempty"`
	Profile   risk.Profile `json:"profile" firestore:"profile"`
	UpdatedAt time.Time    `json:"updatedAt" firestore:"updatedAt"`
}

// EncodePageToken encodes a document ID as an opaque page token.
func EncodePageToken(docID string) string {
	if docID == "" {
		return ""
	}
	return base64.URLEncoding.EncodeToString([]byte(docID))
}

// DecodePageToken decodes a page token back to a document ID.
func DecodePageToken(token string) (string, error) {
	if token == "" {
		return "", nil
	}
	b, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
