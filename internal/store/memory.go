package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore implements Store interface with in-memory storage
type MemoryStore struct {
	mu sync.RWMutex

	scans    map[string]*ScanRecord
	chats    map[string]*ChatMessage
	metrics  map[string]*HealthMetric
	profiles map[string]*ProfileRecord

	now func() time.Time
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		scans:    make(map[string]*ScanRecord),
		chats:    make(map[string]*ChatMessage),
		metrics:  make(map[string]*HealthMetric),
		profiles: make(map[string]*ProfileRecord),
		now:      time.Now,
	}
}

// paginate applies cursor-based pagination to records already in display
// order. The cursor is the ID of the last record of the previous page.
func paginate[T any](items []T, id func(T) string, pageSize int32, pageToken string) ([]T, string) {
	if pageSize <= 0 {
		pageSize = 100
	}

	if pageToken != "" {
		cursorID, err := DecodePageToken(pageToken)
		if err == nil {
			start := len(items)
			for i, item := range items {
				if id(item) == cursorID {
					start = i + 1
					break
				}
			}
			items = items[start:]
		}
	}

	var nextToken string
	if int32(len(items)) > pageSize {
		items = items[:pageSize]
		nextToken = EncodePageToken(id(items[pageSize-1]))
	}
	return items, nextToken
}

// Scan operations

func (m *MemoryStore) SaveScan(ctx context.Context, scan *ScanRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if scan.ID == "" {
		scan.ID = uuid.New().String()
	}
	if scan.CreatedAt.IsZero() {
		scan.CreatedAt = m.now()
	}
	copied := *scan
	copied.Analysis = scan.Analysis.Clone()
	m.scans[scan.ID] = &copied
	return nil
}

func (m *MemoryStore) GetScan(ctx context.Context, userID, scanID string) (*ScanRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	scan, ok := m.scans[scanID]
	if !ok || scan.UserID != userID {
		return nil, fmt.Errorf("scan %s: %w", scanID, ErrNotFound)
	}
	copied := *scan
	copied.Analysis = scan.Analysis.Clone()
	return &copied, nil
}

func (m *MemoryStore) ListScans(ctx context.Context, userID string, pageSize int32, pageToken string) ([]*ScanRecord, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*ScanRecord
	for _, scan := range m.scans {
		if scan.UserID == userID {
			copied := *scan
			copied.Analysis = scan.Analysis.Clone()
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})

	page, next := paginate(result, func(s *ScanRecord) string { return s.ID }, pageSize, pageToken)
	return page, next, nil
}

func (m *MemoryStore) DeleteScan(ctx context.Context, userID, scanID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	scan, ok := m.scans[scanID]
	if !ok || scan.UserID != userID {
		return fmt.Errorf("scan %s: %w", scanID, ErrNotFound)
	}
	delete(m.scans, scanID)
	return nil
}

func (m *MemoryStore) ClearScans(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, scan := range m.scans {
		if scan.UserID == userID {
			delete(m.scans, id)
		}
	}
	return nil
}

// Chat operations

func (m *MemoryStore) SaveChatMessage(ctx context.Context, msg *ChatMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = m.now()
	}
	copied := *msg
	m.chats[msg.ID] = &copied
	return nil
}

func (m *MemoryStore) ListChatMessages(ctx context.Context, userID string) ([]*ChatMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := []*ChatMessage{}
	for _, msg := range m.chats {
		if msg.UserID == userID {
			copied := *msg
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (m *MemoryStore) ClearChatMessages(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, msg := range m.chats {
		if msg.UserID == userID {
			delete(m.chats, id)
		}
	}
	return nil
}

// Health metric operations

func (m *MemoryStore) SaveHealthMetric(ctx context.Context, metric *HealthMetric) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if metric.ID == "" {
		metric.ID = uuid.New().String()
	}
	if metric.CreatedAt.IsZero() {
		metric.CreatedAt = m.now()
	}
	copied := *metric
	m.metrics[metric.ID] = &copied
	return nil
}

func (m *MemoryStore) ListHealthMetrics(ctx context.Context, userID, kind string) ([]*HealthMetric, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := []*HealthMetric{}
	for _, metric := range m.metrics {
		if metric.UserID != userID {
			continue
		}
		if kind != "" && metric.Kind != kind {
			continue
		}
		copied := *metric
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// Profile operations

func (m *MemoryStore) GetProfile(ctx context.Context, userID string) (*ProfileRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	profile, ok := m.profiles[userID]
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", userID, ErrNotFound)
	}
	copied := *profile
	return &copied, nil
}

func (m *MemoryStore) SaveProfile(ctx context.Context, profile *ProfileRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	profile.UpdatedAt = m.now()
	copied := *profile
	m.profiles[profile.UserID] = &copied
	return nil
}
