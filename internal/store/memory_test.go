package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castlemilk/cardiagno/internal/analysis"
	"github.com/castlemilk/cardiagno/internal/risk"
)

func newTestStore() *MemoryStore {
	s := NewMemoryStore()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	n := 0
	s.now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Minute)
	}
	return s
}

func TestMemoryStore_ScansNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	for i := 0; i < 3; i++ {
		require.NoError(t, s.SaveScan(ctx, &ScanRecord{
			UserID:    "user-1",
			ImageName: fmt.Sprintf("scan-%d.jpg", i),
			Analysis:  analysis.Analysis{Summary: fmt.Sprintf("s%d", i)},
		}))
	}
	require.NoError(t, s.SaveScan(ctx, &ScanRecord{UserID: "user-2", ImageName: "other.jpg"}))

	scans, next, err := s.ListScans(ctx, "user-1", 0, "")
	require.NoError(t, err)
	assert.Empty(t, next)
	require.Len(t, scans, 3)
	assert.Equal(t, "scan-2.jpg", scans[0].ImageName)
	assert.Equal(t, "scan-0.jpg", scans[2].ImageName)
	for _, scan := range scans {
		assert.NotEmpty(t, scan.ID)
	}
}

func TestMemoryStore_ScanPagination(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	for i := 0; i < 5; i++ {
		require.NoError(t, s.SaveScan(ctx, &ScanRecord{UserID: "u", ImageName: fmt.Sprintf("%d", i)}))
	}

	page1, token, err := s.ListScans(ctx, "u", 2, "")
	require.NoError(t, err)
	require.Len(t, page1, 2)
	require.NotEmpty(t, token)

	page2, token, err := s.ListScans(ctx, "u", 2, token)
	require.NoError(t, err)
	require.Len(t, page2, 2)

	page3, token, err := s.ListScans(ctx, "u", 2, token)
	require.NoError(t, err)
	require.Len(t, page3, 1)
	assert.Empty(t, token)

	names := []string{page1[0].ImageName, page1[1].ImageName, page2[0].ImageName, page2[1].ImageName, page3[0].ImageName}
	assert.Equal(t, []string{"4", "3", "2", "1", "0"}, names)
}

func TestMemoryStore_DeleteScanOwnership(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	scan := &ScanRecord{UserID: "owner"}
	require.NoError(t, s.SaveScan(ctx, scan))

	err := s.DeleteScan(ctx, "intruder", scan.ID)
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = s.GetScan(ctx, "intruder", scan.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.DeleteScan(ctx, "owner", scan.ID))
	_, err = s.GetScan(ctx, "owner", scan.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_ClearScans(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	require.NoError(t, s.SaveScan(ctx, &ScanRecord{UserID: "a"}))
	require.NoError(t, s.SaveScan(ctx, &ScanRecord{UserID: "a"}))
	require.NoError(t, s.SaveScan(ctx, &ScanRecord{UserID: "b"}))

	require.NoError(t, s.ClearScans(ctx, "a"))

	a, _, _ := s.ListScans(ctx, "a", 0, "")
	b, _, _ := s.ListScans(ctx, "b", 0, "")
	assert.Empty(t, a)
	assert.Len(t, b, 1)
}

func TestMemoryStore_StoredScanIsIsolated(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	scan := &ScanRecord{UserID: "u", Analysis: analysis.Analysis{RiskFactors: []string{"Smoking"}}}
	require.NoError(t, s.SaveScan(ctx, scan))

	scan.Analysis.RiskFactors[0] = "mutated"

	got, err := s.GetScan(ctx, "u", scan.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Smoking"}, got.Analysis.RiskFactors)
}

func TestMemoryStore_ChatAppendOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	require.NoError(t, s.SaveChatMessage(ctx, &ChatMessage{UserID: "u", Sender: SenderUser, Text: "hi"}))
	require.NoError(t, s.SaveChatMessage(ctx, &ChatMessage{UserID: "u", Sender: SenderAssistant, Text: "hello"}))

	msgs, err := s.ListChatMessages(ctx, "u")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "hi", msgs[0].Text)
	assert.Equal(t, "hello", msgs[1].Text)

	require.NoError(t, s.ClearChatMessages(ctx, "u"))
	msgs, err = s.ListChatMessages(ctx, "u")
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestMemoryStore_HealthMetricsFilter(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	require.NoError(t, s.SaveHealthMetric(ctx, &HealthMetric{UserID: "u", Kind: "heartRate", Value: "72", Unit: "bpm"}))
	require.NoError(t, s.SaveHealthMetric(ctx, &HealthMetric{UserID: "u", Kind: "bloodPressure", Value: "120/80"}))
	require.NoError(t, s.SaveHealthMetric(ctx, &HealthMetric{UserID: "u", Kind: "heartRate", Value: "80", Unit: "bpm"}))

	all, err := s.ListHealthMetrics(ctx, "u", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	hr, err := s.ListHealthMetrics(ctx, "u", "heartRate")
	require.NoError(t, err)
	require.Len(t, hr, 2)
	assert.Equal(t, "80", hr[0].Value)
}

func TestMemoryStore_Profile(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	_, err := s.GetProfile(ctx, "u")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.SaveProfile(ctx, &ProfileRecord{
		UserID:  "u",
		Name:    "Sam",
		Profile: risk.Profile{Age: risk.M(50), Smoker: true},
	}))

	got, err := s.GetProfile(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, "Sam", got.Name)
	assert.Equal(t, risk.Measure("50"), got.Profile.Age)
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestPageToken_RoundTrip(t *testing.T) {
	id, err := DecodePageToken(EncodePageToken("scan-123"))
	require.NoError(t, err)
	assert.Equal(t, "scan-123", id)

	_, err = DecodePageToken("%%%")
	assert.Error(t, err)
}
