package service

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/castlemilk/cardiagno/internal/auth"
	"github.com/castlemilk/cardiagno/internal/risk"
	"github.com/castlemilk/cardiagno/internal/store"
)

// Health metric kinds with a derived status.
const (
	MetricHeartRate     = "heartRate"
	MetricBloodPressure = "bloodPressure"
	MetricBMI           = "bmi"
)

type createChatMessageRequest struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

func (s *Service) listChatMessages(w http.ResponseWriter, r *http.Request, userID string) error {
	msgs, err := s.store.ListChatMessages(r.Context(), userID)
	if err != nil {
		return auth.WrapStoreError("list chat messages", err)
	}
	if msgs == nil {
		msgs = []*store.ChatMessage{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"messages": msgs})
	return nil
}

// createChatMessage appends a message to the history. Replies are
// produced by the client.
func (s *Service) createChatMessage(w http.ResponseWriter, r *http.Request, userID string) error {
	var req createChatMessageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}
	if strings.TrimSpace(req.Text) == "" {
		return badRequest("text is required")
	}
	if req.Sender == "" {
		req.Sender = store.SenderUser
	}
	if req.Sender != store.SenderUser && req.Sender != store.SenderAssistant {
		return badRequest("sender must be %q or %q", store.SenderUser, store.SenderAssistant)
	}

	msg := &store.ChatMessage{UserID: userID, Sender: req.Sender, Text: req.Text}
	if err := s.store.SaveChatMessage(r.Context(), msg); err != nil {
		return auth.WrapStoreError("save chat message", err)
	}
	s.writeJSON(w, http.StatusCreated, msg)
	return nil
}

func (s *Service) clearChatMessages(w http.ResponseWriter, r *http.Request, userID string) error {
	if err := s.store.ClearChatMessages(r.Context(), userID); err != nil {
		return auth.WrapStoreError("clear chat messages", err)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

type createMetricRequest struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
	Unit  string `json:"unit"`
}

// metricView is a stored reading with its derived status, if any.
type metricView struct {
	*store.HealthMetric
	Status string `json:"status,omitempty"`
}

// metricStatus classifies readings of known kinds. Blood pressure values
// are "systolic/diastolic".
func metricStatus(kind, value string) string {
	value = strings.TrimSpace(value)
	switch kind {
	case MetricHeartRate:
		if bpm, err := strconv.ParseFloat(value, 64); err == nil {
			return risk.HeartRateStatus(bpm)
		}
	case MetricBloodPressure:
		sysText, diaText, ok := strings.Cut(value, "/")
		if !ok {
			return ""
		}
		sys, err1 := strconv.ParseFloat(strings.TrimSpace(sysText), 64)
		dia, err2 := strconv.ParseFloat(strings.TrimSpace(diaText), 64)
		if err1 == nil && err2 == nil {
			return risk.BloodPressureStatus(sys, dia).Status
		}
	case MetricBMI:
		if bmi, err := strconv.ParseFloat(value, 64); err == nil && bmi > 0 {
			return risk.BMIStatus(bmi)
		}
	}
	return ""
}

func (s *Service) listMetrics(w http.ResponseWriter, r *http.Request, userID string) error {
	metrics, err := s.store.ListHealthMetrics(r.Context(), userID, r.URL.Query().Get("kind"))
	if err != nil {
		return auth.WrapStoreError("list health metrics", err)
	}
	views := make([]metricView, 0, len(metrics))
	for _, m := range metrics {
		views = append(views, metricView{HealthMetric: m, Status: metricStatus(m.Kind, m.Value)})
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"metrics": views})
	return nil
}

func (s *Service) createMetric(w http.ResponseWriter, r *http.Request, userID string) error {
	var req createMetricRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}
	if req.Kind == "" || strings.TrimSpace(req.Value) == "" {
		return badRequest("kind and value are required")
	}

	metric := &store.HealthMetric{UserID: userID, Kind: req.Kind, Value: req.Value, Unit: req.Unit}
	if err := s.store.SaveHealthMetric(r.Context(), metric); err != nil {
		return auth.WrapStoreError("save health metric", err)
	}
	s.writeJSON(w, http.StatusCreated, metricView{HealthMetric: metric, Status: metricStatus(metric.Kind, metric.Value)})
	return nil
}
