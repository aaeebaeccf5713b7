// Package service exposes the report analysis pipeline, risk engine and
// per-user history over a JSON HTTP API.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/castlemilk/cardiagno/internal/analysis"
	"github.com/castlemilk/cardiagno/internal/archive"
	"github.com/castlemilk/cardiagno/internal/auth"
	"github.com/castlemilk/cardiagno/internal/store"
)

// MaxUploadBytes caps the request body of a scan upload. Per-backend
// limits are lower and enforced by the pipeline.
const MaxUploadBytes = 25 << 20

// Analyzer turns a report image into an Analysis.
type Analyzer interface {
	Analyze(ctx context.Context, img *analysis.Image) (*analysis.Analysis, error)
}

// Service implements the HTTP API.
type Service struct {
	analyzer Analyzer
	store    store.Store
	archive  archive.Archive
	log      *slog.Logger
}

// NewService creates a Service. archive may be nil to skip storing
// uploaded images.
func NewService(analyzer Analyzer, st store.Store, arch archive.Archive, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		analyzer: analyzer,
		store:    st,
		archive:  arch,
		log:      logger,
	}
}

// Routes builds the router. authn is applied to every /v1 route.
func (s *Service) Routes(authn ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Use(authn...)

		r.Route("/scans", func(r chi.Router) {
			r.Post("/", s.wrap(s.createScan))
			r.Get("/", s.wrap(s.listScans))
			r.Delete("/", s.wrap(s.clearScans))
			r.Get("/{id}", s.wrap(s.getScan))
			r.Delete("/{id}", s.wrap(s.deleteScan))
			r.Get("/{id}/image", s.wrap(s.getScanImage))
		})

		r.Post("/risk", s.wrap(s.assessRisk))

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", s.wrap(s.getProfile))
			r.Put("/", s.wrap(s.saveProfile))
			r.Get("/risk", s.wrap(s.profileRisk))
		})

		r.Route("/chat/messages", func(r chi.Router) {
			r.Get("/", s.wrap(s.listChatMessages))
			r.Post("/", s.wrap(s.createChatMessage))
			r.Delete("/", s.wrap(s.clearChatMessages))
		})

		r.Route("/metrics", func(r chi.Router) {
			r.Get("/", s.wrap(s.listMetrics))
			r.Post("/", s.wrap(s.createMetric))
		})
	})

	return r
}

// httpError carries a status code to the error writer.
type httpError struct {
	status int
	msg    string
}

func (e *httpError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &httpError{status: http.StatusBadRequest, msg: fmt.Sprintf(format, args...)}
}

type handlerFunc func(w http.ResponseWriter, r *http.Request, userID string) error

// wrap resolves the caller and maps handler errors to JSON responses.
func (s *Service) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := auth.RequireAuth(r.Context())
		if err != nil {
			s.writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		if err := h(w, r, claims.UID); err != nil {
			s.writeErr(w, r, err)
		}
	}
}

func (s *Service) writeErr(w http.ResponseWriter, r *http.Request, err error) {
	var he *httpError
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &he):
		s.writeError(w, he.status, he.msg)
	case errors.Is(err, analysis.ErrFileTooLarge), errors.As(err, &maxErr):
		s.writeError(w, http.StatusRequestEntityTooLarge, "file too large")
	case errors.Is(err, store.ErrNotFound), errors.Is(err, archive.ErrNotFound):
		s.writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, analysis.ErrAnalysisFailed):
		s.writeError(w, http.StatusInternalServerError, analysis.ErrAnalysisFailed.Error())
	default:
		s.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Service) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already sent; the client sees a truncated body.
		s.log.Warn("encode response failed", "status", status, "error", err)
	}
}

func (s *Service) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(v); err != nil {
		return badRequest("invalid request body: %v", err)
	}
	return nil
}

func (s *Service) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
