package service

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/castlemilk/cardiagno/internal/analysis"
	"github.com/castlemilk/cardiagno/internal/archive"
	"github.com/castlemilk/cardiagno/internal/auth"
	"github.com/castlemilk/cardiagno/internal/store"
)

// multipartMemory is how much of an upload is buffered before spilling
// to temp files.
const multipartMemory = 8 << 20

type listScansResponse struct {
	Scans         []*store.ScanRecord `json:"scans"`
	NextPageToken string              `json:"nextPageToken,omitempty"`
}

// createScan analyzes an uploaded report image and records the result.
func (s *Service) createScan(w http.ResponseWriter, r *http.Request, userID string) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return err
		}
		return badRequest("invalid multipart form: %v", err)
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("image")
	if err != nil {
		return badRequest("image file is required")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return badRequest("image file is empty")
	}

	img := analysis.NewImageFromBytes(header.Filename, data)
	result, err := s.analyzer.Analyze(r.Context(), img)
	if err != nil {
		return err
	}

	scan := &store.ScanRecord{
		ID:        uuid.New().String(),
		UserID:    userID,
		ImageName: header.Filename,
		ImageSize: int64(len(data)),
		Analysis:  *result,
	}

	if s.archive != nil {
		key := archive.ScanKey(userID, scan.ID, header.Filename)
		path, err := s.archive.Put(r.Context(), key, data, img.MIMEType())
		if err != nil {
			// The analysis is still useful without the stored image.
			s.log.Warn("archive upload failed", "scan_id", scan.ID, "error", err)
		} else {
			scan.ArchivePath = path
		}
	}

	if err := s.store.SaveScan(r.Context(), scan); err != nil {
		return auth.WrapStoreError("save scan", err)
	}

	s.log.Info("scan analyzed",
		"scan_id", scan.ID,
		"method", scan.Analysis.AnalysisMethod,
		"simulated", scan.Analysis.IsSimulated(),
	)
	s.writeJSON(w, http.StatusCreated, scan)
	return nil
}

func (s *Service) listScans(w http.ResponseWriter, r *http.Request, userID string) error {
	q := r.URL.Query()
	var pageSize int32
	if v := q.Get("pageSize"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return badRequest("invalid pageSize %q", v)
		}
		pageSize = int32(n)
	}

	scans, next, err := s.store.ListScans(r.Context(), userID, auth.NormalizePageSize(pageSize), q.Get("pageToken"))
	if err != nil {
		return auth.WrapStoreError("list scans", err)
	}
	if scans == nil {
		scans = []*store.ScanRecord{}
	}
	s.writeJSON(w, http.StatusOK, listScansResponse{Scans: scans, NextPageToken: next})
	return nil
}

func (s *Service) getScan(w http.ResponseWriter, r *http.Request, userID string) error {
	scan, err := s.store.GetScan(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		return auth.WrapStoreError("get scan", err)
	}
	s.writeJSON(w, http.StatusOK, scan)
	return nil
}

// getScanImage streams back the archived upload of a scan.
func (s *Service) getScanImage(w http.ResponseWriter, r *http.Request, userID string) error {
	scan, err := s.store.GetScan(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		return auth.WrapStoreError("get scan", err)
	}
	if s.archive == nil || scan.ArchivePath == "" {
		return fmt.Errorf("scan %s has no archived image: %w", scan.ID, archive.ErrNotFound)
	}

	data, err := s.archive.Get(r.Context(), scan.ArchivePath)
	if err != nil {
		return fmt.Errorf("get archived image: %w", err)
	}

	img := analysis.NewImageFromBytes(scan.ImageName, data)
	w.Header().Set("Content-Type", img.MIMEType())
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.log.Warn("write image failed", "scan_id", scan.ID, "error", err)
	}
	return nil
}

func (s *Service) deleteScan(w http.ResponseWriter, r *http.Request, userID string) error {
	id := chi.URLParam(r, "id")
	scan, err := s.store.GetScan(r.Context(), userID, id)
	if err != nil {
		return auth.WrapStoreError("get scan", err)
	}
	if err := s.store.DeleteScan(r.Context(), userID, id); err != nil {
		return auth.WrapStoreError("delete scan", err)
	}
	s.removeArchived(r, scan)
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Service) clearScans(w http.ResponseWriter, r *http.Request, userID string) error {
	if s.archive != nil {
		s.removeAllArchived(r, userID)
	}
	if err := s.store.ClearScans(r.Context(), userID); err != nil {
		return auth.WrapStoreError("clear scans", err)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Service) removeArchived(r *http.Request, scan *store.ScanRecord) {
	if s.archive == nil || scan.ArchivePath == "" {
		return
	}
	if err := s.archive.Delete(r.Context(), scan.ArchivePath); err != nil {
		s.log.Warn("archive delete failed", "scan_id", scan.ID, "error", err)
	}
}

// removeAllArchived walks the user's history page by page.
func (s *Service) removeAllArchived(r *http.Request, userID string) {
	token := ""
	for {
		scans, next, err := s.store.ListScans(r.Context(), userID, 100, token)
		if err != nil {
			s.log.Warn("list scans for archive cleanup failed", "error", err)
			return
		}
		for _, scan := range scans {
			s.removeArchived(r, scan)
		}
		if next == "" {
			return
		}
		token = next
	}
}
