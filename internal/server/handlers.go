package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/jonathan/resume-parser/internal/db"
	"github.com/jonathan/resume-parser/internal/pipeline"
)

// UploadResponse represents the response for /upload
type UploadResponse struct {
	CorrelationID string `json:"correlation_id"`
	Status        string `json:"status"`
}

// StatusResponse represents the response for /status/{id}
type StatusResponse struct {
	CorrelationID string `json:"correlation_id"`
	State         string `json:"state"`
	Filename      string `json:"filename"`
	Success       bool   `json:"success"`
	Error         string `json:"error,omitempty"`
}

// handleUpload accepts a multipart resume upload, stores the document, and
// starts a parsing run in the background
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "multipart field 'file' is required")
		return
	}
	defer file.Close()

	saved, err := s.uploads.Save(header.Filename, file)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	correlationID := uuid.NewString()
	s.logger.Info("upload accepted",
		"correlation_id", correlationID,
		"filename", saved.OriginalName,
		"size", saved.Size)

	// Run the pipeline in the background; progress is available via /status
	go func() {
		s.runner.Parse(context.Background(), pipeline.Request{
			Path:             saved.Path,
			OriginalFilename: saved.OriginalName,
			CorrelationID:    correlationID,
		})
	}()

	s.jsonResponse(w, http.StatusAccepted, UploadResponse{
		CorrelationID: correlationID,
		Status:        "accepted",
	})
}

// handleStatus returns the live status of a parsing run. Runs that are no
// longer tracked in memory fall back to the stored outcome.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	correlationID := r.PathValue("id")
	if correlationID == "" {
		s.errorResponse(w, http.StatusBadRequest, "Correlation ID is required")
		return
	}

	if status, ok := s.runner.Status(correlationID); ok {
		s.jsonResponse(w, http.StatusOK, StatusResponse{
			CorrelationID: status.CorrelationID,
			State:         string(status.State),
			Filename:      status.Filename,
			Success:       status.Success,
			Error:         status.Error,
		})
		return
	}

	stored, err := s.resumes.GetResumeByCorrelationID(r.Context(), correlationID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if stored == nil {
		s.errorResponse(w, http.StatusNotFound, "Run not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, StatusResponse{
		CorrelationID: stored.CorrelationID,
		State:         string(pipeline.StateDone),
		Filename:      stored.OriginalFilename,
		Success:       stored.Status == db.StatusParsed,
		Error:         stored.ProcessingError,
	})
}

// handleGetResume returns a stored parsing outcome by ID
func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	idStr := r.PathValue("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid resume ID format")
		return
	}

	resume, err := s.resumes.GetResume(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if resume == nil {
		s.errorResponse(w, http.StatusNotFound, "Resume not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, resume)
}

// handleListResumes returns recent parsing outcomes
func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			s.errorResponse(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = parsed
	}

	resumes, err := s.resumes.ListResumes(r.Context(), limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, resumes)
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

// errorResponse writes a JSON error response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, ErrorResponse{Error: message})
}
