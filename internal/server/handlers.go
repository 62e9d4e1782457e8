package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/AntoC-dev/recipelens/internal/extract"
	"github.com/AntoC-dev/recipelens/internal/version"
)

// healthHandler returns server health status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := HealthResponse{
		Status:  "healthy",
		Version: version.Version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("encoding health response", "error", err)
	}
}

// fieldsHandler lists the extractable fields and the term-catalog languages.
func (s *Server) fieldsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	fields := make([]string, 0, len(extract.AllFields()))
	for _, f := range extract.AllFields() {
		fields = append(fields, string(f))
	}
	response := FieldsResponse{Fields: fields, Languages: s.languages}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("encoding fields response", "error", err)
	}
}

// extractHandler processes POST /extract/{field} requests carrying one image
// region as multipart form data.
func (s *Server) extractHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeErrorResponse(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	field := extract.FieldKind(strings.TrimPrefix(r.URL.Path, "/extract/"))
	if !extract.ValidField(field) {
		s.writeErrorResponse(w, "Unknown field: "+string(field), http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadMB*1024*1024)
	if err := r.ParseMultipartForm(s.maxUploadMB * 1024 * 1024); err != nil {
		s.writeErrorResponse(w, "Failed to parse form data", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		s.writeErrorResponse(w, "No image file provided", http.StatusBadRequest)
		return
	}
	defer func() { _ = file.Close() }()

	if header.Size > s.maxUploadMB*1024*1024 {
		s.writeErrorResponse(w, "File too large", http.StatusRequestEntityTooLarge)
		return
	}
	uploadSizeBytes.Observe(float64(header.Size))

	if s.limiter != nil {
		if err := s.limiter.Allow(clientKey(r), header.Size); err != nil {
			var le *LimitError
			if errors.As(err, &le) {
				rateLimitedTotal.WithLabelValues(le.Kind).Inc()
				w.Header().Set("Retry-After", strconv.Itoa(int(le.RetryAfter.Seconds())+1))
			}
			s.writeErrorResponse(w, err.Error(), http.StatusTooManyRequests)
			return
		}
	}

	imageData, err := io.ReadAll(file)
	if err != nil {
		s.writeErrorResponse(w, "Failed to read image data", http.StatusInternalServerError)
		return
	}

	st, err := stateFromForm(r)
	if err != nil {
		s.writeErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	lang := r.FormValue("lang")

	ctx := r.Context()
	if s.timeoutSec > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(s.timeoutSec)*time.Second)
		defer cancel()
	}

	start := time.Now()
	patch, warnings := s.extractor.Extract(ctx, imageData, field, lang, st)
	extractionDuration.WithLabelValues(string(field)).Observe(time.Since(start).Seconds())
	extractionRequestsTotal.WithLabelValues(string(field), "ok").Inc()
	if len(warnings) > 0 {
		extractionWarningsTotal.WithLabelValues(string(field)).Add(float64(len(warnings)))
	}

	response := ExtractResponse{
		Success:  true,
		Field:    string(field),
		Patch:    patch,
		Warnings: warnings,
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("encoding extract response", "error", err)
	}
}

// stateFromForm rebuilds the caller's recipe state from form values: either
// a full JSON "state" value or the lighter "servings" shortcut.
func stateFromForm(r *http.Request) (extract.State, error) {
	var st extract.State

	if raw := r.FormValue("state"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &st); err != nil {
			return st, errInvalidState
		}
	}
	if raw := r.FormValue("servings"); raw != "" {
		servings, err := strconv.Atoi(raw)
		if err != nil {
			return st, errInvalidServings
		}
		st.Servings = servings
	}
	return st, nil
}

var (
	errInvalidState    = &formError{"Invalid state value"}
	errInvalidServings = &formError{"Invalid servings value"}
)

type formError struct{ msg string }

func (e *formError) Error() string { return e.msg }

// writeErrorResponse writes a JSON error response with the given status.
func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	response := ExtractResponse{Success: false, Error: message}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("encoding error response", "error", err)
	}
}
