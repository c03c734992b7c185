// Package rest exposes the translator over HTTP.
package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ZaguanLabs/codelai"
)

// translator is the part of *codelai.Translator the handlers need.
type translator interface {
	Translate(ctx context.Context, code, language string) (*codelai.Result, error)
	Reset()
}

// TranslateRequest is the body of POST /v1/translate.
type TranslateRequest struct {
	Code     string `json:"code"`
	Language string `json:"language,omitempty"`
}

// Handler serves the translation endpoints.
type Handler struct {
	translator   translator
	maxBodyBytes int64
	logger       *slog.Logger
}

// NewHandler creates a Handler. Request bodies over maxBodyBytes are
// rejected with 413.
func NewHandler(t translator, maxBodyBytes int64, logger *slog.Logger) *Handler {
	return &Handler{translator: t, maxBodyBytes: maxBodyBytes, logger: logger}
}

// Translate handles POST /v1/translate.
func (h *Handler) Translate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)

	var req TranslateRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Code == "" {
		writeError(w, http.StatusBadRequest, "code is required")
		return
	}

	result, err := h.translator.Translate(r.Context(), req.Code, req.Language)
	if err != nil {
		h.translateError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) translateError(w http.ResponseWriter, r *http.Request, err error) {
	var dictErr *codelai.DictionaryError
	switch {
	case errors.As(err, &dictErr):
		h.logger.ErrorContext(r.Context(), "dictionary unavailable", slog.Any("error", err))
		writeError(w, http.StatusServiceUnavailable, "dictionary unavailable")
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "translation timed out")
	case errors.Is(err, context.Canceled):
		// Client went away.
	default:
		h.logger.ErrorContext(r.Context(), "translate failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// Reset handles POST /v1/dictionary/reset.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	h.translator.Reset()
	h.logger.InfoContext(r.Context(), "dictionary reset")
	w.WriteHeader(http.StatusNoContent)
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Health handles GET /health. It reports liveness only and never touches
// the term source.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Version: codelai.FullVersion()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
