package httpapi

import (
	"encoding/json"
	"io/fs"
	"net/http"

	"github.com/dsjohal14/transitlaw/internal/relay"
	"github.com/rs/zerolog"
)

// Handler contains HTTP handlers for the API
type Handler struct {
	pipeline *relay.Pipeline
	static   fs.FS
	logger   zerolog.Logger
}

// NewHandler creates a new HTTP handler. static holds the web assets and
// may be nil when only the JSON API is served.
func NewHandler(pipeline *relay.Pipeline, static fs.FS, logger zerolog.Logger) *Handler {
	return &Handler{
		pipeline: pipeline,
		static:   static,
		logger:   logger,
	}
}

// Helper functions used across all handlers

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response with the given status code
func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}
