package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/fhuszti/video-studio-ms-go/internal/logger"
)

// ErrorResponse is the body of every failed studio request. Code is set for
// pipeline failures so the editor can react without parsing Error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, msg string, err error) {
	writeError(w, r, status, ErrorResponse{Error: msg}, err)
}

// client mistakes are warnings, the rest is ours
func writeError(w http.ResponseWriter, r *http.Request, status int, body ErrorResponse, err error) {
	ctx := r.Context()
	line := r.Method + " " + r.URL.Path + ": " + body.Error
	if err != nil {
		line += ": " + err.Error()
	}
	if status < http.StatusInternalServerError {
		logger.Warn(ctx, "⚠️  "+line, "status", status)
	} else {
		logger.Error(ctx, "❌  "+line, "status", status)
	}
	w.Header().Set("Cache-Control", "no-store, max-age=0, must-revalidate")
	RespondJSON(w, status, body)
}

func RespondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Errorf(context.Background(), "❌  could not encode studio response: %v", err)
	}
}

func RespondRawJSON(w http.ResponseWriter, status int, raw []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(raw); err != nil {
		logger.Errorf(context.Background(), "❌  could not write studio response: %v", err)
	}
}
