package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"visit-tracker/internal/middleware"
	apperrors "visit-tracker/pkg/errors"
	"visit-tracker/pkg/logger"
)

// writeJSON encodes body with the given status
func writeJSON(w http.ResponseWriter, log *logger.Logger, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Error("Failed to encode response")
	}
}

// writeError writes appErr as a JSON error response
func writeError(w http.ResponseWriter, r *http.Request, log *logger.Logger, appErr *apperrors.AppError) {
	writeJSON(w, log, appErr.StatusCode, apperrors.NewErrorResponse(appErr, middleware.GetRequestID(r.Context())))
}

// writeText writes a plain text body
func writeText(w http.ResponseWriter, statusCode int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(statusCode)
	w.Write([]byte(body))
}

// writeCount writes an integer as plain text
func writeCount(w http.ResponseWriter, n int64) {
	writeText(w, http.StatusOK, strconv.FormatInt(n, 10))
}

// writeHTML writes an HTML body
func writeHTML(w http.ResponseWriter, statusCode int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	w.Write(body)
}

// NotFound returns the JSON 404 handler for unknown routes
func NotFound(log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, log, apperrors.NewNotFoundError("Endpoint not found"))
	}
}
