// Package web holds the JSON request/response helpers shared by all HTTP
// handlers.
package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"warung-pos/internal/apperrors"
)

// DecodeJSON parses the request body into v, rejecting unknown fields.
func DecodeJSON(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return apperrors.Validation("body", "invalid JSON format")
	}
	return nil
}

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// WriteError writes an error response in the shared envelope.
func WriteError(w http.ResponseWriter, statusCode int, message, requestID string) {
	WriteJSON(w, statusCode, map[string]interface{}{
		"error":      message,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"request_id": requestID,
	})
}

// ErrorStatus maps a service error to its HTTP status code.
func ErrorStatus(err error) int {
	switch {
	case apperrors.IsValidation(err), errors.Is(err, apperrors.ErrItemUnavailable):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrAlreadyPaid), errors.Is(err, apperrors.ErrOrderClosed),
		errors.Is(err, apperrors.ErrDuplicate):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WriteServiceError maps err to a status code and writes the envelope. The
// raw error text is only exposed for client-fault statuses.
func WriteServiceError(w http.ResponseWriter, err error, requestID string) {
	status := ErrorStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "Internal server error"
	}
	WriteError(w, status, message, requestID)
}
