// Package render writes JSON bodies and maps domain errors to HTTP statuses.
package render

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/docket/internal/apperror"
)

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Error writes err as a JSON error body with the status its kind maps to.
// Unexpected errors are logged and reported as "internal error".
func Error(w http.ResponseWriter, err error) {
	status := Status(err)

	resp := errorResponse{Error: err.Error()}

	var fe *apperror.FieldError
	if errors.As(err, &fe) {
		resp.Field = fe.Field
	}

	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
		resp = errorResponse{Error: "internal error"}
	}

	JSON(w, status, resp)
}

func Status(err error) int {
	switch {
	case errors.Is(err, apperror.ErrInvalidFormat), errors.Is(err, apperror.ErrMissingRequiredField):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrDuplicateKey), errors.Is(err, apperror.ErrForeignKeyViolation):
		return http.StatusConflict
	case errors.Is(err, apperror.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	}

	return http.StatusInternalServerError
}

// BadRequest reports a malformed request that never reached a service.
func BadRequest(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

// Decode reads a JSON request body into v, answering 400 on failure.
func Decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		BadRequest(w, "invalid request body: "+err.Error())
		return false
	}

	return true
}
