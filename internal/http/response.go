package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"sipfolio/internal/core"
	"sipfolio/internal/services"
)

// errorResponse is the error payload shape:
// {"error": "...", "status_code": 404}.
type errorResponse struct {
	Error      string `json:"error"`
	StatusCode int    `json:"status_code"`
}

func respondJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, statusCode int, message string) {
	respondJSON(w, statusCode, errorResponse{
		Error:      message,
		StatusCode: statusCode,
	})
}

// respondServiceError maps service and domain errors to HTTP statuses.
func respondServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound), errors.Is(err, core.ErrUserUnknown):
		respondError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, core.ErrUsernameTaken):
		respondError(w, http.StatusConflict, "Username already taken")
	case isValidationError(err):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.ErrorContext(ctx, "Request failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func isValidationError(err error) bool {
	for _, target := range []error{
		core.ErrInvalidAmount,
		core.ErrInvalidDate,
		core.ErrEmptyScheme,
		core.ErrSchemeTooLong,
		core.ErrEmptyUserID,
		core.ErrEmptyUsername,
		core.ErrShortPassword,
		services.ErrInvalidUsername,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
