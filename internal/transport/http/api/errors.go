package api

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"gymhub/internal/domain/apperr"
)

// FailError maps a domain error onto the response envelope.
func FailError(w http.ResponseWriter, err error, requestID string) {
	var verr *apperr.ValidationError
	switch {
	case errors.As(err, &verr):
		FailWithDetails(w, http.StatusBadRequest, "validation_error", "payload validation failed",
			map[string]any{"fields": verr.Issues}, requestID)
	case errors.Is(err, apperr.ErrLocked):
		Fail(w, http.StatusConflict, "locked", err.Error(), requestID)
	case errors.Is(err, apperr.ErrInvalidState):
		Fail(w, http.StatusConflict, "invalid_state", err.Error(), requestID)
	case errors.Is(err, apperr.ErrNotFound):
		Fail(w, http.StatusNotFound, "not_found", err.Error(), requestID)
	case errors.Is(err, apperr.ErrConflict):
		Fail(w, http.StatusConflict, "conflict", err.Error(), requestID)
	default:
		log.Error().Err(err).Str("requestId", requestID).Msg("request failed")
		Fail(w, http.StatusInternalServerError, "persistence_error", "internal error", requestID)
	}
}
