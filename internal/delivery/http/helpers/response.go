package helpers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"clubevents/internal/domain"
)

// Error codes for API error responses. Use these with WriteJSONError.
const (
	ErrCodeBadRequest         = "bad_request"
	ErrCodeUnauthorized       = "unauthorized"
	ErrCodeForbidden          = "forbidden"
	ErrCodeNotFound           = "not_found"
	ErrCodeRegistrationClosed = "registration_closed"
	ErrCodeCapacityReached    = "capacity_reached"
	ErrCodeAlreadyRegistered  = "already_registered"
	ErrCodeJoinFormClosed     = "join_form_closed"
	ErrCodeRateLimited        = "rate_limited"
	ErrCodeInternalError      = "internal_error"
)

// APIError is the error object in the standardized API response envelope.
// swagger:model APIError
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIResponse is the standardized envelope for all API responses.
// On success: Data is set, Error is nil. On error: Data is nil, Error is set.
// swagger:model APIResponse
type APIResponse struct {
	Data  any       `json:"data"`
	Error *APIError `json:"error"`
}

// WriteJSONSuccess sets Content-Type to application/json, writes statusCode, and
// encodes an APIResponse with the given data and error set to nil.
func WriteJSONSuccess(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(APIResponse{Data: data, Error: nil})
}

// WriteJSONError sets Content-Type to application/json, writes statusCode, and
// encodes an APIResponse with data nil and the given error code and message.
func WriteJSONError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(APIResponse{
		Data:  nil,
		Error: &APIError{Code: code, Message: message},
	})
}

// WriteDomainError maps err onto the status and code the API documents for it.
// Unclassified errors are logged and answered with a generic 500.
func WriteDomainError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		WriteJSONError(w, http.StatusNotFound, ErrCodeNotFound, "event not found")
	case errors.Is(err, domain.ErrRegistrationClosed):
		WriteJSONError(w, http.StatusBadRequest, ErrCodeRegistrationClosed, "Registration is closed. The deadline has passed.")
	case errors.Is(err, domain.ErrCapacityExceeded):
		WriteJSONError(w, http.StatusBadRequest, ErrCodeCapacityReached, "Maximum capacity reached. This event is full.")
	case errors.Is(err, domain.ErrDuplicateRegistration):
		WriteJSONError(w, http.StatusBadRequest, ErrCodeAlreadyRegistered, "You have already registered for this event with this email.")
	case errors.Is(err, domain.ErrJoinFormClosed):
		WriteJSONError(w, http.StatusBadRequest, ErrCodeJoinFormClosed, "The join form is currently closed.")
	case errors.Is(err, domain.ErrInvalidCredentials):
		WriteJSONError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid email or password")
	case errors.Is(err, domain.ErrUnauthorized):
		WriteJSONError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		WriteJSONError(w, http.StatusForbidden, ErrCodeForbidden, "forbidden")
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		WriteJSONError(w, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
	}
}
