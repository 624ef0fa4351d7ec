package domain

import (
	"errors"
	"strings"
)

// Sentinel errors shared across services and repositories.
var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")

	// ErrValidation is returned when required input is missing or malformed.
	ErrValidation = errors.New("validation failed")

	ErrRegistrationClosed    = errors.New("registration is closed: the deadline has passed")
	ErrCapacityExceeded      = errors.New("maximum capacity reached: the event is full")
	ErrDuplicateRegistration = errors.New("already registered for this event with this email")

	ErrJoinFormClosed = errors.New("the join form is currently closed")
)

// ValidationError carries field-level messages. It matches ErrValidation with errors.Is.
type ValidationError struct {
	Fields []string
}

// NewValidationError returns a ValidationError for the given messages.
func NewValidationError(msgs ...string) *ValidationError {
	return &ValidationError{Fields: msgs}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	return strings.Join(e.Fields, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
