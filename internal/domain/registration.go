package domain

import (
	"context"
	"strings"
	"time"
)

// Registration is one registrant's accepted sign-up for an event.
// swagger:model Registration
type Registration struct {
	ID               string    `json:"id"`
	EventID          string    `json:"event_id"`
	FullName         string    `json:"full_name"`
	Email            string    `json:"email"`
	Phone            *string   `json:"phone"`
	SchoolName       *string   `json:"school_name"`
	AgreedToPolicies bool      `json:"agreed_to_policies"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewRegistration creates a new Registration from a submission. ID is set by the repository on create.
func NewRegistration(in RegistrationInput, createdAt time.Time) *Registration {
	return &Registration{
		EventID:          in.EventID,
		FullName:         in.FullName,
		Email:            in.Email,
		Phone:            in.Phone,
		SchoolName:       in.SchoolName,
		AgreedToPolicies: in.AgreedToPolicies,
		CreatedAt:        createdAt,
	}
}

// RegistrationInput is a public registration submission.
type RegistrationInput struct {
	EventID          string
	FullName         string
	Email            string
	Phone            *string
	SchoolName       *string
	AgreedToPolicies bool
}

// Normalize trims the text fields and lower-cases the email. Blank optional fields become nil.
func (in *RegistrationInput) Normalize() {
	in.EventID = strings.TrimSpace(in.EventID)
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = trimOptional(in.Phone)
	in.SchoolName = trimOptional(in.SchoolName)
}

// Validate returns field messages for missing required fields or missing consent.
func (in RegistrationInput) Validate() []string {
	var errs []string
	if in.EventID == "" {
		errs = append(errs, "event_id is required")
	}
	if in.FullName == "" {
		errs = append(errs, "full_name is required")
	}
	if in.Email == "" {
		errs = append(errs, "email is required")
	}
	if !in.AgreedToPolicies {
		errs = append(errs, "you must agree to the policies")
	}
	return errs
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// RegistrationRepository defines storage operations for event registrations.
// Create must return ErrDuplicateRegistration when (event_id, email) already exists.
type RegistrationRepository interface {
	Create(ctx context.Context, reg *Registration) error
	CountByEvent(ctx context.Context, eventID string) (int, error)
	ListByEvent(ctx context.Context, eventID string) ([]*Registration, error)
	// Exists reports whether email is already registered for the event. It only
	// classifies a rejection; it never gates an insert.
	Exists(ctx context.Context, eventID, email string) (bool, error)
}

// RegistrationMetrics records the outcome of each registration attempt.
type RegistrationMetrics interface {
	ObserveRegistration(outcome string)
}

// RegistrationService runs admission-checked registrations.
type RegistrationService interface {
	SubmitRegistration(ctx context.Context, in RegistrationInput) (*Registration, error)
	ListRegistrations(ctx context.Context, eventID string) ([]*Registration, error)
}
