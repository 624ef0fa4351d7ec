package domain

import (
	"context"
	"strings"
	"time"
)

// SettingJoinFormEnabled is the settings key gating the public join form.
const SettingJoinFormEnabled = "join_form_enabled"

// Application is a membership application submitted through the join form.
// swagger:model Application
type Application struct {
	ID         string    `json:"id"`
	FullName   string    `json:"full_name"`
	Email      string    `json:"email"`
	Major      string    `json:"major"`
	Motivation string    `json:"motivation"`
	CreatedAt  time.Time `json:"created_at"`
}

// ApplicationInput is a join form submission.
type ApplicationInput struct {
	FullName   string
	Email      string
	Major      string
	Motivation string
}

// Normalize trims all fields and lower-cases the email.
func (in *ApplicationInput) Normalize() {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Major = strings.TrimSpace(in.Major)
	in.Motivation = strings.TrimSpace(in.Motivation)
}

// Validate returns field messages for missing fields.
func (in ApplicationInput) Validate() []string {
	var errs []string
	if in.FullName == "" {
		errs = append(errs, "full_name is required")
	}
	if in.Email == "" {
		errs = append(errs, "email is required")
	}
	if in.Major == "" {
		errs = append(errs, "major is required")
	}
	if in.Motivation == "" {
		errs = append(errs, "motivation is required")
	}
	return errs
}

// SettingsRepository stores boolean feature toggles.
type SettingsRepository interface {
	// GetBool returns the stored value, or def when the key is missing.
	GetBool(ctx context.Context, key string, def bool) (bool, error)
	SetBool(ctx context.Context, key string, value bool) (bool, error)
}

// ApplicationRepository stores membership applications.
type ApplicationRepository interface {
	Create(ctx context.Context, app *Application) error
	List(ctx context.Context, params PaginationParams) ([]*Application, int, error)
}

// MembershipService runs the join form.
type MembershipService interface {
	JoinFormEnabled(ctx context.Context) (bool, error)
	SetJoinFormEnabled(ctx context.Context, enabled bool) (bool, error)
	Apply(ctx context.Context, in ApplicationInput) (*Application, error)
	ListApplications(ctx context.Context, params PaginationParams) ([]*Application, int, error)
}
