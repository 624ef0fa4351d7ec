package domain

import (
	"context"
	"time"
)

// Event is a scheduled club activity that people can register for.
// swagger:model Event
type Event struct {
	ID                   string     `json:"id"`
	Title                string     `json:"title"`
	Description          string     `json:"description"`
	Date                 time.Time  `json:"date"`
	Location             string     `json:"location"`
	CoverImageURL        *string    `json:"cover_image_url"`
	IsHidden             bool       `json:"is_hidden"`
	RegistrationDeadline *time.Time `json:"registration_deadline"`
	MaxParticipants      *int       `json:"max_participants"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// NewEvent returns a new Event with the given fields. ID is typically set by the repository on create.
func NewEvent(title, description, location string, date time.Time, createdAt, updatedAt time.Time) *Event {
	return &Event{
		Title:       title,
		Description: description,
		Location:    location,
		Date:        date,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// RegistrationOpen reports whether the deadline (if any) has not yet passed at now.
// Display only; admission goes through AdmitRegistration.
func (e *Event) RegistrationOpen(now time.Time) bool {
	return e.RegistrationDeadline == nil || !now.After(*e.RegistrationDeadline)
}

// SpotsLeft returns the remaining places for the given count, or nil when the event is uncapped.
func (e *Event) SpotsLeft(count int) *int {
	if e.MaxParticipants == nil {
		return nil
	}
	left := *e.MaxParticipants - count
	if left < 0 {
		left = 0
	}
	return &left
}

// EventWithCount is an event as returned to callers. RegistrationCount and SpotsLeft are
// only set when a live count was computed for the caller.
// swagger:model EventWithCount
type EventWithCount struct {
	*Event
	RegistrationCount *int `json:"registration_count,omitempty"`
	RegistrationOpen  bool `json:"registration_open"`
	SpotsLeft         *int `json:"spots_left,omitempty"`
}

// NewEventWithCount annotates e for display at now. A nil count leaves the count fields unset.
func NewEventWithCount(e *Event, count *int, now time.Time) *EventWithCount {
	out := &EventWithCount{
		Event:            e,
		RegistrationOpen: e.RegistrationOpen(now),
	}
	if count != nil {
		c := *count
		out.RegistrationCount = &c
		out.SpotsLeft = e.SpotsLeft(c)
	}
	return out
}

// EventInput holds the admin-editable fields of an event.
type EventInput struct {
	Title                string
	Description          string
	Date                 time.Time
	Location             string
	CoverImageURL        *string
	IsHidden             bool
	RegistrationDeadline *time.Time
	MaxParticipants      *int
}

// Validate returns field messages for missing required fields and a non-positive cap.
func (in EventInput) Validate() []string {
	var errs []string
	if in.Title == "" {
		errs = append(errs, "title is required")
	}
	if in.Description == "" {
		errs = append(errs, "description is required")
	}
	if in.Location == "" {
		errs = append(errs, "location is required")
	}
	if in.Date.IsZero() {
		errs = append(errs, "date is required")
	}
	if in.MaxParticipants != nil && *in.MaxParticipants <= 0 {
		errs = append(errs, "max_participants must be a positive integer")
	}
	return errs
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	// List returns events ordered by date ascending; hidden events only when includeHidden is true.
	List(ctx context.Context, includeHidden bool) ([]*Event, error)
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id string) error
}

// EventService exposes the visibility policy and admin management of events.
type EventService interface {
	// ListEvents returns visible events for anonymous callers, and all events with counts for privileged ones.
	ListEvents(ctx context.Context, privileged bool) ([]*EventWithCount, error)
	// GetEvent returns the event regardless of hidden status, annotated with its live count.
	GetEvent(ctx context.Context, id string) (*EventWithCount, error)
	CreateEvent(ctx context.Context, in EventInput) (*Event, error)
	UpdateEvent(ctx context.Context, id string, in EventInput) (*Event, error)
	DeleteEvent(ctx context.Context, id string) error
}
