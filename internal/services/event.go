package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clubevents/internal/domain"
)

type eventService struct {
	eventRepo        domain.EventRepository
	registrationRepo domain.RegistrationRepository
	contextTimeout   time.Duration
	now              func() time.Time
}

func NewEventService(eventRepo domain.EventRepository,
	registrationRepo domain.RegistrationRepository,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		contextTimeout:   timeout,
		now:              time.Now,
	}
}

func (s *eventService) ListEvents(ctx context.Context, privileged bool) ([]*domain.EventWithCount, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.List(ctx, privileged)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	now := s.now()
	out := make([]*domain.EventWithCount, 0, len(events))
	for _, e := range events {
		if !privileged {
			out = append(out, domain.NewEventWithCount(e, nil, now))
			continue
		}
		count, err := s.registrationRepo.CountByEvent(ctx, e.ID)
		if err != nil {
			return nil, fmt.Errorf("count registrations for %s: %w", e.ID, err)
		}
		out = append(out, domain.NewEventWithCount(e, &count, now))
	}
	return out, nil
}

func (s *eventService) GetEvent(ctx context.Context, id string) (*domain.EventWithCount, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	count, err := s.registrationRepo.CountByEvent(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("count registrations: %w", err)
	}
	return domain.NewEventWithCount(event, &count, s.now()), nil
}

func (s *eventService) CreateEvent(ctx context.Context, in domain.EventInput) (*domain.Event, error) {
	if errs := in.Validate(); len(errs) > 0 {
		return nil, domain.NewValidationError(errs...)
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	now := s.now()
	event := domain.NewEvent(in.Title, in.Description, in.Location, in.Date, now, now)
	applyEventInput(event, in)
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, id string, in domain.EventInput) (*domain.Event, error) {
	if errs := in.Validate(); len(errs) > 0 {
		return nil, domain.NewValidationError(errs...)
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event := &domain.Event{ID: id, UpdatedAt: s.now()}
	applyEventInput(event, in)
	if err := s.eventRepo.Update(ctx, event); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func applyEventInput(e *domain.Event, in domain.EventInput) {
	e.Title = in.Title
	e.Description = in.Description
	e.Date = in.Date
	e.Location = in.Location
	e.CoverImageURL = in.CoverImageURL
	e.IsHidden = in.IsHidden
	e.RegistrationDeadline = in.RegistrationDeadline
	e.MaxParticipants = in.MaxParticipants
}
