package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"clubevents/internal/domain"
)

// Outcome labels reported to domain.RegistrationMetrics.
const (
	OutcomeAdmitted         = "admitted"
	OutcomeValidationFailed = "validation_failed"
	OutcomeDuplicate        = "duplicate"
	OutcomeError            = "error"
)

type registrationService struct {
	eventRepo        domain.EventRepository
	registrationRepo domain.RegistrationRepository
	emailService     domain.EmailService
	metrics          domain.RegistrationMetrics
	logger           *slog.Logger
	contextTimeout   time.Duration
	now              func() time.Time
	// dispatch runs post-commit work such as the confirmation email.
	dispatch func(func())
}

// confirmationTimeout bounds one confirmation send, independent of the request.
const confirmationTimeout = 15 * time.Second

// NewRegistrationService creates a RegistrationService. emailService and metrics may be nil.
func NewRegistrationService(
	eventRepo domain.EventRepository,
	registrationRepo domain.RegistrationRepository,
	emailService domain.EmailService,
	metrics domain.RegistrationMetrics,
	logger *slog.Logger,
	timeout time.Duration,
) domain.RegistrationService {
	return &registrationService{
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		emailService:     emailService,
		metrics:          metrics,
		logger:           logger,
		contextTimeout:   timeout,
		now:              time.Now,
		dispatch:         func(f func()) { go f() },
	}
}

// SubmitRegistration validates the submission, checks admission against a fresh
// count, and inserts. There is no duplicate pre-check: the store's unique index
// on (event_id, email) decides, and its violation comes back as ErrDuplicateRegistration.
func (s *registrationService) SubmitRegistration(ctx context.Context, in domain.RegistrationInput) (*domain.Registration, error) {
	in.Normalize()
	if errs := in.Validate(); len(errs) > 0 {
		s.observe(OutcomeValidationFailed)
		return nil, domain.NewValidationError(errs...)
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, in.EventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.observe(domain.RejectEventNotFound.String())
			return nil, domain.ErrNotFound
		}
		s.observe(OutcomeError)
		return nil, fmt.Errorf("get event: %w", err)
	}

	count, err := s.registrationRepo.CountByEvent(ctx, event.ID)
	if err != nil {
		s.observe(OutcomeError)
		return nil, fmt.Errorf("count registrations: %w", err)
	}

	now := s.now()
	if decision := domain.AdmitRegistration(event, count, now); decision != domain.Admit {
		if decision == domain.RejectCapacityReached && s.alreadyRegistered(ctx, event.ID, in.Email) {
			s.observe(OutcomeDuplicate)
			return nil, domain.ErrDuplicateRegistration
		}
		s.observe(decision.String())
		s.logger.InfoContext(ctx, "registration rejected", "event_id", event.ID, "decision", decision.String(), "count", count)
		return nil, decision.Err()
	}

	reg := domain.NewRegistration(in, now)
	if err := s.registrationRepo.Create(ctx, reg); err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateRegistration):
			s.observe(OutcomeDuplicate)
			return nil, domain.ErrDuplicateRegistration
		case errors.Is(err, domain.ErrNotFound):
			s.observe(domain.RejectEventNotFound.String())
			return nil, domain.ErrNotFound
		}
		s.observe(OutcomeError)
		return nil, fmt.Errorf("create registration: %w", err)
	}
	s.observe(OutcomeAdmitted)

	s.sendConfirmation(ctx, event, reg)
	return reg, nil
}

// alreadyRegistered lets a registrant who is already on a full event's list see
// the duplicate message instead of the capacity one. A lookup error keeps the
// capacity rejection.
func (s *registrationService) alreadyRegistered(ctx context.Context, eventID, email string) bool {
	ok, err := s.registrationRepo.Exists(ctx, eventID, email)
	if err != nil {
		s.logger.WarnContext(ctx, "duplicate lookup failed", "event_id", eventID, "err", err)
		return false
	}
	return ok
}

// sendConfirmation hands the email off to dispatch on a context detached from
// the request, so a slow mailer never delays or fails the registration.
func (s *registrationService) sendConfirmation(ctx context.Context, event *domain.Event, reg *domain.Registration) {
	if s.emailService == nil {
		return
	}
	data := &domain.RegistrationConfirmationEmailData{
		Email:         reg.Email,
		FullName:      reg.FullName,
		EventTitle:    event.Title,
		EventDate:     event.Date.Format("Monday, 2 January 2006 15:04 MST"),
		EventLocation: event.Location,
	}
	sendCtx := context.WithoutCancel(ctx)
	eventID, registrationID := event.ID, reg.ID
	s.dispatch(func() {
		sendCtx, cancel := context.WithTimeout(sendCtx, confirmationTimeout)
		defer cancel()
		if err := s.emailService.SendRegistrationConfirmation(sendCtx, data); err != nil {
			s.logger.WarnContext(sendCtx, "registration confirmation not sent", "event_id", eventID, "registration_id", registrationID, "err", err)
		}
	})
}

func (s *registrationService) ListRegistrations(ctx context.Context, eventID string) ([]*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	regs, err := s.registrationRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	if regs == nil {
		regs = []*domain.Registration{}
	}
	return regs, nil
}

func (s *registrationService) observe(outcome string) {
	if s.metrics != nil {
		s.metrics.ObserveRegistration(outcome)
	}
}
