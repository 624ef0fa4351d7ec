package controllers

import (
	"context"
	"io"
	"log/slog"

	"clubevents/internal/domain"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

const testEventID = "7b0d6c1e-3f4a-4e8b-9a51-2c6d8e0f1a23"

type fakeEventService struct {
	err            error
	events         []*domain.EventWithCount
	event          *domain.EventWithCount
	lastPrivileged *bool
	lastID         string
	lastInput      domain.EventInput
}

func (f *fakeEventService) ListEvents(ctx context.Context, privileged bool) ([]*domain.EventWithCount, error) {
	f.lastPrivileged = &privileged
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

func (f *fakeEventService) GetEvent(ctx context.Context, id string) (*domain.EventWithCount, error) {
	f.lastID = id
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

func (f *fakeEventService) CreateEvent(ctx context.Context, in domain.EventInput) (*domain.Event, error) {
	f.lastInput = in
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Event{ID: testEventID, Title: in.Title, MaxParticipants: in.MaxParticipants}, nil
}

func (f *fakeEventService) UpdateEvent(ctx context.Context, id string, in domain.EventInput) (*domain.Event, error) {
	f.lastID = id
	f.lastInput = in
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Event{ID: id, Title: in.Title}, nil
}

func (f *fakeEventService) DeleteEvent(ctx context.Context, id string) error {
	f.lastID = id
	return f.err
}

type fakeRegistrationService struct {
	err       error
	lastInput domain.RegistrationInput
	regs      []*domain.Registration
	calls     int
}

func (f *fakeRegistrationService) SubmitRegistration(ctx context.Context, in domain.RegistrationInput) (*domain.Registration, error) {
	f.calls++
	f.lastInput = in
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Registration{ID: "reg-1", EventID: in.EventID, FullName: in.FullName, Email: in.Email, AgreedToPolicies: in.AgreedToPolicies}, nil
}

func (f *fakeRegistrationService) ListRegistrations(ctx context.Context, eventID string) ([]*domain.Registration, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.regs, nil
}

type fakeAuthService struct {
	token string
	err   error
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (string, error) {
	return f.token, f.err
}

func (f *fakeAuthService) CreateAdmin(ctx context.Context, username, email, password string) (*domain.User, error) {
	return nil, nil
}

type fakeMembershipService struct {
	enabled    bool
	err        error
	apps       []*domain.Application
	total      int
	lastParams domain.PaginationParams
}

func (f *fakeMembershipService) JoinFormEnabled(ctx context.Context) (bool, error) {
	return f.enabled, f.err
}

func (f *fakeMembershipService) SetJoinFormEnabled(ctx context.Context, enabled bool) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	f.enabled = enabled
	return enabled, nil
}

func (f *fakeMembershipService) Apply(ctx context.Context, in domain.ApplicationInput) (*domain.Application, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Application{ID: "app-1", FullName: in.FullName, Email: in.Email}, nil
}

func (f *fakeMembershipService) ListApplications(ctx context.Context, params domain.PaginationParams) ([]*domain.Application, int, error) {
	f.lastParams = params
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.apps, f.total, nil
}
