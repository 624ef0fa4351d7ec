package services

import (
	"context"
	"fmt"
	"time"

	"clubevents/internal/domain"
)

type membershipService struct {
	settingsRepo    domain.SettingsRepository
	applicationRepo domain.ApplicationRepository
	contextTimeout  time.Duration
}

// NewMembershipService returns the join form service.
func NewMembershipService(settingsRepo domain.SettingsRepository, applicationRepo domain.ApplicationRepository, timeout time.Duration) domain.MembershipService {
	return &membershipService{
		settingsRepo:    settingsRepo,
		applicationRepo: applicationRepo,
		contextTimeout:  timeout,
	}
}

func (s *membershipService) JoinFormEnabled(ctx context.Context) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	enabled, err := s.settingsRepo.GetBool(ctx, domain.SettingJoinFormEnabled, true)
	if err != nil {
		return false, fmt.Errorf("get join form setting: %w", err)
	}
	return enabled, nil
}

func (s *membershipService) SetJoinFormEnabled(ctx context.Context, enabled bool) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	v, err := s.settingsRepo.SetBool(ctx, domain.SettingJoinFormEnabled, enabled)
	if err != nil {
		return false, fmt.Errorf("set join form setting: %w", err)
	}
	return v, nil
}

func (s *membershipService) Apply(ctx context.Context, in domain.ApplicationInput) (*domain.Application, error) {
	in.Normalize()
	if errs := in.Validate(); len(errs) > 0 {
		return nil, domain.NewValidationError(errs...)
	}
	enabled, err := s.JoinFormEnabled(ctx)
	if err != nil {
		return nil, err
	}
	if !enabled {
		return nil, domain.ErrJoinFormClosed
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	app := &domain.Application{
		FullName:   in.FullName,
		Email:      in.Email,
		Major:      in.Major,
		Motivation: in.Motivation,
		CreatedAt:  time.Now(),
	}
	if err := s.applicationRepo.Create(ctx, app); err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}
	return app, nil
}

func (s *membershipService) ListApplications(ctx context.Context, params domain.PaginationParams) ([]*domain.Application, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	apps, total, err := s.applicationRepo.List(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list applications: %w", err)
	}
	if apps == nil {
		apps = []*domain.Application{}
	}
	return apps, total, nil
}
