package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "clubevents/docs"
	"clubevents/internal/delivery/http/controllers"
	"clubevents/internal/domain"
	"clubevents/internal/monitoring"
)

const routerEventID = "7b0d6c1e-3f4a-4e8b-9a51-2c6d8e0f1a23"

type stubVerifier struct{}

func (stubVerifier) Verify(token string) (*domain.Identity, error) {
	switch token {
	case "admin":
		return &domain.Identity{UserID: "u1", Roles: []string{domain.RoleAdmin}}, nil
	case "user":
		return &domain.Identity{UserID: "u2", Roles: []string{domain.RoleUser}}, nil
	}
	return nil, domain.ErrUnauthorized
}

type stubEvents struct{ privileged bool }

func (s *stubEvents) ListEvents(_ context.Context, privileged bool) ([]*domain.EventWithCount, error) {
	s.privileged = privileged
	return []*domain.EventWithCount{}, nil
}
func (s *stubEvents) GetEvent(_ context.Context, id string) (*domain.EventWithCount, error) {
	return &domain.EventWithCount{Event: &domain.Event{ID: id}}, nil
}
func (s *stubEvents) CreateEvent(_ context.Context, in domain.EventInput) (*domain.Event, error) {
	return &domain.Event{ID: routerEventID}, nil
}
func (s *stubEvents) UpdateEvent(_ context.Context, id string, in domain.EventInput) (*domain.Event, error) {
	return &domain.Event{ID: id}, nil
}
func (s *stubEvents) DeleteEvent(_ context.Context, id string) error { return nil }

type stubRegistrations struct{}

func (stubRegistrations) SubmitRegistration(_ context.Context, in domain.RegistrationInput) (*domain.Registration, error) {
	return &domain.Registration{ID: "reg-1"}, nil
}
func (stubRegistrations) ListRegistrations(_ context.Context, eventID string) ([]*domain.Registration, error) {
	return []*domain.Registration{}, nil
}

type stubAuth struct{}

func (stubAuth) Login(context.Context, string, string) (string, error) { return "t", nil }
func (stubAuth) CreateAdmin(context.Context, string, string, string) (*domain.User, error) {
	return nil, nil
}

type stubMembership struct{}

func (stubMembership) JoinFormEnabled(context.Context) (bool, error)           { return true, nil }
func (stubMembership) SetJoinFormEnabled(_ context.Context, v bool) (bool, error) { return v, nil }
func (stubMembership) Apply(context.Context, domain.ApplicationInput) (*domain.Application, error) {
	return &domain.Application{ID: "app-1"}, nil
}
func (stubMembership) ListApplications(context.Context, domain.PaginationParams) ([]*domain.Application, int, error) {
	return nil, 0, nil
}

type denyAll struct{}

func (denyAll) Allow(context.Context, string) (bool, error) { return false, nil }

func newTestRouter(t *testing.T, limiter domain.RateLimiter) (http.Handler, *stubEvents, *monitoring.Metrics) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	events := &stubEvents{}
	metrics := monitoring.NewMetrics()
	h := NewRouter(RouterDeps{
		Logger:                 logger,
		Verifier:               stubVerifier{},
		Limiter:                limiter,
		Metrics:                metrics,
		Gatherer:               metrics.Registry,
		AllowedOrigins:         []string{"https://club.org"},
		EventController:        controllers.NewEventController(logger, events),
		RegistrationController: controllers.NewRegistrationController(logger, stubRegistrations{}),
		AuthController:         controllers.NewAuthController(logger, stubAuth{}),
		MembershipController:   controllers.NewMembershipController(logger, stubMembership{}),
	})
	return h, events, metrics
}

func TestRouter_Access(t *testing.T) {
	router, _, _ := newTestRouter(t, nil)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		token      string
		wantStatus int
	}{
		{name: "public list", method: http.MethodGet, path: "/events", wantStatus: http.StatusOK},
		{name: "public get", method: http.MethodGet, path: "/events/" + routerEventID, wantStatus: http.StatusOK},
		{name: "public register", method: http.MethodPost, path: "/registrations", body: `{"event_id":"x"}`, wantStatus: http.StatusCreated},
		{name: "create needs auth", method: http.MethodPost, path: "/events", body: `{}`, wantStatus: http.StatusUnauthorized},
		{name: "create needs admin", method: http.MethodPost, path: "/events", body: `{}`, token: "user", wantStatus: http.StatusForbidden},
		{name: "admin creates", method: http.MethodPost, path: "/events", body: `{}`, token: "admin", wantStatus: http.StatusCreated},
		{name: "admin deletes", method: http.MethodDelete, path: "/events/" + routerEventID, token: "admin", wantStatus: http.StatusNoContent},
		{name: "registrations list needs admin", method: http.MethodGet, path: "/registrations/" + routerEventID, token: "user", wantStatus: http.StatusForbidden},
		{name: "admin lists registrations", method: http.MethodGet, path: "/registrations/" + routerEventID, token: "admin", wantStatus: http.StatusOK},
		{name: "join status public", method: http.MethodGet, path: "/settings/join-status", wantStatus: http.StatusOK},
		{name: "toggle needs admin", method: http.MethodPut, path: "/settings/join-toggle", body: `{"enabled":true}`, wantStatus: http.StatusUnauthorized},
		{name: "applications admin", method: http.MethodGet, path: "/settings/applications", token: "admin", wantStatus: http.StatusOK},
		{name: "wrong method", method: http.MethodPatch, path: "/events/" + routerEventID, token: "admin", wantStatus: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			assert.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
		})
	}
}

func TestRouter_PrivilegedListing(t *testing.T) {
	router, events, _ := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	req.Header.Set("Authorization", "Bearer admin")
	router.ServeHTTP(httptest.NewRecorder(), req)
	assert.True(t, events.privileged)

	req = httptest.NewRequest(http.MethodGet, "/events", nil)
	req.Header.Set("Authorization", "Bearer expired")
	router.ServeHTTP(httptest.NewRecorder(), req)
	assert.False(t, events.privileged)
}

func TestRouter_RateLimitAndMetrics(t *testing.T) {
	router, _, _ := newTestRouter(t, denyAll{})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/registrations", strings.NewReader(`{}`)))
	require.Equal(t, http.StatusTooManyRequests, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `clubevents_rate_limited_requests_total{scope="registrations"} 1`)
	assert.Contains(t, body, `route="POST /registrations"`)
}

func TestRouter_SwaggerDoc(t *testing.T) {
	router, _, _ := newTestRouter(t, nil)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"/registrations"`)
	assert.Contains(t, rr.Body.String(), `"Club Events API"`)
}
