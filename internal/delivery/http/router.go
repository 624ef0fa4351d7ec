package http

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"clubevents/internal/delivery/http/controllers"
	"clubevents/internal/delivery/http/middleware"
	"clubevents/internal/domain"
)

// Rate limit scopes, also used as metric labels.
const (
	ScopeRegistrations = "registrations"
	ScopeApplications  = "applications"
)

// Metrics is what the router needs from the Prometheus collectors.
type Metrics interface {
	middleware.RequestObserver
	middleware.RateLimitObserver
}

// RouterDeps carries everything NewRouter wires together. Limiter, Metrics and
// Gatherer may be nil.
type RouterDeps struct {
	Logger                 *slog.Logger
	Verifier               domain.TokenVerifier
	Limiter                domain.RateLimiter
	Metrics                Metrics
	Gatherer               prometheus.Gatherer
	AllowedOrigins         []string
	TrustedProxies         middleware.TrustedProxies
	EventController        *controllers.EventController
	RegistrationController *controllers.RegistrationController
	AuthController         *controllers.AuthController
	MembershipController   *controllers.MembershipController
}

// NewRouter initializes the HTTP router with all application routes and wraps
// it in logging and CORS.
func NewRouter(d RouterDeps) http.Handler {
	mux := http.NewServeMux()

	optional := middleware.OptionalAuth(d.Verifier, d.Logger)
	requireAuth := middleware.RequireAuth(d.Verifier, d.Logger)
	requireAdmin := middleware.RequireRole(domain.RoleAdmin)
	admin := func(next http.HandlerFunc) http.HandlerFunc { return requireAuth(requireAdmin(next)) }

	limit := func(scope string) func(http.HandlerFunc) http.HandlerFunc {
		return middleware.RateLimit(d.Limiter, scope, d.TrustedProxies, d.Metrics, d.Logger)
	}

	// Events
	mux.HandleFunc("GET /events", optional(d.EventController.ListEvents))
	mux.HandleFunc("GET /events/{id}", d.EventController.GetEvent)
	mux.HandleFunc("POST /events", admin(d.EventController.CreateEvent))
	mux.HandleFunc("PUT /events/{id}", admin(d.EventController.UpdateEvent))
	mux.HandleFunc("DELETE /events/{id}", admin(d.EventController.DeleteEvent))

	// Registrations
	mux.HandleFunc("POST /registrations", limit(ScopeRegistrations)(d.RegistrationController.SubmitRegistration))
	mux.HandleFunc("GET /registrations/{eventId}", admin(d.RegistrationController.ListRegistrations))

	// Auth
	mux.HandleFunc("POST /auth/login", d.AuthController.Login)

	// Join form
	mux.HandleFunc("GET /settings/join-status", d.MembershipController.JoinStatus)
	mux.HandleFunc("POST /settings/apply", limit(ScopeApplications)(d.MembershipController.Apply))
	mux.HandleFunc("PUT /settings/join-toggle", admin(d.MembershipController.ToggleJoinForm))
	mux.HandleFunc("GET /settings/applications", admin(d.MembershipController.ListApplications))

	if d.Gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return middleware.LoggingMiddleware(d.Logger, d.Metrics, middleware.CORS(d.AllowedOrigins, mux))
}
