package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"clubevents/config"
	_ "clubevents/docs"
	"clubevents/internal/adapters/auth"
	"clubevents/internal/adapters/email"
	"clubevents/internal/adapters/ratelimit"
	httpdelivery "clubevents/internal/delivery/http"
	"clubevents/internal/delivery/http/controllers"
	"clubevents/internal/delivery/http/middleware"
	"clubevents/internal/domain"
	"clubevents/internal/monitoring"
	"clubevents/internal/repository/postgres"
	"clubevents/internal/services"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, config.NewLogger(os.Stdout), migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Apply the schema before serving")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger, migrate bool) error {
	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("connected to postgres")

	if migrate {
		if err := postgres.Migrate(ctx, db); err != nil {
			return err
		}
		logger.Info("schema applied")
	}

	var limiter domain.RateLimiter
	if cfg.RedisURL != "" {
		client, err := ratelimit.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer client.Close()
		limiter = ratelimit.NewFixedWindow(client, cfg.RateLimitPerMinute, time.Minute)
		logger.Info("rate limiting enabled", "per_minute", cfg.RateLimitPerMinute)
	} else {
		logger.Warn("REDIS_URL not set, public forms are not rate limited")
	}

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.AWSRegion,
			AccessKeyID:        cfg.Email.AWSAccessKeyID,
			SecretAccessKey:    cfg.Email.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.Email.SESInsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		return err
	}

	proxies, err := middleware.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return err
	}

	metrics := monitoring.NewMetrics()

	eventRepo := postgres.NewEventRepository(db)
	registrationRepo := postgres.NewRegistrationRepository(db)
	jwt := auth.NewJWT(cfg.JWTSecret)

	emailSvc := services.NewEmailService(mailer, email.NewTemplateRenderer())
	eventSvc := services.NewEventService(eventRepo, registrationRepo, cfg.RequestTimeout)
	registrationSvc := services.NewRegistrationService(eventRepo, registrationRepo, emailSvc, metrics, logger, cfg.RequestTimeout)
	authSvc := services.NewAuthService(
		postgres.NewUserRepository(db),
		postgres.NewRoleRepository(db),
		auth.NewBcryptHasher(bcrypt.DefaultCost),
		jwt,
		cfg.JWTExpiry,
	)
	membershipSvc := services.NewMembershipService(
		postgres.NewSettingsRepository(db),
		postgres.NewApplicationRepository(db),
		cfg.RequestTimeout,
	)

	handler := httpdelivery.NewRouter(httpdelivery.RouterDeps{
		Logger:                 logger,
		Verifier:               jwt,
		Limiter:                limiter,
		Metrics:                metrics,
		Gatherer:               metrics.Registry,
		AllowedOrigins:         cfg.AllowedOrigins,
		TrustedProxies:         proxies,
		EventController:        controllers.NewEventController(logger, eventSvc),
		RegistrationController: controllers.NewRegistrationController(logger, registrationSvc),
		AuthController:         controllers.NewAuthController(logger, authSvc),
		MembershipController:   controllers.NewMembershipController(logger, membershipSvc),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
