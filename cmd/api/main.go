package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ajmdigital/leads-api/internal/api/router"
	"github.com/ajmdigital/leads-api/internal/app/bootstrap"
	"github.com/ajmdigital/leads-api/internal/captcha"
	appconfig "github.com/ajmdigital/leads-api/internal/config"
	"github.com/ajmdigital/leads-api/internal/leads"
	"github.com/ajmdigital/leads-api/internal/notify"
	"github.com/ajmdigital/leads-api/internal/observability/metrics"
	"github.com/ajmdigital/leads-api/internal/ratelimit"
	"github.com/ajmdigital/leads-api/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting leads API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()
	handler, cleanup := buildApplication(ctx, cfg, logger)
	defer cleanup()

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// buildApplication wires every component and returns the root handler plus a
// cleanup callback for the owned connections.
func buildApplication(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (http.Handler, func()) {
	pool := bootstrap.BuildPgxPool(ctx, cfg, logger)
	var repo leads.Repository
	if pool != nil {
		repo = leads.NewPostgresRepository(pool)
	} else {
		logger.Warn("no database configured, lead persistence unavailable")
	}

	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	var limiter ratelimit.Limiter
	if redisClient != nil {
		limiter = ratelimit.NewRedisLimiter(redisClient, cfg.LeadMaxPerHour, cfg.LeadWindow)
	} else {
		logger.Warn("no redis configured, rate limiting disabled")
	}

	var verifier *captcha.Verifier
	if cfg.RecaptchaSecretKey != "" {
		verifier = captcha.New(cfg.RecaptchaSecretKey, logger)
	} else {
		logger.Warn("no recaptcha secret configured, captcha verification disabled")
	}

	sender := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger)
	var notifier leads.Notifier
	if sender != nil && cfg.LeadNotifyEmail != "" {
		notifier = notify.NewService(sender, cfg.LeadNotifyEmail, logger)
	}

	registry := prometheus.NewRegistry()
	leadMetrics := metrics.NewLeadMetrics(registry)

	leadsHandler := leads.NewHandler(leads.HandlerConfig{
		Repo:           repo,
		Limiter:        limiter,
		Captcha:        verifier,
		Notifier:       notifier,
		Metrics:        leadMetrics,
		Logger:         logger,
		AllowedOrigins: cfg.AllowedOrigins,
		RateLimitSalt:  cfg.RateLimitSalt,
	})

	handler := router.New(&router.Config{
		Logger:         logger,
		LeadsHandler:   leadsHandler,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		AllowedOrigins: cfg.AllowedOrigins,
		AdminJWTSecret: cfg.AdminJWTSecret,
	})

	cleanup := func() {
		if redisClient != nil {
			_ = redisClient.Close()
		}
		if pool != nil {
			pool.Close()
		}
	}
	return handler, cleanup
}
