package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	httpmiddleware "github.com/ajmdigital/leads-api/internal/http/middleware"
	"github.com/ajmdigital/leads-api/internal/leads"
	"github.com/ajmdigital/leads-api/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger         *logging.Logger
	LeadsHandler   *leads.Handler
	MetricsHandler http.Handler
	AllowedOrigins []string
	AdminJWTSecret string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.AllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if cfg.LeadsHandler != nil {
		r.Options("/api/lead", cfg.LeadsHandler.Preflight)
		r.Post("/api/lead", cfg.LeadsHandler.Create)

		// Admin read surface. Leads stay immutable; listing only.
		if cfg.AdminJWTSecret != "" {
			r.Route("/admin", func(admin chi.Router) {
				admin.Use(httpmiddleware.AdminJWT(cfg.AdminJWTSecret))
				admin.Get("/leads", cfg.LeadsHandler.ListLeads)
			})
		}
	}

	return r
}
