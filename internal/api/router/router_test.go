package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/ajmdigital/leads-api/internal/leads"
	"github.com/ajmdigital/leads-api/internal/observability/metrics"
	"github.com/ajmdigital/leads-api/internal/ratelimit"
	"github.com/ajmdigital/leads-api/pkg/logging"
)

func newTestRouter(t *testing.T, origins []string, adminSecret string) http.Handler {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	reg := prometheus.NewRegistry()
	handler := leads.NewHandler(leads.HandlerConfig{
		Repo:           leads.NewInMemoryRepository(),
		Limiter:        ratelimit.NewRedisLimiter(client, 5, time.Hour),
		Metrics:        metrics.NewLeadMetrics(reg),
		Logger:         logging.Default(),
		AllowedOrigins: origins,
		RateLimitSalt:  "salt",
	})

	return New(&Config{
		Logger:         logging.Default(),
		LeadsHandler:   handler,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		AllowedOrigins: origins,
		AdminJWTSecret: adminSecret,
	})
}

func TestHealthRoute(t *testing.T) {
	r := newTestRouter(t, nil, "")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestLeadRouteWired(t *testing.T) {
	r := newTestRouter(t, nil, "")

	body, _ := json.Marshal(leads.Submission{
		Nombre:  "Ana Solís",
		Email:   "ana@example.com",
		Mensaje: "Quiero información sobre jabones artesanales.",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/lead", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestPreflightRoute(t *testing.T) {
	r := newTestRouter(t, []string{"https://ajm.example"}, "")

	req := httptest.NewRequest(http.MethodOptions, "/api/lead", nil)
	req.Header.Set("Origin", "https://ajm.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://ajm.example" {
		t.Errorf("expected CORS headers on preflight, got %q", got)
	}
}

func TestAdminRouteRequiresToken(t *testing.T) {
	r := newTestRouter(t, nil, "admin-secret")

	req := httptest.NewRequest(http.MethodGet, "/admin/leads", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
}

func TestAdminRouteAbsentWithoutSecret(t *testing.T) {
	r := newTestRouter(t, nil, "")

	req := httptest.NewRequest(http.MethodGet, "/admin/leads", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 when admin surface disabled, got %d", w.Code)
	}
}

func TestMetricsRoute(t *testing.T) {
	r := newTestRouter(t, nil, "")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}
