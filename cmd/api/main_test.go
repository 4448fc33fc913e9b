package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	appconfig "github.com/ajmdigital/leads-api/internal/config"
	"github.com/ajmdigital/leads-api/pkg/logging"
)

func TestBuildApplicationWithoutBackends(t *testing.T) {
	cfg := &appconfig.Config{
		Port:          "8080",
		RateLimitSalt: "salt",
	}
	handler, cleanup := buildApplication(context.Background(), cfg, logging.New("error"))
	t.Cleanup(cleanup)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 from /health, got %d", rr.Code)
	}

	// Without a database the endpoint reports the store as unavailable
	// instead of crashing.
	body, _ := json.Marshal(map[string]string{
		"nombre":  "Rosa Quirós",
		"email":   "rosa@example.com",
		"mensaje": "Quiero información sobre un sitio web.",
	})
	req = httptest.NewRequest(http.MethodPost, "/api/lead", bytes.NewReader(body))
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 without a store, got %d", rr.Code)
	}

	var decoded struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Code != "E_FB_ENV_MISSING" {
		t.Fatalf("expected E_FB_ENV_MISSING, got %q", decoded.Code)
	}
}

func TestBuildApplicationMetricsExposed(t *testing.T) {
	cfg := &appconfig.Config{Port: "8080", RateLimitSalt: "salt"}
	handler, cleanup := buildApplication(context.Background(), cfg, logging.New("error"))
	t.Cleanup(cleanup)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 from /metrics, got %d", rr.Code)
	}
}
