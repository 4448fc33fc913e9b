package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 5, cfg.LeadMaxPerHour)
	assert.Equal(t, time.Hour, cfg.LeadWindow)
	assert.Nil(t, cfg.AllowedOrigins)
	assert.Empty(t, cfg.RecaptchaSecretKey)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LEAD_MAX_PER_HOUR", "2")
	t.Setenv("LEAD_RATE_WINDOW", "30m")
	t.Setenv("REDIS_TLS", "true")
	t.Setenv("ALLOWED_ORIGINS", "https://ajm.example , https://jabones.example,")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 2, cfg.LeadMaxPerHour)
	assert.Equal(t, 30*time.Minute, cfg.LeadWindow)
	assert.True(t, cfg.RedisTLS)
	assert.Equal(t, []string{"https://ajm.example", "https://jabones.example"}, cfg.AllowedOrigins)
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("LEAD_MAX_PER_HOUR", "not-a-number")
	t.Setenv("LEAD_RATE_WINDOW", "soon")
	t.Setenv("REDIS_TLS", "maybe")

	cfg := Load()

	assert.Equal(t, 5, cfg.LeadMaxPerHour)
	assert.Equal(t, time.Hour, cfg.LeadWindow)
	assert.False(t, cfg.RedisTLS)
}
