package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	PublicBaseURL string

	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// Origins allowed to call the lead endpoint. Empty means same-domain
	// deployment and the origin check is skipped.
	AllowedOrigins []string

	// Lead pipeline
	RateLimitSalt      string
	LeadMaxPerHour     int
	LeadWindow         time.Duration
	RecaptchaSecretKey string
	RecaptchaSiteKey   string

	AdminJWTSecret string

	// Operator notification
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	LeadNotifyEmail   string

	// Presentational contact channel surfaced by the client form.
	WhatsAppNumber  string
	WhatsAppMessage string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		AllowedOrigins: splitCSV(getEnv("ALLOWED_ORIGINS", "")),

		RateLimitSalt:      getEnv("RATE_LIMIT_SALT", "salt"),
		LeadMaxPerHour:     getEnvAsInt("LEAD_MAX_PER_HOUR", 5),
		LeadWindow:         getEnvAsDuration("LEAD_RATE_WINDOW", time.Hour),
		RecaptchaSecretKey: getEnv("RECAPTCHA_SECRET_KEY", ""),
		RecaptchaSiteKey:   getEnv("RECAPTCHA_SITE_KEY", ""),

		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "AJM Digital"),
		LeadNotifyEmail:   getEnv("LEAD_NOTIFY_EMAIL", ""),

		WhatsAppNumber: getEnv("WA_NUMBER", ""),
		WhatsAppMessage: getEnv("WA_MESSAGE",
			"Hola AJM. Vi su sitio web y me gustaría recibir orientación sobre sus servicios. ¡Gracias!"),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func splitCSV(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
