// Package captcha verifies reCAPTCHA v3 tokens against the provider's
// siteverify API. The check fails open when no secret is configured (the
// operator opted out) and fails closed on transport errors (operational
// anomaly that should block the request).
package captcha

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ajmdigital/leads-api/pkg/logging"
)

// DefaultEndpoint is Google's siteverify API.
const DefaultEndpoint = "https://www.google.com/recaptcha/api/siteverify"

// Outcome is the tri-state verification result. "Not configured" and
// "passed" have different operational meanings worth telling apart in logs.
type Outcome int

const (
	NotConfigured Outcome = iota
	Passed
	Failed
)

func (o Outcome) String() string {
	switch o {
	case NotConfigured:
		return "not_configured"
	case Passed:
		return "passed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Verification carries the outcome and the provider's optional score.
type Verification struct {
	Outcome Outcome
	Score   *float64
}

// Allowed reports whether the request may proceed.
func (v Verification) Allowed() bool {
	return v.Outcome != Failed
}

type siteverifyResponse struct {
	Success    bool     `json:"success"`
	Score      *float64 `json:"score"`
	ErrorCodes []string `json:"error-codes"`
}

// Verifier calls the provider with a shared secret and the caller's IP.
type Verifier struct {
	secret     string
	endpoint   string
	httpClient *http.Client
	logger     *logging.Logger
}

// New creates a verifier. An empty secret disables verification entirely.
func New(secret string, logger *logging.Logger) *Verifier {
	if logger == nil {
		logger = logging.Default()
	}
	return &Verifier{
		secret:     secret,
		endpoint:   DefaultEndpoint,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

// WithEndpoint overrides the provider URL. Tests point it at a local server.
func (v *Verifier) WithEndpoint(endpoint string) *Verifier {
	v.endpoint = endpoint
	return v
}

// Verify checks the token for the given caller IP. A missing secret or a
// missing token yields NotConfigured; provider rejection or any transport
// failure yields Failed.
func (v *Verifier) Verify(ctx context.Context, token, ip string) Verification {
	if v.secret == "" || token == "" {
		return Verification{Outcome: NotConfigured}
	}

	form := url.Values{
		"secret":   {v.secret},
		"response": {token},
		"remoteip": {ip},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		v.logger.Error("recaptcha request build failed", "error", err)
		return Verification{Outcome: Failed}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		v.logger.Error("recaptcha verification call failed", "error", err)
		return Verification{Outcome: Failed}
	}
	defer resp.Body.Close()

	var result siteverifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		v.logger.Error("recaptcha response decode failed", "error", err)
		return Verification{Outcome: Failed}
	}

	if !result.Success {
		v.logger.Warn("recaptcha rejected token", "error_codes", result.ErrorCodes)
		return Verification{Outcome: Failed, Score: result.Score}
	}
	return Verification{Outcome: Passed, Score: result.Score}
}
