// Package leadclient submits contact-form leads to the leads API. It mirrors
// what a site frontend does: drafts survive restarts, a local rate limit
// rejects bursts before any network traffic, and UTM attribution rides along
// with every submission.
package leadclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ajmdigital/leads-api/pkg/logging"
)

// FallbackMessage is shown when the server response cannot be decoded.
const FallbackMessage = "Hubo un error al enviar el mensaje. Por favor intenta de nuevo."

// RateLimitMessage is shown when the local limiter rejects a submission
// without contacting the server.
const RateLimitMessage = "Has alcanzado el límite de envíos. Por favor intenta más tarde."

// FormState carries the visible form fields plus the hidden honeypot.
// StartedAt marks when the user began filling the form; the elapsed time is
// reported to the server as a bot-detection signal.
type FormState struct {
	Nombre    string    `json:"nombre"`
	Email     string    `json:"email"`
	Telefono  string    `json:"telefono"`
	Mensaje   string    `json:"mensaje"`
	Website   string    `json:"website"`
	StartedAt time.Time `json:"-"`
}

// APIError is a rejection from the server or the local limiter. Code is one
// of the server's published error codes, or empty when the response could not
// be decoded.
type APIError struct {
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Result reports a successful submission.
type Result struct {
	ID      string
	Message string
}

// TokenProvider produces a CAPTCHA token for a submission. Implementations
// wrap whatever challenge widget the frontend runs.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// NoopTokenProvider returns an empty token. The server treats an absent
// token as CAPTCHA-not-configured.
type NoopTokenProvider struct{}

func (NoopTokenProvider) Token(context.Context) (string, error) { return "", nil }

// Client submits leads to the API endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	drafts     DraftStore
	limiter    *LocalLimiter
	captcha    TokenProvider
	logger     *logging.Logger
	now        func() time.Time

	// PageURL and Referrer describe where the form lives; they feed
	// UTM attribution.
	PageURL  string
	Referrer string
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient swaps the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithDraftStore enables draft persistence.
func WithDraftStore(ds DraftStore) Option {
	return func(c *Client) { c.drafts = ds }
}

// WithLocalLimiter enables client-side rate limiting.
func WithLocalLimiter(l *LocalLimiter) Option {
	return func(c *Client) { c.limiter = l }
}

// WithTokenProvider sets the CAPTCHA token source.
func WithTokenProvider(tp TokenProvider) Option {
	return func(c *Client) { c.captcha = tp }
}

// WithPage records the page URL and referrer used for attribution.
func WithPage(pageURL, referrer string) Option {
	return func(c *Client) {
		c.PageURL = pageURL
		c.Referrer = referrer
	}
}

// New creates a client for the given API base URL.
func New(baseURL string, logger *logging.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		captcha:    NoopTokenProvider{},
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SaveDraft persists the current form state so a restart does not lose it.
// The honeypot field never reaches the draft store.
func (c *Client) SaveDraft(state FormState) error {
	if c.drafts == nil {
		return nil
	}
	state.Website = ""
	return c.drafts.Save(state)
}

// LoadDraft restores a previously saved draft. A missing draft returns the
// zero FormState and no error.
func (c *Client) LoadDraft() (FormState, error) {
	if c.drafts == nil {
		return FormState{}, nil
	}
	return c.drafts.Load()
}

type submitPayload struct {
	FormState
	RecaptchaToken string     `json:"recaptchaToken,omitempty"`
	UTM            Attributes `json:"utm"`
	DurationMs     int64      `json:"durationMs,omitempty"`
}

type serverResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Submit sends the form to the server. Honeypot-tripped forms are dropped
// silently with a synthetic success and no network call. On success the
// limiter records the attempt and the draft is cleared; on failure the draft
// stays so the user can retry.
func (c *Client) Submit(ctx context.Context, state FormState) (Result, error) {
	if strings.TrimSpace(state.Website) != "" {
		c.logger.Debug("honeypot tripped, dropping submission")
		return Result{Message: "Mensaje enviado correctamente"}, nil
	}

	if c.limiter != nil {
		ok, err := c.limiter.Allow()
		if err != nil {
			c.logger.Warn("local rate limit check failed", "error", err)
		} else if !ok {
			return Result{}, &APIError{Code: "E_RATE_LIMIT", Message: RateLimitMessage}
		}
	}

	token, err := c.captcha.Token(ctx)
	if err != nil {
		c.logger.Warn("captcha token unavailable", "error", err)
		token = ""
	}

	payload := submitPayload{
		FormState:      state,
		RecaptchaToken: token,
		UTM:            CollectUTM(c.PageURL, c.Referrer),
	}
	if !state.StartedAt.IsZero() {
		payload.DurationMs = c.now().Sub(state.StartedAt).Milliseconds()
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Result{}, fmt.Errorf("leadclient: encode payload: %w", err)
	}

	start := c.now()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/lead", bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("leadclient: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.PageURL != "" {
		req.Header.Set("Referer", c.PageURL)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("leadclient: send: %w", err)
	}
	defer resp.Body.Close()

	var decoded serverResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&decoded)

	if resp.StatusCode == http.StatusOK && decodeErr == nil && decoded.Success {
		if c.limiter != nil {
			if err := c.limiter.Record(); err != nil {
				c.logger.Warn("recording submission timestamp failed", "error", err)
			}
		}
		if c.drafts != nil {
			if err := c.drafts.Clear(); err != nil {
				c.logger.Warn("clearing draft failed", "error", err)
			}
		}
		c.logger.Info("lead submitted", "id", decoded.ID,
			"duration_ms", c.now().Sub(start).Milliseconds())
		return Result{ID: decoded.ID, Message: decoded.Message}, nil
	}

	apiErr := &APIError{Message: FallbackMessage}
	if decodeErr == nil && decoded.Code != "" {
		apiErr.Code = decoded.Code
		if decoded.Message != "" {
			apiErr.Message = decoded.Message
		}
	}
	return Result{}, apiErr
}
