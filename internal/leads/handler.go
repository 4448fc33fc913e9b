package leads

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ajmdigital/leads-api/internal/captcha"
	"github.com/ajmdigital/leads-api/internal/observability/metrics"
	"github.com/ajmdigital/leads-api/internal/ratelimit"
	"github.com/ajmdigital/leads-api/pkg/logging"
)

// maxPayloadBytes caps the request body. Oversized bodies are rejected before
// any parsing work.
const maxPayloadBytes = 25_000

// Notifier is told about each persisted lead. Failures are logged, never
// surfaced to the submitter.
type Notifier interface {
	NotifyNewLead(ctx context.Context, lead *Lead) error
}

// HandlerConfig wires the pipeline's collaborators.
type HandlerConfig struct {
	Repo           Repository
	Limiter        ratelimit.Limiter
	Captcha        *captcha.Verifier
	Notifier       Notifier
	Metrics        *metrics.LeadMetrics
	Logger         *logging.Logger
	AllowedOrigins []string
	RateLimitSalt  string
}

// Handler orchestrates the lead-submission pipeline for POST /api/lead.
//
// Gate order: origin, payload size, schema validation, rate limit, CAPTCHA.
// Malformed input never consumes a rate-limit slot, and throttled identities
// never reach the verification endpoint.
type Handler struct {
	repo           Repository
	limiter        ratelimit.Limiter
	captcha        *captcha.Verifier
	notifier       Notifier
	metrics        *metrics.LeadMetrics
	logger         *logging.Logger
	allowedOrigins []string
	salt           string
}

// NewHandler creates the pipeline handler.
func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		repo:           cfg.Repo,
		limiter:        cfg.Limiter,
		captcha:        cfg.Captcha,
		notifier:       cfg.Notifier,
		metrics:        cfg.Metrics,
		logger:         logger,
		allowedOrigins: cfg.AllowedOrigins,
		salt:           cfg.RateLimitSalt,
	}
}

// Preflight answers the CORS preflight for the lead endpoint. Headers are set
// by the CORS middleware when an allow-list is configured.
func (h *Handler) Preflight(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// Create handles POST /api/lead.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() {
		h.metrics.ObserveLatency(time.Since(start).Seconds())
		if rec := recover(); rec != nil {
			h.logger.Error("lead pipeline panic", "panic", rec)
			h.respondError(w, CodeUnknown, "")
		}
	}()

	if !h.originAllowed(r) {
		h.respondError(w, CodeOrigin, "")
		return
	}

	if r.ContentLength > maxPayloadBytes {
		h.respondError(w, CodePayload, "")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxPayloadBytes)

	var sub Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.respondError(w, CodePayload, "")
			return
		}
		h.respondError(w, CodeInput, "")
		return
	}

	// A populated honeypot is bot traffic. Answer with a synthetic success
	// indistinguishable from acceptance and persist nothing.
	if sub.HoneypotTripped() {
		h.metrics.ObserveHoneypot()
		h.logger.Info("honeypot tripped, dropping submission")
		h.respondSuccess(w, uuid.New().String())
		return
	}

	validated, fieldErr := Validate(&sub)
	if fieldErr != nil {
		h.respondError(w, CodeInput, fieldErr.Message)
		return
	}

	if h.repo == nil {
		h.logger.Error("lead store not configured", "code", CodeStoreEnv)
		h.respondError(w, CodeStoreEnv, "")
		return
	}

	ctx := r.Context()
	ip := clientIP(r)
	userAgent := r.UserAgent()
	identity := IdentityHash(h.salt, ip, userAgent)

	if h.limiter != nil {
		if err := h.limiter.Allow(ctx, identity); err != nil {
			if errors.Is(err, ratelimit.ErrRateLimited) {
				h.respondError(w, CodeRateLimit, "")
				return
			}
			h.logger.Error("rate-limit store failed", "error", err)
			h.respondError(w, CodeUnknown, "")
			return
		}
	}

	verification := captcha.Verification{Outcome: captcha.NotConfigured}
	if h.captcha != nil {
		verification = h.captcha.Verify(ctx, sub.RecaptchaToken, ip)
	}
	if !verification.Allowed() {
		h.respondError(w, CodeRecaptcha, "")
		return
	}

	lead := &Lead{
		Nombre:   Clean(validated.Nombre),
		Email:    Clean(validated.Email),
		Telefono: Clean(validated.Telefono),
		Mensaje:  Clean(validated.Mensaje),
		Status:   StatusNew,
		Source:   SourceContactForm,
		UTM:      cleanUTM(sub.UTM),
		Meta: LeadMeta{
			IPHash:         identity,
			UserAgent:      Clean(userAgent),
			RecaptchaScore: verification.Score,
		},
	}

	id, err := h.repo.Create(ctx, lead)
	if err != nil {
		code := CodeStoreWrite
		if errors.Is(err, ErrStoreNotConfigured) {
			code = CodeStoreEnv
		}
		h.logger.Error("lead persistence failed", "error", err, "code", code)
		h.respondError(w, code, "")
		return
	}

	if h.notifier != nil {
		if err := h.notifier.NotifyNewLead(ctx, lead); err != nil {
			h.logger.Error("lead notification failed", "error", err, "id", id)
		}
	}

	h.metrics.ObserveAccepted()
	h.logger.Info("lead created",
		"id", id,
		"captcha", verification.Outcome.String(),
		"utm_source", lead.UTM.Source,
		"form_duration_ms", sub.DurationMs,
	)
	h.respondSuccess(w, id)
}

// ListLeadsResponse is the response for the admin listing.
type ListLeadsResponse struct {
	Leads  []*Lead `json:"leads"`
	Count  int     `json:"count"`
	Offset int     `json:"offset"`
	Limit  int     `json:"limit"`
}

// ListLeads handles GET /admin/leads. Leads are immutable; this is the only
// read surface the pipeline exposes.
func (h *Handler) ListLeads(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{Limit: 50, Offset: 0}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 && limit <= 100 {
			filter.Limit = limit
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			filter.Offset = offset
		}
	}

	if h.repo == nil {
		http.Error(w, "lead store not configured", http.StatusServiceUnavailable)
		return
	}

	found, err := h.repo.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list leads", "error", err)
		http.Error(w, "failed to list leads", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, ListLeadsResponse{
		Leads:  found,
		Count:  len(found),
		Offset: filter.Offset,
		Limit:  filter.Limit,
	})
}

// originAllowed implements the optional origin allow-list: when none is
// configured the site serves same-domain and every caller passes.
func (h *Handler) originAllowed(r *http.Request) bool {
	if len(h.allowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	referer := r.Header.Get("Referer")
	for _, allowed := range h.allowedOrigins {
		if origin != "" && origin == allowed {
			return true
		}
		if referer != "" && strings.HasPrefix(referer, allowed) {
			return true
		}
	}
	return false
}

type successResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	Message string `json:"message"`
}

type errorResponse struct {
	Success bool      `json:"success"`
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (h *Handler) respondSuccess(w http.ResponseWriter, id string) {
	h.writeJSON(w, http.StatusOK, successResponse{
		Success: true,
		ID:      id,
		Message: "Mensaje enviado correctamente",
	})
}

// respondError translates a code through the closed taxonomy. No internal
// error detail ever reaches the response body.
func (h *Handler) respondError(w http.ResponseWriter, code ErrorCode, message string) {
	code = code.Normalize()
	h.metrics.ObserveRejected(string(code))
	if message == "" {
		message = code.Message()
	}
	h.writeJSON(w, code.HTTPStatus(), errorResponse{Success: false, Code: code, Message: message})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}
