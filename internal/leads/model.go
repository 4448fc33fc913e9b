package leads

import "time"

// UTMParams carries marketing attribution collected by the client from the
// landing URL and referrer.
type UTMParams struct {
	Source   string `json:"source"`
	Medium   string `json:"medium"`
	Campaign string `json:"campaign"`
	Content  string `json:"content"`
	Term     string `json:"term"`
	Referrer string `json:"referrer"`
	Page     string `json:"page"`
}

// Submission is the raw contact-form payload as posted by the client.
// Website is a honeypot: legitimate browsers always submit it empty.
type Submission struct {
	Nombre         string    `json:"nombre"`
	Email          string    `json:"email"`
	Telefono       string    `json:"telefono"`
	Mensaje        string    `json:"mensaje"`
	Website        string    `json:"website"`
	RecaptchaToken string    `json:"recaptchaToken,omitempty"`
	UTM            UTMParams `json:"utm"`
	DurationMs     int64     `json:"durationMs,omitempty"`
}

// HoneypotTripped reports whether the hidden field was filled in. This is an
// abuse signal, not a validation failure, and is never surfaced to the caller.
func (s *Submission) HoneypotTripped() bool {
	return s.Website != ""
}

// ValidatedSubmission is a Submission whose fields passed validation and were
// narrowed: email lowercased, telefono digits-only, mensaje trimmed.
type ValidatedSubmission struct {
	Nombre   string
	Email    string
	Telefono string
	Mensaje  string
}

// LeadMeta holds server-derived metadata persisted alongside a lead.
type LeadMeta struct {
	IPHash         string   `json:"ipHash"`
	UserAgent      string   `json:"userAgent"`
	RecaptchaScore *float64 `json:"recaptchaScore"`
}

// Lead is the durable record created once per accepted submission. It is
// immutable after creation.
type Lead struct {
	ID        string    `json:"id"`
	Nombre    string    `json:"nombre"`
	Email     string    `json:"email"`
	Telefono  string    `json:"telefono"`
	Mensaje   string    `json:"mensaje"`
	Status    string    `json:"status"`
	Source    string    `json:"source"`
	UTM       UTMParams `json:"utm"`
	Meta      LeadMeta  `json:"meta"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	// StatusNew is the only status this pipeline ever assigns.
	StatusNew = "new"

	// SourceContactForm tags leads captured through the website form.
	SourceContactForm = "website_contact_form"
)
