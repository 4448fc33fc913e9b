package leads

import (
	"errors"
	"net/http"
)

// ErrorCode is the closed set of machine codes the lead endpoint may return.
// The E_FB_* names are kept verbatim for wire compatibility with the deployed
// form clients; they historically referred to the backing store.
type ErrorCode string

const (
	CodeOrigin    ErrorCode = "E_ORIGIN"
	CodePayload   ErrorCode = "E_PAYLOAD"
	CodeInput     ErrorCode = "E_INPUT"
	CodeRecaptcha ErrorCode = "E_RECAPTCHA"
	CodeRateLimit ErrorCode = "E_RATE_LIMIT"
	CodeSchema    ErrorCode = "E_SCHEMA"
	// CodeStoreInit stays in the published table, but store construction
	// failures happen at boot and degrade to a nil repository, which submits
	// report as CodeStoreEnv. No handler path emits CodeStoreInit today.
	CodeStoreInit  ErrorCode = "E_FB_INIT"
	CodeStoreEnv   ErrorCode = "E_FB_ENV_MISSING"
	CodeStoreWrite ErrorCode = "E_FB_WRITE"
	CodeUnknown    ErrorCode = "E_UNKNOWN"
)

// Codes lists every member of the taxonomy, in table order.
func Codes() []ErrorCode {
	return []ErrorCode{
		CodeOrigin, CodePayload, CodeInput, CodeRecaptcha, CodeRateLimit,
		CodeSchema, CodeStoreInit, CodeStoreEnv, CodeStoreWrite, CodeUnknown,
	}
}

// HTTPStatus maps a code to its response status. Unknown values collapse to
// 500 so an unmapped code can never reach serialization with a zero status.
func (c ErrorCode) HTTPStatus() int {
	switch c {
	case CodeOrigin:
		return http.StatusForbidden
	case CodePayload:
		return http.StatusRequestEntityTooLarge
	case CodeInput, CodeRecaptcha:
		return http.StatusBadRequest
	case CodeRateLimit:
		return http.StatusTooManyRequests
	case CodeSchema, CodeStoreInit, CodeStoreEnv, CodeStoreWrite, CodeUnknown:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the user-facing text for a code. Infrastructure failures
// share vague wording; the code is what operators correlate on.
func (c ErrorCode) Message() string {
	switch c {
	case CodeOrigin:
		return "Origen no permitido"
	case CodePayload:
		return "Payload demasiado grande"
	case CodeInput:
		return "Datos inválidos"
	case CodeRecaptcha:
		return "Fallo reCAPTCHA"
	case CodeRateLimit:
		return "Demasiados envíos. Intenta en una hora."
	case CodeSchema:
		return "Error de configuración del servidor"
	case CodeStoreInit:
		return "Error de inicialización de servicio"
	case CodeStoreEnv:
		return "Configuración incompleta del servidor"
	case CodeStoreWrite:
		return "No se pudo guardar el mensaje"
	default:
		return "Error del servidor"
	}
}

// Normalize maps any value outside the taxonomy to CodeUnknown.
func (c ErrorCode) Normalize() ErrorCode {
	for _, known := range Codes() {
		if c == known {
			return c
		}
	}
	return CodeUnknown
}

var (
	// ErrPersistence wraps failures writing the lead record.
	ErrPersistence = errors.New("leads: persistence write failed")

	// ErrStoreNotConfigured signals missing store credentials.
	ErrStoreNotConfigured = errors.New("leads: store not configured")

	// ErrLeadNotFound is returned when a lead is not found.
	ErrLeadNotFound = errors.New("leads: lead not found")
)

// FieldError identifies the first invalid field of a submission.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}
