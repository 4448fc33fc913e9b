package leads

import (
	"regexp"
	"strings"
)

const (
	nombreMin  = 2
	nombreMax  = 50
	emailMax   = 100
	mensajeMin = 10
	mensajeMax = 500
)

var (
	nombreRe = regexp.MustCompile(`^[a-zA-ZáéíóúÁÉÍÓÚñÑ\s]+$`)
	emailRe  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// 8 to 15 characters of digits, spaces, hyphens, parens, plus.
	telefonoRe = regexp.MustCompile(`^[\d\s\-+()]{8,15}$`)
	digitsRe   = regexp.MustCompile(`\D`)
)

// Validate narrows a raw submission into a ValidatedSubmission or reports the
// first invalid field. Field order is stable (nombre, email, telefono,
// mensaje) so the client always highlights the same field first. The honeypot
// is not checked here; see Submission.HoneypotTripped.
func Validate(s *Submission) (ValidatedSubmission, *FieldError) {
	var v ValidatedSubmission

	switch {
	case len([]rune(s.Nombre)) < nombreMin:
		return v, &FieldError{Field: "nombre", Message: "Mínimo 2 caracteres"}
	case len([]rune(s.Nombre)) > nombreMax:
		return v, &FieldError{Field: "nombre", Message: "Máximo 50 caracteres"}
	case !nombreRe.MatchString(s.Nombre):
		return v, &FieldError{Field: "nombre", Message: "Solo letras y espacios"}
	}

	if len(s.Email) > emailMax || !emailRe.MatchString(s.Email) {
		return v, &FieldError{Field: "email", Message: "Email inválido"}
	}

	telefono := strings.TrimSpace(s.Telefono)
	if telefono != "" && !telefonoRe.MatchString(telefono) {
		return v, &FieldError{Field: "telefono", Message: "Teléfono inválido"}
	}

	switch {
	case len([]rune(s.Mensaje)) < mensajeMin:
		return v, &FieldError{Field: "mensaje", Message: "Mínimo 10 caracteres"}
	case len([]rune(s.Mensaje)) > mensajeMax:
		return v, &FieldError{Field: "mensaje", Message: "Máximo 500 caracteres"}
	}

	v.Nombre = s.Nombre
	v.Email = strings.ToLower(s.Email)
	v.Telefono = digitsRe.ReplaceAllString(telefono, "")
	v.Mensaje = strings.TrimSpace(s.Mensaje)
	return v, nil
}
