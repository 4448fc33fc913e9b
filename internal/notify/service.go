package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/ajmdigital/leads-api/internal/leads"
	"github.com/ajmdigital/leads-api/pkg/logging"
)

// Service emails the site operator about each new lead. Best-effort: callers
// log failures and carry on.
type Service struct {
	email  EmailSender
	to     string
	logger *logging.Logger
}

// NewService creates the notification service. With no sender or recipient it
// degrades to a no-op.
func NewService(email EmailSender, to string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{email: email, to: to, logger: logger}
}

// NotifyNewLead sends the operator a summary of a persisted lead.
func (s *Service) NotifyNewLead(ctx context.Context, lead *leads.Lead) error {
	if s.email == nil || s.to == "" {
		s.logger.Debug("notify: email not configured, skipping")
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Nuevo mensaje de contacto\n\n")
	fmt.Fprintf(&b, "Nombre: %s\n", lead.Nombre)
	fmt.Fprintf(&b, "Email: %s\n", lead.Email)
	if lead.Telefono != "" {
		fmt.Fprintf(&b, "Teléfono: %s\n", lead.Telefono)
	}
	fmt.Fprintf(&b, "\nMensaje:\n%s\n", lead.Mensaje)
	if lead.UTM.Source != "" {
		fmt.Fprintf(&b, "\nFuente: %s", lead.UTM.Source)
		if lead.UTM.Campaign != "" {
			fmt.Fprintf(&b, " / %s", lead.UTM.Campaign)
		}
		fmt.Fprintln(&b)
	}
	fmt.Fprintf(&b, "\nID: %s\n", lead.ID)

	msg := EmailMessage{
		To:      s.to,
		Subject: fmt.Sprintf("Nuevo lead: %s", lead.Nombre),
		Body:    b.String(),
	}
	if err := s.email.Send(ctx, msg); err != nil {
		return fmt.Errorf("notify: lead %s: %w", lead.ID, err)
	}
	s.logger.Info("lead notification sent", "id", lead.ID, "to", s.to)
	return nil
}
