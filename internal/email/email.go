package email

import (
	"fmt"
	"net/smtp"

	"univoice/internal/config"
)

// Service sends plain-text mail. It mirrors selected notifications to the
// recipient's inbox; delivery is best-effort and never blocks a workflow
// transition.
type Service struct {
	cfg *config.EmailConfig
}

// NewService creates a new email service
func NewService(cfg *config.EmailConfig) *Service {
	return &Service{cfg: cfg}
}

// Enabled reports whether SMTP delivery is configured.
func (s *Service) Enabled() bool {
	return s.cfg.Enabled && s.cfg.SMTPHost != ""
}

// SendPlain sends a plain-text message to a single recipient
func (s *Service) SendPlain(to, subject, body string) error {
	if !s.Enabled() {
		return fmt.Errorf("smtp is not configured")
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s\r\n",
		s.cfg.SMTPFrom, to, subject, body)

	addr := s.cfg.SMTPHost + ":" + s.cfg.SMTPPort

	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}

	if err := smtp.SendMail(addr, auth, s.cfg.SMTPFrom, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}
