package mailer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gopkg.in/mail.v2"

	"ireporter/internal/config"
)

type Mailer interface {
	SendPasswordReset(ctx context.Context, to, token string, expiresAt time.Time) error
}

type sender interface {
	DialAndSend(m ...*mail.Message) error
}

type SMTPMailer struct {
	cfg    config.SMTP
	dialer sender
	log    *zap.Logger
}

// NewSMTPMailer returns a mailer that logs instead of sending when SMTP is
// disabled or has no host.
func NewSMTPMailer(cfg config.SMTP, log *zap.Logger) *SMTPMailer {
	m := &SMTPMailer{cfg: cfg, log: log}
	if cfg.Enabled && cfg.Host != "" {
		m.dialer = mail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	}
	return m
}

func (m *SMTPMailer) IsEnabled() bool {
	return m.dialer != nil
}

func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, token string, expiresAt time.Time) error {
	if !m.IsEnabled() {
		m.log.Info("email disabled, skipping password reset mail",
			zap.String("to", to),
			zap.Time("expires_at", expiresAt))
		return nil
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", fmt.Sprintf("%s <%s>", m.cfg.FromName, m.cfg.FromAddress))
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Reset your iReporter password")
	msg.SetBody("text/plain", fmt.Sprintf(
		"Use this token to reset your password:\n\n%s\n\nIt expires at %s.\n"+
			"If you did not ask for a reset, ignore this message.\n",
		token, expiresAt.UTC().Format(time.RFC1123)))

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.log.Error("failed to send password reset mail", zap.String("to", to), zap.Error(err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	m.log.Info("password reset mail sent", zap.String("to", to))
	return nil
}
