// Package mailer delivers transactional email over SMTP.
package mailer

import (
	"context"
	"errors"
	"fmt"

	"rekraft-backend/internal/config"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

var ErrNotConfigured = errors.New("mail delivery is not configured")

// Message is a single outgoing email.
type Message struct {
	To      []string
	ReplyTo string
	Subject string
	Text    string
	HTML    string
}

// SMTPMailer sends messages through an authenticated SMTP relay.
type SMTPMailer struct {
	cfg    config.MailConfig
	logger *zap.Logger
}

func NewSMTPMailer(cfg config.MailConfig, logger *zap.Logger) *SMTPMailer {
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	return &SMTPMailer{cfg: cfg, logger: logger}
}

// Configured reports whether SMTP credentials are present.
func (m *SMTPMailer) Configured() bool {
	return m.cfg.Host != "" && m.cfg.Username != "" && m.cfg.Password != ""
}

// AdminAddress is where contact form notifications go.
func (m *SMTPMailer) AdminAddress() string {
	if m.cfg.AdminEmail != "" {
		return m.cfg.AdminEmail
	}
	return m.cfg.Username
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if !m.Configured() {
		return ErrNotConfigured
	}

	out, err := m.build(msg)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(m.cfg.Host,
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.Password),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, out); err != nil {
		m.logger.Error("Failed to send email",
			zap.Strings("to", msg.To),
			zap.String("subject", msg.Subject),
			zap.Error(err),
		)
		return fmt.Errorf("failed to send email: %w", err)
	}

	m.logger.Info("Email sent", zap.Strings("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}

func (m *SMTPMailer) build(msg Message) (*mail.Msg, error) {
	out := mail.NewMsg()
	if err := out.FromFormat("Rekraft", m.cfg.From); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := out.To(msg.To...); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	if msg.ReplyTo != "" {
		if err := out.ReplyTo(msg.ReplyTo); err != nil {
			return nil, fmt.Errorf("invalid reply-to address: %w", err)
		}
	}
	out.Subject(msg.Subject)
	out.SetBodyString(mail.TypeTextPlain, msg.Text)
	if msg.HTML != "" {
		out.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	}
	return out, nil
}
