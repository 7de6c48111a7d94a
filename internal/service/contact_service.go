package service

import (
	"context"
	"fmt"

	"rekraft-backend/internal/domain"
	"rekraft-backend/internal/mailer"

	"go.uber.org/zap"
)

type ContactService interface {
	Send(ctx context.Context, form mailer.ContactForm) error
}

type contactService struct {
	mail   Mailer
	logger *zap.Logger
}

func NewContactService(mail Mailer, logger *zap.Logger) ContactService {
	return &contactService{mail: mail, logger: logger}
}

// Send notifies the store and acknowledges the visitor. Only the admin
// notification decides the outcome.
func (s *contactService) Send(ctx context.Context, form mailer.ContactForm) error {
	if err := s.mail.Send(ctx, mailer.ContactNotification(s.mail.AdminAddress(), form)); err != nil {
		return fmt.Errorf("failed to send message: %w", domain.ErrUpstream)
	}

	if err := s.mail.Send(ctx, mailer.ContactAutoReply(form)); err != nil {
		s.logger.Warn("Contact auto-reply failed", zap.Error(err))
	}

	s.logger.Info("Contact message relayed", zap.String("subject", form.Subject))
	return nil
}
