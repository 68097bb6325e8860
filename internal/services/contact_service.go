package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/calebmartin/inkwell/pkg/logger"
)

// ContactService forwards contact form submissions to the site owner's
// mailbox.
type ContactService struct {
	mailer       Mailer
	ownerAddress string
	logger       *slog.Logger
}

func NewContactService(mailer Mailer, ownerAddress string, log *slog.Logger) *ContactService {
	return &ContactService{
		mailer:       mailer,
		ownerAddress: ownerAddress,
		logger:       log,
	}
}

// Submit relays a contact form message. The visitor's address goes in
// the body, not the envelope, so replies are a manual copy-paste and the
// relay account stays the only sender.
func (s *ContactService) Submit(ctx context.Context, name, email, phone, message string) error {
	body := fmt.Sprintf(
		"Name: %s\nEmail: %s\nPhone: %s\nMessage:\n%s\n",
		name, email, phone, message,
	)

	if err := s.mailer.Send(ctx, s.ownerAddress, "New contact form message", body); err != nil {
		return err
	}

	s.logger.Info("contact message forwarded",
		slog.String("from", logger.SanitizedEmail(email)))

	return nil
}
