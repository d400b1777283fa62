package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SPMS-2025/progress-service/internal/mailer"
	"github.com/SPMS-2025/progress-service/internal/validator"
)

type ContactRequest = validator.ContactRequest

type ContactService interface {
	// Submit relays a contact-form message to the operator inbox.
	Submit(ctx context.Context, req *ContactRequest) error
}

type contactService struct {
	mailer    mailer.Mailer
	validator *validator.Validator
	logger    *slog.Logger
	inbox     string
}

func NewContactService(m mailer.Mailer, v *validator.Validator, logger *slog.Logger, inbox string) ContactService {
	return &contactService{
		mailer:    m,
		validator: v,
		logger:    logger,
		inbox:     inbox,
	}
}

func (s *contactService) Submit(ctx context.Context, req *ContactRequest) error {
	if errs := s.validator.Validate(req); errs.HasErrors() {
		return fmt.Errorf("%w: %s", ErrValidationFailed, errs.Error())
	}

	subject := fmt.Sprintf("[SPMS Contact] %s", req.Subject)
	body := fmt.Sprintf(
		"<h2>New Contact Form Submission</h2>"+
			"<p><strong>From:</strong> %s (%s)</p>"+
			"<p><strong>Subject:</strong> %s</p>"+
			"<p><strong>Message:</strong><br/>%s</p>",
		req.Name, req.Email, req.Subject, req.Message)

	if err := s.mailer.Send(s.inbox, subject, body); err != nil {
		return fmt.Errorf("failed to relay contact message: %w", err)
	}

	s.logger.Info("contact message relayed", "from", req.Email)
	return nil
}
