package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Sh4dowyy/yellow-cow-sub000/internal/mail"

	"go.uber.org/zap"
)

var (
	ErrMissingContactField = errors.New("name, email, and message are required")
)

// ContactMessage is one contact-form submission
type ContactMessage struct {
	Name    string
	Email   string
	Message string
}

// ContactService relays contact-form submissions. Without a configured
// mailer, submissions are logged only.
type ContactService interface {
	Submit(ctx context.Context, msg ContactMessage) error
}

type contactService struct {
	mailer mail.Mailer
	logger *zap.Logger
}

// NewContactService creates a new instance of ContactService. mailer may
// be nil when SMTP credentials are not configured.
func NewContactService(mailer mail.Mailer, logger *zap.Logger) ContactService {
	return &contactService{
		mailer: mailer,
		logger: logger,
	}
}

// Submit validates, logs, and optionally relays one submission
func (s *contactService) Submit(ctx context.Context, msg ContactMessage) error {
	if strings.TrimSpace(msg.Name) == "" ||
		strings.TrimSpace(msg.Email) == "" ||
		strings.TrimSpace(msg.Message) == "" {
		return ErrMissingContactField
	}

	s.logger.Info("Contact form submission",
		zap.String("name", msg.Name),
		zap.String("email", msg.Email),
	)

	if s.mailer == nil {
		return nil
	}

	subject := fmt.Sprintf("Contact form: %s", msg.Name)
	body := fmt.Sprintf("Name: %s\nEmail: %s\n\n%s", msg.Name, msg.Email, msg.Message)

	if err := s.mailer.Send(subject, body); err != nil {
		return fmt.Errorf("failed to relay contact message: %w", err)
	}

	return nil
}
