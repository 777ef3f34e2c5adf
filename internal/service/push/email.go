package push

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v3"

	"github.com/akgolfgroup-netizen/player-development-api/internal/config"
	"github.com/akgolfgroup-netizen/player-development-api/internal/domain"
	"github.com/akgolfgroup-netizen/player-development-api/internal/repository"
)

// emailSender delivers the email channel via Resend, resolving the recipient
// address through the recipient repository.
type emailSender struct {
	client        *resend.Client
	cfg           *config.Config
	recipientRepo repository.RecipientRepository
}

func NewEmailSender(cfg *config.Config, recipientRepo repository.RecipientRepository) Sender {
	return &emailSender{
		client:        resend.NewClient(cfg.ResendAPIKey),
		cfg:           cfg,
		recipientRepo: recipientRepo,
	}
}

func (s *emailSender) Send(ctx context.Context, notif *domain.Notification) error {
	toEmail, err := s.recipientRepo.Email(ctx, notif.Recipient())
	if err != nil {
		return fmt.Errorf("failed to resolve recipient email: %w", err)
	}
	if toEmail == "" {
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("AK Golf Academy <%s>", s.cfg.FromEmail),
		To:      []string{toEmail},
		Subject: notif.Title,
		Html:    fmt.Sprintf("<p>%s</p>", notif.Message),
	}

	_, err = s.client.Emails.Send(params)
	return err
}
