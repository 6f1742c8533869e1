package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type SendgridMailer struct {
	client *sendgrid.Client
}

func NewSendgridMailer(apiKey string) *SendgridMailer {
	return &SendgridMailer{client: sendgrid.NewSendClient(apiKey)}
}

func (s *SendgridMailer) Send(ctx context.Context, email Email) error {
	resp, err := s.client.SendWithContext(ctx, sendgridMessage(email))
	if err != nil {
		return fmt.Errorf("sendgrid send to %s: %w", email.To, err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid send to %s: status %d: %s", email.To, resp.StatusCode, resp.Body)
	}
	return nil
}

func sendgridMessage(email Email) *mail.SGMailV3 {
	return mail.NewSingleEmail(
		mail.NewEmail(email.FromName, email.FromEmail),
		email.Subject,
		mail.NewEmail("", email.To),
		email.Text,
		email.HTML,
	)
}
