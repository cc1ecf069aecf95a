package mailer

import (
	"context"

	"github.com/resend/resend-go/v2"
)

// ResendMailer sends email through the Resend API.
type ResendMailer struct {
	client *resend.Client

	// From is the sender line, e.g. `no-reply <auth@example.com>`.
	From string
}

func NewResendMailer(apiKey, from string) *ResendMailer {
	return &ResendMailer{
		client: resend.NewClient(apiKey),
		From:   from,
	}
}

func (m *ResendMailer) Send(ctx context.Context, msg Message) (string, error) {
	sent, err := m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Text:    msg.Text,
		Html:    msg.HTML,
	})
	if err != nil {
		return "", err
	}
	return sent.Id, nil
}
