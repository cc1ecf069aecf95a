package mailer

import (
	"context"
	"log/slog"

	"github.com/aussiebroadwan/doorman/pkg/idx"
)

// LogMailer writes messages to the log instead of sending them. Used in
// development when no Resend API key is configured.
type LogMailer struct {
	Logger *slog.Logger
}

func (m *LogMailer) Send(ctx context.Context, msg Message) (string, error) {
	id := idx.New().String()
	m.Logger.Info("email (not sent, log mailer)",
		"id", id,
		"to", msg.To,
		"subject", msg.Subject,
		"text", msg.Text,
	)
	return id, nil
}
