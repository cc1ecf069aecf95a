// Package mailer abstracts outbound email. The auth flows only depend on the
// Mailer interface; the Resend-backed implementation is wired in at startup
// and a logging implementation covers local development.
package mailer

import "context"

// Message is a single outbound email.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Mailer dispatches a message and returns the provider's delivery id.
// An empty id with a nil error means the provider accepted the request but
// reported no delivery; callers decide whether that is fatal.
type Mailer interface {
	Send(ctx context.Context, m Message) (id string, err error)
}
