package mailer

import (
	"context"
)

// Email is a single outgoing message.
type Email struct {
	To        []string
	Subject   string
	PlainBody string
	HTMLBody  string
}

// Mailer delivers emails through an external mail transport.
type Mailer interface {
	// SendEmail sends the email and returns the Message-ID it was sent with.
	SendEmail(ctx context.Context, email Email) (messageID string, err error)
}
