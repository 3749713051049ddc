package notification

import (
	"context"

	db "github.com/katatrina/cmis-BE/internal/db/sqlc"
)

// Recipient is the contact information of a notification owner.
type Recipient struct {
	UserID      string
	FullName    string
	Email       string
	PhoneNumber string
}

func recipientFromUser(user db.User) Recipient {
	return Recipient{
		UserID:      user.ID,
		FullName:    user.FullName,
		Email:       user.Email,
		PhoneNumber: user.PhoneNumber.String,
	}
}

// Result carries channel-specific delivery artifacts, e.g. the provider message id.
type Result struct {
	Metadata map[string]interface{}
}

// Sender attempts delivery of a notification over one channel.
// A Sender never retries; a returned error wraps ErrChannelUnavailable or ErrTransportFailure.
type Sender interface {
	Send(ctx context.Context, notification db.Notification, recipient Recipient) (Result, error)
}

// availabilityChecker is implemented by senders that can tell upfront whether delivery to a
// recipient is possible at all.
type availabilityChecker interface {
	Available(recipient Recipient) bool
}
