package sms

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned by gateways whose credentials are missing.
var ErrNotConfigured = errors.New("sms gateway not configured")

// Gateway sends text messages through an external SMS provider.
type Gateway interface {
	// Name identifies the provider in notification metadata.
	Name() string
	// Configured reports whether the provider credentials are present.
	Configured() bool
	// SendSMS delivers body to the phone number and returns the provider-assigned message id.
	SendSMS(ctx context.Context, to string, body string) (providerMessageID string, err error)
}
