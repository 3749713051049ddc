package notification

import (
	"context"
	"fmt"

	db "github.com/katatrina/cmis-BE/internal/db/sqlc"
	"github.com/katatrina/cmis-BE/internal/sms"
)

type SMSSender struct {
	gateway sms.Gateway
}

func NewSMSSender(gateway sms.Gateway) *SMSSender {
	return &SMSSender{gateway: gateway}
}

func (s *SMSSender) configured() bool {
	return s.gateway != nil && s.gateway.Configured()
}

func (s *SMSSender) Available(recipient Recipient) bool {
	return recipient.PhoneNumber != "" && s.configured()
}

func (s *SMSSender) Send(ctx context.Context, notification db.Notification, recipient Recipient) (Result, error) {
	if recipient.PhoneNumber == "" {
		return Result{}, fmt.Errorf("%w: recipient has no phone number", ErrChannelUnavailable)
	}

	if !s.configured() {
		return Result{}, fmt.Errorf("%w: sms gateway not configured", ErrChannelUnavailable)
	}

	body := fmt.Sprintf("%s\n\n%s", notification.Title, notification.Message)
	messageID, err := s.gateway.SendSMS(ctx, recipient.PhoneNumber, body)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrTransportFailure, err)
	}

	return Result{
		Metadata: map[string]interface{}{
			"sms_message_id": messageID,
			"sms_gateway":    s.gateway.Name(),
		},
	}, nil
}
