package notification

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	db "github.com/katatrina/cmis-BE/internal/db/sqlc"
	"github.com/katatrina/cmis-BE/internal/mailer"
)

var emailTemplate = template.Must(template.New("notification").Parse(`<html>
    <body>
        <h2>{{.Title}}</h2>
        <p>{{.Message}}</p>
        <hr>
        <p style="color: #666; font-size: 12px;">
            This is an automated message from CMIS - Car Management Information System.
        </p>
    </body>
</html>`))

// EmailSender delivers the "email" channel. A nil mailer means SMTP is not configured.
type EmailSender struct {
	mailer mailer.Mailer
}

func NewEmailSender(m mailer.Mailer) *EmailSender {
	return &EmailSender{mailer: m}
}

func (s *EmailSender) Available(recipient Recipient) bool {
	return s.mailer != nil && recipient.Email != ""
}

func (s *EmailSender) Send(ctx context.Context, notification db.Notification, recipient Recipient) (Result, error) {
	if recipient.Email == "" {
		return Result{}, fmt.Errorf("%w: recipient has no email address", ErrChannelUnavailable)
	}
	if s.mailer == nil {
		return Result{}, fmt.Errorf("%w: email transport not configured", ErrChannelUnavailable)
	}

	var html bytes.Buffer
	if err := emailTemplate.Execute(&html, notification); err != nil {
		return Result{}, fmt.Errorf("failed to render email body: %w", err)
	}

	messageID, err := s.mailer.SendEmail(ctx, mailer.Email{
		To:        []string{recipient.Email},
		Subject:   notification.Title,
		PlainBody: notification.Message,
		HTMLBody:  html.String(),
	})
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrTransportFailure, err)
	}

	return Result{
		Metadata: map[string]interface{}{
			"email_message_id": messageID,
		},
	}, nil
}
