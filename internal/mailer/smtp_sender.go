package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/katatrina/cmis-BE/internal/util"
	"github.com/rs/zerolog/log"
	"github.com/wneessen/go-mail"
)

var ErrMissingRecipient = errors.New("email has no recipient")

type SMTPSender struct {
	client        *mail.Client
	senderName    string
	senderAddress string
}

// NewSMTPSender creates a mailer backed by an authenticated SMTP server.
// The connection is established lazily on every send.
func NewSMTPSender(config util.Config) (*SMTPSender, error) {
	client, err := mail.NewClient(config.SMTPHost,
		mail.WithPort(config.SMTPPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
		mail.WithUsername(config.SMTPUsername),
		mail.WithPassword(config.SMTPPassword),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}

	senderAddress := config.MailSenderAddress
	if senderAddress == "" {
		senderAddress = config.SMTPUsername
	}

	return &SMTPSender{
		client:        client,
		senderName:    config.MailSenderName,
		senderAddress: senderAddress,
	}, nil
}

func (sender *SMTPSender) SendEmail(ctx context.Context, email Email) (string, error) {
	messageID := util.GenerateMessageID(senderDomain(sender.senderAddress))

	msg, err := newMessage(sender.senderName, sender.senderAddress, messageID, email)
	if err != nil {
		return "", err
	}

	if err = sender.client.DialAndSendWithContext(ctx, msg); err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}

	log.Info().Str("message_id", messageID).Strs("to", email.To).Msg("email sent")
	return messageID, nil
}

func newMessage(senderName, senderAddress, messageID string, email Email) (*mail.Msg, error) {
	if len(email.To) == 0 {
		return nil, ErrMissingRecipient
	}

	msg := mail.NewMsg()

	if err := msg.FromFormat(senderName, senderAddress); err != nil {
		return nil, fmt.Errorf("failed to set From address: %w", err)
	}

	if err := msg.To(email.To...); err != nil {
		return nil, fmt.Errorf("failed to set To address: %w", err)
	}

	msg.Subject(email.Subject)
	msg.SetMessageIDWithValue(messageID)
	msg.SetBodyString(mail.TypeTextPlain, email.PlainBody)
	if email.HTMLBody != "" {
		msg.AddAlternativeString(mail.TypeTextHTML, email.HTMLBody)
	}

	return msg, nil
}

func senderDomain(address string) string {
	if i := strings.LastIndex(address, "@"); i >= 0 && i < len(address)-1 {
		return address[i+1:]
	}
	return "cmis.local"
}
