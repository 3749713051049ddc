package sms

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"resty.dev/v3"
)

const (
	twilioMessagesPath = "/2010-04-01/Accounts/{accountSID}/Messages.json"
	twilioTimeout      = 10 * time.Second
)

type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
	BaseURL    string
}

type TwilioGateway struct {
	client *resty.Client
	config TwilioConfig
}

type twilioMessage struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
}

type twilioError struct {
	Code     int    `json:"code"`
	Message  string `json:"message"`
	MoreInfo string `json:"more_info"`
	Status   int    `json:"status"`
}

func NewTwilioGateway(config TwilioConfig) *TwilioGateway {
	client := resty.New().
		SetBaseURL(config.BaseURL).
		SetBasicAuth(config.AccountSID, config.AuthToken).
		SetTimeout(twilioTimeout)

	return &TwilioGateway{
		client: client,
		config: config,
	}
}

func (g *TwilioGateway) Name() string {
	return "twilio"
}

func (g *TwilioGateway) Configured() bool {
	return g.config.AccountSID != "" && g.config.AuthToken != "" && g.config.FromNumber != ""
}

func (g *TwilioGateway) SendSMS(ctx context.Context, to string, body string) (string, error) {
	if !g.Configured() {
		return "", ErrNotConfigured
	}

	var result twilioMessage
	var apiErr twilioError

	resp, err := g.client.R().
		SetContext(ctx).
		SetPathParam("accountSID", g.config.AccountSID).
		SetFormData(map[string]string{
			"To":   to,
			"From": g.config.FromNumber,
			"Body": body,
		}).
		SetResult(&result).
		SetError(&apiErr).
		Post(twilioMessagesPath)
	if err != nil {
		return "", fmt.Errorf("twilio request failed: %w", err)
	}

	if resp.IsError() {
		if apiErr.Message != "" {
			return "", fmt.Errorf("twilio error %d: %s", apiErr.Code, apiErr.Message)
		}
		return "", fmt.Errorf("twilio error: %s", resp.Status())
	}

	log.Info().Str("sid", result.SID).Str("status", result.Status).Msg("sms submitted to twilio")
	return result.SID, nil
}

func (g *TwilioGateway) Close() error {
	return g.client.Close()
}
