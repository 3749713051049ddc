package sms

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// DiscordGateway posts text messages to a Discord channel instead of a phone network.
// It stands in for a real SMS provider on staging, where ops read the channel.
type DiscordGateway struct {
	session   *discordgo.Session
	channelID string
}

func NewDiscordGateway(botToken, channelID string) (*DiscordGateway, error) {
	if botToken == "" {
		return &DiscordGateway{channelID: channelID}, nil
	}

	session, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	return &DiscordGateway{
		session:   session,
		channelID: channelID,
	}, nil
}

func (g *DiscordGateway) Name() string {
	return "discord"
}

func (g *DiscordGateway) Configured() bool {
	return g.session != nil && g.channelID != ""
}

func (g *DiscordGateway) SendSMS(ctx context.Context, to string, body string) (string, error) {
	if !g.Configured() {
		return "", ErrNotConfigured
	}

	content := fmt.Sprintf("SMS to %s\n%s", to, body)
	msg, err := g.session.ChannelMessageSend(g.channelID, content, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to post message to Discord: %w", err)
	}

	return msg.ID, nil
}
