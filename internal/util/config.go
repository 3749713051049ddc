package util

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// maxNotificationRetries is the upper bound of NOTIFICATION_MAX_RETRIES.
const maxNotificationRetries = 10

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	AllowedOrigins      []string      `mapstructure:"ALLOWED_ORIGINS"`
	DatabaseURL         string        `mapstructure:"DATABASE_URL"`
	HTTPServerAddress   string        `mapstructure:"HTTP_SERVER_ADDRESS"`
	TokenSecretKey      string        `mapstructure:"TOKEN_SECRET_KEY"`
	AccessTokenDuration time.Duration `mapstructure:"ACCESS_TOKEN_DURATION"`
	RedisServerAddress  string        `mapstructure:"REDIS_SERVER_ADDRESS"`

	SMTPHost          string `mapstructure:"SMTP_HOST"`
	SMTPPort          int    `mapstructure:"SMTP_PORT"`
	SMTPUsername      string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword      string `mapstructure:"SMTP_PASSWORD"`
	MailSenderName    string `mapstructure:"MAIL_SENDER_NAME"`
	MailSenderAddress string `mapstructure:"MAIL_SENDER_ADDRESS"`

	// SMSGateway selects the SMS provider: "twilio" or "discord".
	SMSGateway       string `mapstructure:"SMS_GATEWAY"`
	TwilioAccountSID string `mapstructure:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken  string `mapstructure:"TWILIO_AUTH_TOKEN"`
	TwilioFromNumber string `mapstructure:"TWILIO_FROM_NUMBER"`
	TwilioBaseURL    string `mapstructure:"TWILIO_BASE_URL"`
	DiscordBotToken  string `mapstructure:"DISCORD_BOT_TOKEN"`
	DiscordChannelID string `mapstructure:"DISCORD_CHANNEL_ID"`

	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`

	NotificationMaxRetries int32         `mapstructure:"NOTIFICATION_MAX_RETRIES"`
	RetrySweepInterval     time.Duration `mapstructure:"RETRY_SWEEP_INTERVAL"`
	RetrySweepBatchSize    int32         `mapstructure:"RETRY_SWEEP_BATCH_SIZE"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	// Set defaults for non-sensitive config
	viper.SetDefault("ALLOWED_ORIGINS", []string{"http://localhost:3000"})
	viper.SetDefault("HTTP_SERVER_ADDRESS", "0.0.0.0:8080")
	viper.SetDefault("ACCESS_TOKEN_DURATION", "24h")
	viper.SetDefault("SMTP_HOST", "smtp.gmail.com")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_USERNAME", "")
	viper.SetDefault("SMTP_PASSWORD", "")
	viper.SetDefault("MAIL_SENDER_NAME", "CMIS")
	viper.SetDefault("MAIL_SENDER_ADDRESS", "")
	viper.SetDefault("SMS_GATEWAY", "twilio")
	viper.SetDefault("TWILIO_ACCOUNT_SID", "")
	viper.SetDefault("TWILIO_AUTH_TOKEN", "")
	viper.SetDefault("TWILIO_FROM_NUMBER", "")
	viper.SetDefault("TWILIO_BASE_URL", "https://api.twilio.com")
	viper.SetDefault("DISCORD_BOT_TOKEN", "")
	viper.SetDefault("DISCORD_CHANNEL_ID", "")
	viper.SetDefault("FIREBASE_CREDENTIALS_FILE", "")
	viper.SetDefault("NOTIFICATION_MAX_RETRIES", 3)
	viper.SetDefault("RETRY_SWEEP_INTERVAL", "1m")
	viper.SetDefault("RETRY_SWEEP_BATCH_SIZE", 100)

	// Prefer environment variables over config file
	viper.AutomaticEnv()

	// Load config file
	viper.SetConfigFile(path)
	if err = viper.ReadInConfig(); err != nil {
		return
	}

	// Unmarshal config into struct
	err = viper.UnmarshalExact(&config)
	if err != nil {
		return
	}

	// Validate required configuration
	err = validateConfig(config)
	return
}

func validateConfig(config Config) error {
	if config.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if config.TokenSecretKey == "" {
		return fmt.Errorf("TOKEN_SECRET_KEY is required")
	}
	if config.RedisServerAddress == "" {
		return fmt.Errorf("REDIS_SERVER_ADDRESS is required")
	}
	if config.SMSGateway != "twilio" && config.SMSGateway != "discord" {
		return fmt.Errorf("SMS_GATEWAY must be one of twilio, discord")
	}
	if config.NotificationMaxRetries < 0 || config.NotificationMaxRetries > maxNotificationRetries {
		return fmt.Errorf("NOTIFICATION_MAX_RETRIES must be between 0 and %d", maxNotificationRetries)
	}
	if config.RetrySweepInterval <= 0 {
		return fmt.Errorf("RETRY_SWEEP_INTERVAL must be positive")
	}
	if config.RetrySweepBatchSize <= 0 {
		return fmt.Errorf("RETRY_SWEEP_BATCH_SIZE must be positive")
	}

	return nil
}

// SMTPConfigured reports whether outgoing mail credentials are present.
func (config Config) SMTPConfigured() bool {
	return config.SMTPHost != "" && config.SMTPUsername != "" && config.SMTPPassword != ""
}
