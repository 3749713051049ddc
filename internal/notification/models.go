package notification

import (
	db "github.com/katatrina/cmis-BE/internal/db/sqlc"
)

const (
	DefaultMaxRetries     int32 = 3
	DefaultSweepBatchSize int32 = 100
	// MaxRetriesLimit is the largest max_retries a notification may carry.
	MaxRetriesLimit int32 = 10
	defaultCategory             = "system"
)

// CreateParams describes a notification raised by a business event.
type CreateParams struct {
	UserID        string
	Title         string
	Message       string
	Channel       db.NotificationChannel
	Category      string
	Priority      db.NotificationPriority
	ReferenceType string
	ReferenceID   *int64
	// MaxRetries overrides the service default when set.
	MaxRetries *int32
}

// ListParams filters a user's notifications. Page starts at 1.
type ListParams struct {
	UserID     string
	Status     *db.NotificationStatus
	Category   string
	UnreadOnly bool
	Page       int32
	PageSize   int32
}

// SweepResult summarizes one retry sweep.
type SweepResult struct {
	Retried   int `json:"retried"`
	Succeeded int `json:"succeeded"`
	Errored   int `json:"errored"`
}

// Preferences describes which channels can currently reach a user.
type Preferences struct {
	EmailEnabled    bool            `json:"email_enabled"`
	SMSEnabled      bool            `json:"sms_enabled"`
	Categories      map[string]bool `json:"categories"`
	DeliveryMethods map[string]bool `json:"delivery_methods"`
}

var knownCategories = []string{"appointment", "incident", "service", "reminder", "alert"}

type deliveryOutcome struct {
	attempted bool
	delivered bool
	sendErr   error
}
