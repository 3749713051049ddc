package db

import (
	"encoding/json"
)

func (ns NullNotificationStatus) MarshalJSON() ([]byte, error) {
	if !ns.Valid {
		return []byte("null"), nil
	}

	return json.Marshal(string(ns.NotificationStatus))
}

// IsTerminal reports whether no further automatic transition can happen to the notification.
func (n Notification) IsTerminal() bool {
	switch n.Status {
	case NotificationStatusDelivered, NotificationStatusRead:
		return true
	case NotificationStatusFailed:
		return n.RetryCount >= n.MaxRetries || !n.NextRetryAt.Valid
	}
	return false
}

// CanRetry reports whether a failed notification still has retry budget left.
func (n Notification) CanRetry() bool {
	return n.Status == NotificationStatusFailed && n.RetryCount < n.MaxRetries && n.NextRetryAt.Valid
}
