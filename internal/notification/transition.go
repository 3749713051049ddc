package notification

import (
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	db "github.com/katatrina/cmis-BE/internal/db/sqlc"
)

// BaseRetryDelay is the unit of the exponential backoff between delivery attempts.
const BaseRetryDelay = 5 * time.Minute

// RetryBackoff returns the delay before the next attempt after the retryCount-th failure:
// 10m, 20m, 40m for failures 1, 2, 3. The delay stops growing at MaxRetriesLimit.
func RetryBackoff(retryCount int32) time.Duration {
	switch {
	case retryCount < 0:
		retryCount = 0
	case retryCount > MaxRetriesLimit:
		retryCount = MaxRetriesLimit
	}
	return BaseRetryDelay * time.Duration(int64(1)<<uint(retryCount))
}

// readyForDelivery reports whether an attempt may be made on n at now.
// Pending notifications are always ready; failed ones only once their retry time has come.
func readyForDelivery(n db.Notification, now time.Time) bool {
	switch n.Status {
	case db.NotificationStatusPending:
		return true
	case db.NotificationStatusFailed:
		return n.RetryCount < n.MaxRetries && n.NextRetryAt.Valid && !n.NextRetryAt.Time.After(now)
	}
	return false
}

func markDelivered(n db.Notification, result Result, now time.Time) db.Notification {
	next := n
	next.Status = db.NotificationStatusDelivered
	if !next.SentAt.Valid {
		next.SentAt = timestamptz(now)
	}
	if !next.DeliveredAt.Valid {
		next.DeliveredAt = timestamptz(now)
	}
	next.FailureReason = pgtype.Text{}
	next.NextRetryAt = pgtype.Timestamptz{}
	next.Metadata = mergeMetadata(n.Metadata, result.Metadata)
	return next
}

func markFailed(n db.Notification, cause error, now time.Time) db.Notification {
	next := n
	next.Status = db.NotificationStatusFailed
	next.FailedAt = timestamptz(now)
	next.FailureReason = pgtype.Text{String: cause.Error(), Valid: true}
	if next.RetryCount < next.MaxRetries {
		next.RetryCount++
	}

	next.NextRetryAt = pgtype.Timestamptz{}
	if !errors.Is(cause, ErrUnsupportedChannel) && next.RetryCount < next.MaxRetries {
		next.NextRetryAt = timestamptz(now.Add(RetryBackoff(next.RetryCount)))
	}

	next.Metadata = mergeMetadata(n.Metadata, nil)
	return next
}

func mergeMetadata(current, extra map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{}, len(current)+len(extra))
	for k, v := range current {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}

func timestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}
