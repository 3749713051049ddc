package db

import (
	"context"
)

// NotificationTransitionFunc receives the locked, current state of a notification and returns
// the state to persist. Returning changed=false leaves the row untouched.
type NotificationTransitionFunc func(ctx context.Context, current Notification) (next Notification, changed bool, err error)

// TransitionNotificationTx applies fn to a notification under a row lock.
//
// Concurrent callers on the same notification are serialized by SELECT ... FOR UPDATE, so the
// second caller always observes the state written by the first one.
func (store *SQLStore) TransitionNotificationTx(ctx context.Context, notificationID int64, fn NotificationTransitionFunc) (Notification, error) {
	var result Notification

	err := store.ExecTx(ctx, func(qTx *Queries) error {
		current, err := qTx.GetNotificationByIDForUpdate(ctx, notificationID)
		if err != nil {
			return err
		}

		next, changed, err := fn(ctx, current)
		if err != nil {
			return err
		}

		if !changed {
			result = current
			return nil
		}

		result, err = qTx.UpdateNotificationDelivery(ctx, UpdateNotificationDeliveryParams{
			Status:        next.Status,
			SentAt:        next.SentAt,
			DeliveredAt:   next.DeliveredAt,
			FailedAt:      next.FailedAt,
			FailureReason: next.FailureReason,
			RetryCount:    next.RetryCount,
			NextRetryAt:   next.NextRetryAt,
			Metadata:      next.Metadata,
			ID:            current.ID,
		})
		return err
	})

	return result, err
}
