package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/katatrina/cmis-BE/internal/notification"
	"github.com/rs/zerolog/log"
)

// PayloadDeliverNotification contain all data of the task that we want to store in Redis.
type PayloadDeliverNotification struct {
	NotificationID int64 `json:"notification_id"`
}

func (distributor *RedisTaskDistributor) DistributeTaskDeliverNotification(
	ctx context.Context,
	payload *PayloadDeliverNotification,
	opts ...asynq.Option,
) error {
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal task payload: %w", err)
	}

	task := asynq.NewTask(TaskDeliverNotification, jsonPayload, opts...)
	info, err := distributor.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	log.Info().Str("type", task.Type()).Bytes("payload", task.Payload()).Str("queue", info.Queue).Int("max_retry", info.MaxRetry).Msg("task enqueued")

	return nil
}

// ProcessTaskDeliverNotification makes the first delivery attempt of a notification.
// Delivery failures are recorded on the notification by the service and are not returned, so
// asynq only retries the task on infrastructure errors.
func (processor *RedisTaskProcessor) ProcessTaskDeliverNotification(
	ctx context.Context,
	task *asynq.Task,
) error {
	var payload PayloadDeliverNotification
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", asynq.SkipRetry)
	}

	n, err := processor.deliverer.AttemptDelivery(ctx, payload.NotificationID)
	if err != nil {
		if errors.Is(err, notification.ErrNotificationNotFound) {
			return fmt.Errorf("notification %d not found: %w", payload.NotificationID, asynq.SkipRetry)
		}
		return err
	}

	log.Info().Str("type", task.Type()).Int64("notification_id", n.ID).
		Str("status", string(n.Status)).Msg("task processed")

	return nil
}
