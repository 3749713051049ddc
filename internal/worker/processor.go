package worker

import (
	"context"

	"github.com/hibiken/asynq"
	db "github.com/katatrina/cmis-BE/internal/db/sqlc"
	"github.com/rs/zerolog/log"
)

/*
 This file contains code that will pick up the tasks from the Redis queue and process them.
*/

const (
	QueueCritical = "critical"
	QueueDefault  = "default"
)

// Deliverer attempts delivery of a stored notification.
type Deliverer interface {
	AttemptDelivery(ctx context.Context, id int64) (db.Notification, error)
}

type RedisTaskProcessor struct {
	server    *asynq.Server
	deliverer Deliverer
}

func NewRedisTaskProcessor(redisOpt asynq.RedisClientOpt, deliverer Deliverer) *RedisTaskProcessor {
	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Queues: map[string]int{
				QueueCritical: 10,
				QueueDefault:  5,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Error().Err(err).Str("type", task.Type()).
					Bytes("payload", task.Payload()).Msg("process task failed")
			}),
			Logger: NewLogger(),
		},
	)

	return &RedisTaskProcessor{
		server:    server,
		deliverer: deliverer,
	}
}

// Start registers the task handlers for the mux, attaches the mux to the asynq server, and starts the server.
func (processor *RedisTaskProcessor) Start() error {
	mux := asynq.NewServeMux()

	mux.HandleFunc(TaskDeliverNotification, processor.ProcessTaskDeliverNotification)

	return processor.server.Start(mux)
}

// Shutdown waits for active tasks to finish and stops the server.
func (processor *RedisTaskProcessor) Shutdown() {
	processor.server.Shutdown()
}

// QueueFor picks the queue of a notification by its priority.
func QueueFor(priority db.NotificationPriority) string {
	switch priority {
	case db.NotificationPriorityHigh, db.NotificationPriorityUrgent:
		return QueueCritical
	default:
		return QueueDefault
	}
}
