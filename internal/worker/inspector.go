package worker

import (
	"github.com/hibiken/asynq"
)

// QueueStats is a snapshot of one task queue.
type QueueStats struct {
	Queue     string `json:"queue"`
	Size      int    `json:"size"`
	Pending   int    `json:"pending"`
	Active    int    `json:"active"`
	Scheduled int    `json:"scheduled"`
	Retry     int    `json:"retry"`
	Archived  int    `json:"archived"`
	Processed int    `json:"processed_today"`
	Failed    int    `json:"failed_today"`
	Paused    bool   `json:"paused"`
}

type TaskInspector interface {
	QueueStats() ([]QueueStats, error)
}

type RedisTaskInspector struct {
	inspector *asynq.Inspector
}

func NewTaskInspector(redisOpt asynq.RedisClientOpt) TaskInspector {
	return &RedisTaskInspector{
		inspector: asynq.NewInspector(redisOpt),
	}
}

// QueueStats reports the delivery queues. Queues that were never written to are skipped.
func (i *RedisTaskInspector) QueueStats() ([]QueueStats, error) {
	queues, err := i.inspector.Queues()
	if err != nil {
		return nil, err
	}

	stats := make([]QueueStats, 0, len(queues))
	for _, queue := range queues {
		info, err := i.inspector.GetQueueInfo(queue)
		if err != nil {
			return nil, err
		}
		stats = append(stats, QueueStats{
			Queue:     info.Queue,
			Size:      info.Size,
			Pending:   info.Pending,
			Active:    info.Active,
			Scheduled: info.Scheduled,
			Retry:     info.Retry,
			Archived:  info.Archived,
			Processed: info.Processed,
			Failed:    info.Failed,
			Paused:    info.Paused,
		})
	}
	return stats, nil
}
