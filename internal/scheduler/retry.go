package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
	"github.com/katatrina/cmis-BE/internal/notification"
	"github.com/rs/zerolog/log"
)

const retrySweepJobName = "notification-retry-sweep"

// Sweeper re-attempts delivery of the notifications that are due for retry.
type Sweeper interface {
	RunRetrySweep(ctx context.Context, now time.Time) (notification.SweepResult, error)
}

// RetryScheduler runs the retry sweep periodically.
type RetryScheduler struct {
	sweeper   Sweeper
	clock     clockwork.Clock
	interval  time.Duration
	scheduler gocron.Scheduler
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewRetryScheduler creates a scheduler sweeping every interval. A nil locker runs the sweep on
// every instance.
func NewRetryScheduler(sweeper Sweeper, clock clockwork.Clock, interval time.Duration, locker gocron.Locker) (*RetryScheduler, error) {
	options := []gocron.SchedulerOption{gocron.WithClock(clock)}
	if locker != nil {
		options = append(options, gocron.WithDistributedLocker(locker))
	}

	scheduler, err := gocron.NewScheduler(options...)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &RetryScheduler{
		sweeper:   sweeper,
		clock:     clock,
		interval:  interval,
		scheduler: scheduler,
		ctx:       ctx,
		cancel:    cancel,
	}, nil
}

// Start registers the sweep job and starts the scheduler.
func (s *RetryScheduler) Start() error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(func() {
			s.sweep(s.ctx)
		}),
		gocron.WithName(retrySweepJobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}

	s.scheduler.Start()
	log.Info().Dur("interval", s.interval).Msg("retry scheduler started")
	return nil
}

// Stop waits for a running sweep to finish and shuts the scheduler down.
func (s *RetryScheduler) Stop() error {
	defer s.cancel()
	return s.scheduler.Shutdown()
}

func (s *RetryScheduler) sweep(ctx context.Context) {
	now := s.clock.Now()

	log.Info().Str("job", retrySweepJobName).Time("now", now).Msg("starting retry sweep")

	result, err := s.sweeper.RunRetrySweep(ctx, now)
	if err != nil {
		log.Error().Err(err).Str("job", retrySweepJobName).Msg("retry sweep failed")
		return
	}

	if result.Errored > 0 {
		log.Warn().Str("job", retrySweepJobName).Int("errored", result.Errored).
			Msg("some notifications could not be retried")
	}
}
