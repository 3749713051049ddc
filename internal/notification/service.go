package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jonboulle/clockwork"
	db "github.com/katatrina/cmis-BE/internal/db/sqlc"
	"github.com/katatrina/cmis-BE/internal/event"
	"github.com/katatrina/cmis-BE/internal/util"
	"github.com/rs/zerolog/log"
)

// Store is the persistence the notification service depends on. db.Store satisfies it.
type Store interface {
	CreateNotification(ctx context.Context, arg db.CreateNotificationParams) (db.Notification, error)
	GetNotificationByID(ctx context.Context, id int64) (db.Notification, error)
	GetUserByID(ctx context.Context, id string) (db.User, error)
	MarkNotificationRead(ctx context.Context, arg db.MarkNotificationReadParams) (db.Notification, error)
	MarkAllUserNotificationsRead(ctx context.Context, arg db.MarkAllUserNotificationsReadParams) (int64, error)
	ListUserNotifications(ctx context.Context, arg db.ListUserNotificationsParams) ([]db.Notification, error)
	CountUserNotifications(ctx context.Context, arg db.CountUserNotificationsParams) (int64, error)
	ListNotificationsEligibleForRetry(ctx context.Context, arg db.ListNotificationsEligibleForRetryParams) ([]db.Notification, error)
	TransitionNotificationTx(ctx context.Context, notificationID int64, fn db.NotificationTransitionFunc) (db.Notification, error)
}

// EventPublisher receives notification lifecycle events.
type EventPublisher interface {
	Broadcast(e event.Event)
}

// Service is the single entry point for creating notifications and attempting their delivery.
// It owns every state transition of a notification.
type Service struct {
	store          Store
	clock          clockwork.Clock
	senders        map[db.NotificationChannel]Sender
	events         EventPublisher
	maxRetries     int32
	sweepBatchSize int32
}

type ServiceOption func(*Service)

// WithSender registers the sender used for a channel.
func WithSender(channel db.NotificationChannel, sender Sender) ServiceOption {
	return func(s *Service) {
		s.senders[channel] = sender
	}
}

func WithEventPublisher(publisher EventPublisher) ServiceOption {
	return func(s *Service) {
		s.events = publisher
	}
}

func WithDefaultMaxRetries(maxRetries int32) ServiceOption {
	return func(s *Service) {
		s.maxRetries = maxRetries
	}
}

func WithSweepBatchSize(size int32) ServiceOption {
	return func(s *Service) {
		s.sweepBatchSize = size
	}
}

func NewService(store Store, clock clockwork.Clock, opts ...ServiceOption) *Service {
	s := &Service{
		store:          store,
		clock:          clock,
		senders:        make(map[db.NotificationChannel]Sender),
		maxRetries:     DefaultMaxRetries,
		sweepBatchSize: DefaultSweepBatchSize,
	}

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the service clock's current time.
func (s *Service) Now() time.Time {
	return s.clock.Now()
}

// Create stores a new pending notification.
func (s *Service) Create(ctx context.Context, arg CreateParams) (db.Notification, error) {
	if arg.Title == "" || arg.Message == "" {
		return db.Notification{}, ErrMissingContent
	}

	if !arg.Channel.Valid() {
		return db.Notification{}, fmt.Errorf("%w: %q", ErrInvalidChannel, arg.Channel)
	}

	priority := arg.Priority
	if priority == "" {
		priority = db.NotificationPriorityNormal
	}
	if !priority.Valid() {
		return db.Notification{}, fmt.Errorf("%w: %q", ErrInvalidPriority, arg.Priority)
	}

	maxRetries := s.maxRetries
	if arg.MaxRetries != nil {
		maxRetries = *arg.MaxRetries
	}
	if maxRetries < 0 || maxRetries > MaxRetriesLimit {
		return db.Notification{}, fmt.Errorf("%w: got %d", ErrInvalidMaxRetries, maxRetries)
	}

	params := db.CreateNotificationParams{
		UserID:     arg.UserID,
		Title:      arg.Title,
		Message:    arg.Message,
		Channel:    arg.Channel,
		Category:   util.NormalizeCategory(arg.Category, defaultCategory),
		Priority:   priority,
		MaxRetries: maxRetries,
	}
	if arg.ReferenceType != "" {
		params.ReferenceType = pgtype.Text{String: arg.ReferenceType, Valid: true}
	}
	if arg.ReferenceID != nil {
		params.ReferenceID = pgtype.Int8{Int64: *arg.ReferenceID, Valid: true}
	}

	notification, err := s.store.CreateNotification(ctx, params)
	if err != nil {
		if errCode, _ := db.ErrorDescription(err); errCode == db.ForeignKeyViolationCode {
			return db.Notification{}, fmt.Errorf("%w: %s", ErrRecipientNotFound, arg.UserID)
		}
		return db.Notification{}, fmt.Errorf("failed to create notification: %w", err)
	}

	log.Info().Int64("notification_id", notification.ID).Str("user_id", notification.UserID).
		Str("channel", string(notification.Channel)).Msg("notification created")

	return notification, nil
}

// Get returns a notification by id.
func (s *Service) Get(ctx context.Context, id int64) (db.Notification, error) {
	notification, err := s.store.GetNotificationByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			return db.Notification{}, ErrNotificationNotFound
		}
		return db.Notification{}, fmt.Errorf("failed to get notification: %w", err)
	}
	return notification, nil
}

// AttemptDelivery tries to deliver a notification now.
//
// Sender failures are recorded on the notification, never returned. A notification that is
// already delivered, read, or failed and not yet due for retry is returned unchanged.
func (s *Service) AttemptDelivery(ctx context.Context, id int64) (db.Notification, error) {
	notification, _, err := s.attemptDeliveryAt(ctx, id, s.clock.Now())
	return notification, err
}

func (s *Service) attemptDeliveryAt(ctx context.Context, id int64, now time.Time) (db.Notification, deliveryOutcome, error) {
	var outcome deliveryOutcome

	updated, err := s.store.TransitionNotificationTx(ctx, id, func(ctx context.Context, current db.Notification) (db.Notification, bool, error) {
		if !readyForDelivery(current, now) {
			return current, false, nil
		}

		recipient, sendErr := s.lookupRecipient(ctx, current.UserID)
		if sendErr != nil && !errors.Is(sendErr, ErrChannelUnavailable) {
			return current, false, sendErr
		}

		var result Result
		if sendErr == nil {
			result, sendErr = s.send(ctx, current, recipient)
		}

		outcome.attempted = true
		if sendErr != nil {
			outcome.sendErr = sendErr
			return markFailed(current, sendErr, now), true, nil
		}

		outcome.delivered = true
		return markDelivered(current, result, now), true, nil
	})
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			return db.Notification{}, outcome, ErrNotificationNotFound
		}
		if outcome.delivered {
			// The external send cannot be undone; a later attempt may deliver it again.
			log.Error().Err(err).Int64("notification_id", id).
				Msg("notification was sent but its delivered state could not be saved")
		}
		return db.Notification{}, outcome, fmt.Errorf("failed to attempt delivery of notification %d: %w", id, err)
	}

	s.logOutcome(updated, outcome, now)
	s.publishOutcome(updated, outcome)

	return updated, outcome, nil
}

func (s *Service) lookupRecipient(ctx context.Context, userID string) (Recipient, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			return Recipient{}, fmt.Errorf("%w: %v", ErrChannelUnavailable, ErrRecipientNotFound)
		}
		return Recipient{}, fmt.Errorf("failed to look up recipient: %w", err)
	}
	return recipientFromUser(user), nil
}

func (s *Service) send(ctx context.Context, notification db.Notification, recipient Recipient) (Result, error) {
	sender, ok := s.senders[notification.Channel]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnsupportedChannel, notification.Channel)
	}

	result, err := sender.Send(ctx, notification, recipient)
	if err != nil && !errors.Is(err, ErrChannelUnavailable) && !errors.Is(err, ErrTransportFailure) {
		err = fmt.Errorf("%w: %v", ErrTransportFailure, err)
	}
	return result, err
}

func (s *Service) logOutcome(n db.Notification, outcome deliveryOutcome, now time.Time) {
	switch {
	case !outcome.attempted:
		log.Debug().Int64("notification_id", n.ID).Str("status", string(n.Status)).
			Msg("notification not due for delivery, skipped")
	case outcome.delivered:
		log.Info().Int64("notification_id", n.ID).Str("channel", string(n.Channel)).
			Int32("retry_count", n.RetryCount).Msg("notification delivered")
	case n.NextRetryAt.Valid:
		log.Warn().Err(outcome.sendErr).Int64("notification_id", n.ID).Int32("retry_count", n.RetryCount).
			Str("next_retry", util.FormatRelative(n.NextRetryAt.Time, now)).Msg("notification delivery failed, retry scheduled")
	default:
		log.Error().Err(outcome.sendErr).Int64("notification_id", n.ID).Int32("retry_count", n.RetryCount).
			Msg("notification delivery failed permanently")
	}
}

func (s *Service) publishOutcome(n db.Notification, outcome deliveryOutcome) {
	if s.events == nil || !outcome.attempted {
		return
	}

	eventType := event.EventTypeNotificationFailed
	if outcome.delivered {
		eventType = event.EventTypeNotificationDelivered
	}

	s.events.Broadcast(event.Event{
		Topic: event.UserTopic(n.UserID),
		Type:  eventType,
		Data:  n,
	})
}

// MarkRead moves a delivered notification owned by userID to read.
// Any other status is left as is.
func (s *Service) MarkRead(ctx context.Context, id int64, userID string) (db.Notification, error) {
	notification, err := s.store.MarkNotificationRead(ctx, db.MarkNotificationReadParams{
		ReadAt: timestamptz(s.clock.Now()),
		ID:     id,
		UserID: userID,
	})
	if err == nil {
		if s.events != nil {
			s.events.Broadcast(event.Event{
				Topic: event.UserTopic(userID),
				Type:  event.EventTypeNotificationRead,
				Data:  notification,
			})
		}
		return notification, nil
	}

	if !errors.Is(err, db.ErrRecordNotFound) {
		return db.Notification{}, fmt.Errorf("failed to mark notification as read: %w", err)
	}

	// Nothing was updated: either the notification does not belong to the user or it is not
	// in the delivered state.
	current, err := s.Get(ctx, id)
	if err != nil {
		return db.Notification{}, err
	}
	if current.UserID != userID {
		return db.Notification{}, ErrNotificationNotFound
	}

	return current, nil
}

// MarkAllRead marks every delivered notification of the user as read.
func (s *Service) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	count, err := s.store.MarkAllUserNotificationsRead(ctx, db.MarkAllUserNotificationsReadParams{
		ReadAt: timestamptz(s.clock.Now()),
		UserID: userID,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications as read: %w", err)
	}
	return count, nil
}

// ListForUser returns one page of a user's notifications, newest first, and the total count.
func (s *Service) ListForUser(ctx context.Context, arg ListParams) ([]db.Notification, int64, error) {
	page, pageSize := arg.Page, arg.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	var status db.NullNotificationStatus
	if arg.Status != nil {
		if !arg.Status.Valid() {
			return nil, 0, fmt.Errorf("%w: %q", ErrInvalidStatus, *arg.Status)
		}
		status = db.NullNotificationStatus{NotificationStatus: *arg.Status, Valid: true}
	}

	var category pgtype.Text
	if arg.Category != "" {
		category = pgtype.Text{String: arg.Category, Valid: true}
	}

	notifications, err := s.store.ListUserNotifications(ctx, db.ListUserNotificationsParams{
		UserID:     arg.UserID,
		Status:     status,
		Category:   category,
		UnreadOnly: arg.UnreadOnly,
		Limit:      pageSize,
		Offset:     (page - 1) * pageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}

	total, err := s.store.CountUserNotifications(ctx, db.CountUserNotificationsParams{
		UserID:     arg.UserID,
		Status:     status,
		Category:   category,
		UnreadOnly: arg.UnreadOnly,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	return notifications, total, nil
}

// ListEligibleForRetry returns every failed notification whose retry time has come.
func (s *Service) ListEligibleForRetry(ctx context.Context, now time.Time) ([]db.Notification, error) {
	var eligible []db.Notification
	err := s.forEachEligiblePage(ctx, now, func(page []db.Notification) {
		eligible = append(eligible, page...)
	})
	return eligible, err
}

// forEachEligiblePage walks the eligible notifications in id order, sweepBatchSize at a time.
func (s *Service) forEachEligiblePage(ctx context.Context, now time.Time, fn func(page []db.Notification)) error {
	var afterID int64
	for {
		page, err := s.store.ListNotificationsEligibleForRetry(ctx, db.ListNotificationsEligibleForRetryParams{
			Now:     timestamptz(now),
			AfterID: afterID,
			Limit:   s.sweepBatchSize,
		})
		if err != nil {
			return fmt.Errorf("failed to list notifications eligible for retry: %w", err)
		}
		if len(page) == 0 {
			return nil
		}

		fn(page)

		if len(page) < int(s.sweepBatchSize) {
			return nil
		}
		afterID = page[len(page)-1].ID
	}
}

// RunRetrySweep re-attempts delivery of every notification eligible for retry at now.
// Each notification is handled in its own transaction; one failing does not stop the sweep.
func (s *Service) RunRetrySweep(ctx context.Context, now time.Time) (SweepResult, error) {
	var result SweepResult
	candidates := 0

	err := s.forEachEligiblePage(ctx, now, func(page []db.Notification) {
		candidates += len(page)

		for _, candidate := range page {
			_, outcome, err := s.attemptDeliveryAt(ctx, candidate.ID, now)
			if err != nil {
				result.Errored++
				log.Err(err).Int64("notification_id", candidate.ID).Msg("failed to retry notification")
				continue
			}

			if !outcome.attempted {
				continue
			}

			result.Retried++
			if outcome.delivered {
				result.Succeeded++
			}
		}
	})
	if err != nil {
		return result, err
	}

	log.Info().Int("candidates", candidates).Int("retried", result.Retried).
		Int("succeeded", result.Succeeded).Int("errored", result.Errored).Msg("retry sweep finished")

	return result, nil
}

// Preferences reports which channels can currently reach the user.
func (s *Service) Preferences(ctx context.Context, userID string) (Preferences, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			return Preferences{}, ErrRecipientNotFound
		}
		return Preferences{}, fmt.Errorf("failed to get user: %w", err)
	}
	recipient := recipientFromUser(user)

	categories := make(map[string]bool, len(knownCategories))
	for _, category := range knownCategories {
		categories[category] = true
	}

	return Preferences{
		EmailEnabled: recipient.Email != "",
		SMSEnabled:   recipient.PhoneNumber != "",
		Categories:   categories,
		DeliveryMethods: map[string]bool{
			string(db.NotificationChannelEmail):  s.channelAvailable(db.NotificationChannelEmail, recipient),
			string(db.NotificationChannelSms):    s.channelAvailable(db.NotificationChannelSms, recipient),
			string(db.NotificationChannelSystem): s.channelAvailable(db.NotificationChannelSystem, recipient),
		},
	}, nil
}

func (s *Service) channelAvailable(channel db.NotificationChannel, recipient Recipient) bool {
	sender, ok := s.senders[channel]
	if !ok {
		return false
	}
	if checker, ok := sender.(availabilityChecker); ok {
		return checker.Available(recipient)
	}
	return true
}
