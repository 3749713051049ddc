package api

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgconn"
	db "github.com/katatrina/cmis-BE/internal/db/sqlc"
	"github.com/katatrina/cmis-BE/internal/mailer"
	"github.com/katatrina/cmis-BE/internal/otp"
	"github.com/katatrina/cmis-BE/internal/worker"
)

// fakeStore is an in-memory db.Store.
type fakeStore struct {
	mu            sync.Mutex
	users         map[string]db.User
	notifications map[int64]db.Notification
	nextUserID    int
	nextID        int64
	pingErr       error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:         make(map[string]db.User),
		notifications: make(map[int64]db.Notification),
	}
}

var _ db.Store = (*fakeStore)(nil)

func (s *fakeStore) ExecTx(context.Context, func(*db.Queries) error) error {
	return errors.New("transactions are not supported by fakeStore")
}

func (s *fakeStore) Ping(context.Context) error {
	return s.pingErr
}

func (s *fakeStore) CreateUser(_ context.Context, arg db.CreateUserParams) (db.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == arg.Email {
			return db.User{}, &pgconn.PgError{Code: db.UniqueViolationCode, ConstraintName: db.UniqueEmailConstraint}
		}
	}

	s.nextUserID++
	user := db.User{
		ID:             fmt.Sprintf("user-%d", s.nextUserID),
		FullName:       arg.FullName,
		Email:          arg.Email,
		HashedPassword: arg.HashedPassword,
		PhoneNumber:    arg.PhoneNumber,
		Role:           arg.Role,
	}
	s.users[user.ID] = user
	return user, nil
}

func (s *fakeStore) GetUserByEmail(_ context.Context, email string) (db.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return db.User{}, db.ErrRecordNotFound
}

func (s *fakeStore) GetUserByID(_ context.Context, id string) (db.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return db.User{}, db.ErrRecordNotFound
	}
	return u, nil
}

func (s *fakeStore) UpdateUserContact(_ context.Context, arg db.UpdateUserContactParams) (db.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[arg.ID]
	if !ok {
		return db.User{}, db.ErrRecordNotFound
	}
	if arg.Email.Valid {
		for _, other := range s.users {
			if other.ID != u.ID && other.Email == arg.Email.String {
				return db.User{}, &pgconn.PgError{Code: db.UniqueViolationCode, ConstraintName: db.UniqueEmailConstraint}
			}
		}
		u.Email = arg.Email.String
	}
	if arg.PhoneNumber.Valid {
		u.PhoneNumber = arg.PhoneNumber
	}
	s.users[u.ID] = u
	return u, nil
}

func (s *fakeStore) CreateNotification(_ context.Context, arg db.CreateNotificationParams) (db.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[arg.UserID]; !ok {
		return db.Notification{}, &pgconn.PgError{Code: db.ForeignKeyViolationCode}
	}

	s.nextID++
	n := db.Notification{
		ID:            s.nextID,
		UserID:        arg.UserID,
		Title:         arg.Title,
		Message:       arg.Message,
		Channel:       arg.Channel,
		Category:      arg.Category,
		Priority:      arg.Priority,
		Status:        db.NotificationStatusPending,
		ReferenceType: arg.ReferenceType,
		ReferenceID:   arg.ReferenceID,
		MaxRetries:    arg.MaxRetries,
		Metadata:      map[string]interface{}{},
	}
	s.notifications[n.ID] = n
	return n, nil
}

func (s *fakeStore) GetNotificationByID(_ context.Context, id int64) (db.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notifications[id]
	if !ok {
		return db.Notification{}, db.ErrRecordNotFound
	}
	return n, nil
}

func (s *fakeStore) GetNotificationByIDForUpdate(ctx context.Context, id int64) (db.Notification, error) {
	return s.GetNotificationByID(ctx, id)
}

func (s *fakeStore) UpdateNotificationDelivery(_ context.Context, arg db.UpdateNotificationDeliveryParams) (db.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notifications[arg.ID]
	if !ok {
		return db.Notification{}, db.ErrRecordNotFound
	}
	n.Status = arg.Status
	n.SentAt = arg.SentAt
	n.DeliveredAt = arg.DeliveredAt
	n.FailedAt = arg.FailedAt
	n.FailureReason = arg.FailureReason
	n.RetryCount = arg.RetryCount
	n.NextRetryAt = arg.NextRetryAt
	n.Metadata = arg.Metadata
	s.notifications[n.ID] = n
	return n, nil
}

func (s *fakeStore) TransitionNotificationTx(ctx context.Context, id int64, fn db.NotificationTransitionFunc) (db.Notification, error) {
	current, err := s.GetNotificationByIDForUpdate(ctx, id)
	if err != nil {
		return db.Notification{}, err
	}

	next, changed, err := fn(ctx, current)
	if err != nil || !changed {
		return current, err
	}

	return s.UpdateNotificationDelivery(ctx, db.UpdateNotificationDeliveryParams{
		Status:        next.Status,
		SentAt:        next.SentAt,
		DeliveredAt:   next.DeliveredAt,
		FailedAt:      next.FailedAt,
		FailureReason: next.FailureReason,
		RetryCount:    next.RetryCount,
		NextRetryAt:   next.NextRetryAt,
		Metadata:      next.Metadata,
		ID:            id,
	})
}

func (s *fakeStore) MarkNotificationRead(_ context.Context, arg db.MarkNotificationReadParams) (db.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notifications[arg.ID]
	if !ok || n.UserID != arg.UserID || n.Status != db.NotificationStatusDelivered {
		return db.Notification{}, db.ErrRecordNotFound
	}
	n.Status = db.NotificationStatusRead
	n.ReadAt = arg.ReadAt
	s.notifications[n.ID] = n
	return n, nil
}

func (s *fakeStore) MarkAllUserNotificationsRead(_ context.Context, arg db.MarkAllUserNotificationsReadParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for id, n := range s.notifications {
		if n.UserID == arg.UserID && n.Status == db.NotificationStatusDelivered {
			n.Status = db.NotificationStatusRead
			n.ReadAt = arg.ReadAt
			s.notifications[id] = n
			count++
		}
	}
	return count, nil
}

func (s *fakeStore) userNotifications(userID string, status db.NullNotificationStatus) []db.Notification {
	var result []db.Notification
	for _, n := range s.notifications {
		if n.UserID == userID && (!status.Valid || n.Status == status.NotificationStatus) {
			result = append(result, n)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result
}

func (s *fakeStore) ListUserNotifications(_ context.Context, arg db.ListUserNotificationsParams) ([]db.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.userNotifications(arg.UserID, arg.Status)
	start := min(int(arg.Offset), len(all))
	end := min(start+int(arg.Limit), len(all))
	return all[start:end], nil
}

func (s *fakeStore) CountUserNotifications(_ context.Context, arg db.CountUserNotificationsParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.userNotifications(arg.UserID, arg.Status))), nil
}

func (s *fakeStore) ListNotificationsEligibleForRetry(_ context.Context, arg db.ListNotificationsEligibleForRetryParams) ([]db.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []db.Notification
	for _, n := range s.notifications {
		if n.Status == db.NotificationStatusFailed && n.RetryCount < n.MaxRetries &&
			n.NextRetryAt.Valid && !n.NextRetryAt.Time.After(arg.Now.Time) && n.ID > arg.AfterID {
			result = append(result, n)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	if len(result) > int(arg.Limit) {
		result = result[:arg.Limit]
	}
	return result, nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []mailer.Email
	err  error
}

func (m *fakeMailer) SendEmail(_ context.Context, email mailer.Email) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return "", m.err
	}
	m.sent = append(m.sent, email)
	return "msg@cmis.test", nil
}

type fakeDistributor struct {
	mu       sync.Mutex
	payloads []*worker.PayloadDeliverNotification
	err      error
}

func (d *fakeDistributor) DistributeTaskDeliverNotification(_ context.Context, payload *worker.PayloadDeliverNotification, _ ...asynq.Option) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.err != nil {
		return d.err
	}
	d.payloads = append(d.payloads, payload)
	return nil
}

func (d *fakeDistributor) Close() error {
	return nil
}

type fakeInspector struct {
	stats []worker.QueueStats
}

func (i *fakeInspector) QueueStats() ([]worker.QueueStats, error) {
	return i.stats, nil
}

// fakePhoneVerifier issues a fixed code per phone number.
type fakePhoneVerifier struct {
	mu      sync.Mutex
	codes   map[string]string
	sendErr error
}

func newFakePhoneVerifier() *fakePhoneVerifier {
	return &fakePhoneVerifier{codes: make(map[string]string)}
}

func (v *fakePhoneVerifier) SendOTP(_ context.Context, phoneNumber string) (time.Time, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.sendErr != nil {
		return time.Time{}, v.sendErr
	}
	v.codes[phoneNumber] = "428913"
	return time.Now().Add(5 * time.Minute), nil
}

func (v *fakePhoneVerifier) VerifyOTP(_ context.Context, phoneNumber string, code string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	expected, ok := v.codes[phoneNumber]
	if !ok {
		return otp.ErrOTPNotFound
	}
	if expected != code {
		return otp.ErrInvalidOTP
	}
	delete(v.codes, phoneNumber)
	return nil
}
