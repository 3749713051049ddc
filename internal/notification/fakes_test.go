package notification

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	db "github.com/katatrina/cmis-BE/internal/db/sqlc"
	"github.com/katatrina/cmis-BE/internal/event"
	"github.com/katatrina/cmis-BE/internal/mailer"
)

// fakeStore keeps notifications in memory. txMu plays the role of the row lock.
type fakeStore struct {
	txMu sync.Mutex

	mu            sync.Mutex
	nextID        int64
	users         map[string]db.User
	notifications map[int64]db.Notification

	userErr   error
	updateErr error
}

func newFakeStore(users ...db.User) *fakeStore {
	s := &fakeStore{
		users:         make(map[string]db.User),
		notifications: make(map[int64]db.Notification),
	}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeStore) setUser(u db.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

func (s *fakeStore) get(id int64) db.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notifications[id]
}

func (s *fakeStore) put(n db.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications[n.ID] = n
}

func (s *fakeStore) CreateNotification(_ context.Context, arg db.CreateNotificationParams) (db.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[arg.UserID]; !ok {
		return db.Notification{}, &pgconn.PgError{Code: db.ForeignKeyViolationCode, ConstraintName: "notifications_user_id_fkey"}
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

func (s *fakeStore) GetUserByID(_ context.Context, id string) (db.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.userErr != nil {
		return db.User{}, s.userErr
	}
	u, ok := s.users[id]
	if !ok {
		return db.User{}, db.ErrRecordNotFound
	}
	return u, nil
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

func (s *fakeStore) filter(userID string, status db.NullNotificationStatus, category pgtype.Text, unreadOnly bool) []db.Notification {
	var result []db.Notification
	for _, n := range s.notifications {
		if n.UserID != userID {
			continue
		}
		if status.Valid && n.Status != status.NotificationStatus {
			continue
		}
		if category.Valid && n.Category != category.String {
			continue
		}
		if unreadOnly && n.Status == db.NotificationStatusRead {
			continue
		}
		result = append(result, n)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result
}

func (s *fakeStore) ListUserNotifications(_ context.Context, arg db.ListUserNotificationsParams) ([]db.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.filter(arg.UserID, arg.Status, arg.Category, arg.UnreadOnly)
	start := int(arg.Offset)
	if start > len(all) {
		start = len(all)
	}
	end := start + int(arg.Limit)
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

func (s *fakeStore) CountUserNotifications(_ context.Context, arg db.CountUserNotificationsParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.filter(arg.UserID, arg.Status, arg.Category, arg.UnreadOnly))), nil
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

func (s *fakeStore) TransitionNotificationTx(ctx context.Context, id int64, fn db.NotificationTransitionFunc) (db.Notification, error) {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	current, err := s.GetNotificationByID(ctx, id)
	if err != nil {
		return db.Notification{}, err
	}

	next, changed, err := fn(ctx, current)
	if err != nil {
		return db.Notification{}, err
	}
	if !changed {
		return current, nil
	}
	if s.updateErr != nil {
		return db.Notification{}, s.updateErr
	}

	s.put(next)
	return next, nil
}

type fakeMailer struct {
	mu    sync.Mutex
	sent  []mailer.Email
	calls int
	err   error
}

func (m *fakeMailer) SendEmail(_ context.Context, email mailer.Email) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return "", m.err
	}
	m.sent = append(m.sent, email)
	return "msg-1@cmis.test", nil
}

func (m *fakeMailer) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *fakeMailer) fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

type fakeGateway struct {
	configured bool
	to         string
	body       string
	err        error
}

func (g *fakeGateway) Name() string     { return "fake" }
func (g *fakeGateway) Configured() bool { return g.configured }

func (g *fakeGateway) SendSMS(_ context.Context, to string, body string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	g.to, g.body = to, body
	return "SM123", nil
}

type fakeFeed struct {
	docs []map[string]interface{}
	err  error
}

func (f *fakeFeed) AddDocument(_ context.Context, doc map[string]interface{}) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.docs = append(f.docs, doc)
	return "doc-1", nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []event.Event
}

func (p *fakePublisher) Broadcast(e event.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

var errConnectionReset = errors.New("connection reset by peer")
