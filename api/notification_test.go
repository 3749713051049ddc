package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	db "github.com/katatrina/cmis-BE/internal/db/sqlc"
	"github.com/katatrina/cmis-BE/internal/notification"
	"github.com/katatrina/cmis-BE/internal/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type notificationJSON struct {
	ID            int64                  `json:"id"`
	UserID        string                 `json:"user_id"`
	Status        string                 `json:"status"`
	Category      string                 `json:"category"`
	RetryCount    int32                  `json:"retry_count"`
	FailureReason *string                `json:"failure_reason"`
	NextRetryAt   *time.Time             `json:"next_retry_at"`
	ReadAt        *time.Time             `json:"read_at"`
	Metadata      map[string]interface{} `json:"metadata"`
	NextRetry     string                 `json:"next_retry"`
}

func (ts *testServer) createNotification(t *testing.T, adminToken, userID string) notificationJSON {
	t.Helper()

	recorder := ts.do(t, http.MethodPost, "/v1/admin/notifications", adminToken, map[string]interface{}{
		"user_id":  userID,
		"title":    "Incident reported",
		"message":  "A new incident was filed for your vehicle.",
		"channel":  "email",
		"category": "Incident",
		"priority": "high",
	})
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var n notificationJSON
	decodeBody(t, recorder, &n)
	return n
}

func TestAdminCreateNotificationEnqueuesDelivery(t *testing.T) {
	ts := newTestServer(t)
	user, _ := ts.addUser(t, "jane@example.com", db.UserRoleMember)
	_, adminToken := ts.addUser(t, "admin@example.com", db.UserRoleAdmin)

	n := ts.createNotification(t, adminToken, user.ID)
	assert.Equal(t, "pending", n.Status)
	assert.Equal(t, "incident", n.Category)

	require.Len(t, ts.distributor.payloads, 1)
	assert.Equal(t, n.ID, ts.distributor.payloads[0].NotificationID)
	assert.Empty(t, ts.mailer.sent)
}

func TestAdminCreateNotificationDeliversInlineWhenQueueIsDown(t *testing.T) {
	ts := newTestServer(t)
	ts.distributor.err = errors.New("redis: connection refused")
	user, _ := ts.addUser(t, "jane@example.com", db.UserRoleMember)
	_, adminToken := ts.addUser(t, "admin@example.com", db.UserRoleAdmin)

	n := ts.createNotification(t, adminToken, user.ID)
	assert.Equal(t, "delivered", n.Status)
	assert.Equal(t, "msg@cmis.test", n.Metadata["email_message_id"])
	require.Len(t, ts.mailer.sent, 1)
}

func TestAdminCreateNotificationValidation(t *testing.T) {
	ts := newTestServer(t)
	user, _ := ts.addUser(t, "jane@example.com", db.UserRoleMember)
	_, adminToken := ts.addUser(t, "admin@example.com", db.UserRoleAdmin)

	recorder := ts.do(t, http.MethodPost, "/v1/admin/notifications", adminToken, map[string]interface{}{
		"user_id": user.ID,
		"title":   "t",
		"message": "m",
		"channel": "carrier-pigeon",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)

	recorder = ts.do(t, http.MethodPost, "/v1/admin/notifications", adminToken, map[string]interface{}{
		"user_id": "ghost",
		"title":   "t",
		"message": "m",
		"channel": "email",
	})
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestNotificationLifecycle(t *testing.T) {
	ts := newTestServer(t)
	user, userToken := ts.addUser(t, "jane@example.com", db.UserRoleMember)
	other, otherToken := ts.addUser(t, "john@example.com", db.UserRoleMember)
	_, adminToken := ts.addUser(t, "admin@example.com", db.UserRoleAdmin)
	require.NotEqual(t, user.ID, other.ID)

	n := ts.createNotification(t, adminToken, user.ID)
	url := fmt.Sprintf("/v1/notifications/%d", n.ID)

	// reading a pending notification changes nothing
	recorder := ts.do(t, http.MethodPut, url+"/read", userToken, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	var current notificationJSON
	decodeBody(t, recorder, &current)
	assert.Equal(t, "pending", current.Status)
	assert.Nil(t, current.ReadAt)

	recorder = ts.do(t, http.MethodPost, fmt.Sprintf("/v1/admin/notifications/%d/deliver", n.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	decodeBody(t, recorder, &current)
	assert.Equal(t, "delivered", current.Status)

	recorder = ts.do(t, http.MethodGet, url, otherToken, nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	recorder = ts.do(t, http.MethodPut, url+"/read", otherToken, nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	recorder = ts.do(t, http.MethodPut, url+"/read", userToken, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	decodeBody(t, recorder, &current)
	assert.Equal(t, "read", current.Status)
	require.NotNil(t, current.ReadAt)

	recorder = ts.do(t, http.MethodGet, "/v1/notifications?status=read", userToken, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	var list struct {
		Notifications []notificationJSON `json:"notifications"`
		Total         int64              `json:"total"`
	}
	decodeBody(t, recorder, &list)
	assert.EqualValues(t, 1, list.Total)
	require.Len(t, list.Notifications, 1)
	assert.Equal(t, n.ID, list.Notifications[0].ID)

	recorder = ts.do(t, http.MethodGet, "/v1/notifications?status=archived", userToken, nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = ts.do(t, http.MethodGet, "/v1/notifications/abc", userToken, nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestRetryFailedNotifications(t *testing.T) {
	ts := newTestServer(t)
	user, userToken := ts.addUser(t, "", db.UserRoleMember)
	_, adminToken := ts.addUser(t, "admin@example.com", db.UserRoleAdmin)

	n := ts.createNotification(t, adminToken, user.ID)

	recorder := ts.do(t, http.MethodPost, fmt.Sprintf("/v1/admin/notifications/%d/deliver", n.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	var failed notificationJSON
	decodeBody(t, recorder, &failed)
	assert.Equal(t, "failed", failed.Status)
	assert.EqualValues(t, 1, failed.RetryCount)
	require.NotNil(t, failed.FailureReason)
	assert.Contains(t, *failed.FailureReason, "email")
	require.NotNil(t, failed.NextRetryAt)
	assert.Equal(t, "10 minutes from now", failed.NextRetry)

	recorder = ts.do(t, http.MethodGet, "/v1/admin/notifications/retry-eligible", adminToken, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	var eligible []notificationJSON
	decodeBody(t, recorder, &eligible)
	assert.Empty(t, eligible)

	recorder = ts.do(t, http.MethodPatch, "/v1/users/me/contact", userToken, map[string]string{"email": "jane@example.com"})
	require.Equal(t, http.StatusOK, recorder.Code)

	ts.clock.Advance(10 * time.Minute)

	recorder = ts.do(t, http.MethodGet, "/v1/admin/notifications/retry-eligible", adminToken, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	decodeBody(t, recorder, &eligible)
	require.Len(t, eligible, 1)

	recorder = ts.do(t, http.MethodPost, "/v1/admin/notifications/retry-failed", adminToken, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	var result notification.SweepResult
	decodeBody(t, recorder, &result)
	assert.Equal(t, notification.SweepResult{Retried: 1, Succeeded: 1}, result)

	stored, err := ts.store.GetNotificationByID(t.Context(), n.ID)
	require.NoError(t, err)
	assert.Equal(t, db.NotificationStatusDelivered, stored.Status)
	assert.EqualValues(t, 1, stored.RetryCount)
}

func TestMarkAllNotificationsRead(t *testing.T) {
	ts := newTestServer(t)
	user, userToken := ts.addUser(t, "jane@example.com", db.UserRoleMember)
	_, adminToken := ts.addUser(t, "admin@example.com", db.UserRoleAdmin)

	for i := 0; i < 2; i++ {
		n := ts.createNotification(t, adminToken, user.ID)
		recorder := ts.do(t, http.MethodPost, fmt.Sprintf("/v1/admin/notifications/%d/deliver", n.ID), adminToken, nil)
		require.Equal(t, http.StatusOK, recorder.Code)
	}
	ts.createNotification(t, adminToken, user.ID)

	recorder := ts.do(t, http.MethodPut, "/v1/notifications/mark-all-read", userToken, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	var resp struct {
		MarkedCount int64 `json:"marked_count"`
	}
	decodeBody(t, recorder, &resp)
	assert.EqualValues(t, 2, resp.MarkedCount)
}

func TestNotificationPreferencesAndTest(t *testing.T) {
	ts := newTestServer(t)
	_, userToken := ts.addUser(t, "jane@example.com", db.UserRoleMember)

	recorder := ts.do(t, http.MethodGet, "/v1/notifications/preferences", userToken, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	var prefs notification.Preferences
	decodeBody(t, recorder, &prefs)
	assert.True(t, prefs.EmailEnabled)
	assert.False(t, prefs.SMSEnabled)
	assert.True(t, prefs.DeliveryMethods["email"])
	assert.False(t, prefs.DeliveryMethods["sms"])

	recorder = ts.do(t, http.MethodPost, "/v1/notifications/test", userToken, map[string]string{"channel": "email"})
	require.Equal(t, http.StatusOK, recorder.Code)
	var n notificationJSON
	decodeBody(t, recorder, &n)
	assert.Equal(t, "delivered", n.Status)
	assert.Equal(t, "test", n.Category)

	// no sms sender is registered on the test server
	recorder = ts.do(t, http.MethodPost, "/v1/notifications/test", userToken, map[string]string{"channel": "sms"})
	require.Equal(t, http.StatusOK, recorder.Code)
	decodeBody(t, recorder, &n)
	assert.Equal(t, "failed", n.Status)
	assert.Empty(t, n.NextRetry)

	recorder = ts.do(t, http.MethodPost, "/v1/notifications/test", userToken, map[string]string{"channel": "push"})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	recorder := ts.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)

	ts.store.pingErr = errors.New("connection refused")
	recorder = ts.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
}

func TestAdminQueueStats(t *testing.T) {
	ts := newTestServer(t)
	_, memberToken := ts.addUser(t, "jane@example.com", db.UserRoleMember)
	_, adminToken := ts.addUser(t, "admin@example.com", db.UserRoleAdmin)

	ts.taskInspector.(*fakeInspector).stats = []worker.QueueStats{
		{Queue: worker.QueueCritical, Size: 2, Pending: 1, Retry: 1},
		{Queue: worker.QueueDefault, Processed: 12},
	}

	recorder := ts.do(t, http.MethodGet, "/v1/admin/notifications/queues", memberToken, nil)
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	recorder = ts.do(t, http.MethodGet, "/v1/admin/notifications/queues", adminToken, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var stats []worker.QueueStats
	decodeBody(t, recorder, &stats)
	require.Len(t, stats, 2)
	assert.Equal(t, worker.QueueCritical, stats[0].Queue)
	assert.Equal(t, 1, stats[0].Retry)
	assert.Equal(t, 12, stats[1].Processed)
}
