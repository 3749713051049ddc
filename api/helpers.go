package api

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	db "github.com/katatrina/cmis-BE/internal/db/sqlc"
	"github.com/katatrina/cmis-BE/internal/util"
)

// notificationResponse adds human readable timing to a notification.
type notificationResponse struct {
	db.Notification
	CreatedAgo string `json:"created_ago"`
	NextRetry  string `json:"next_retry,omitempty"`
}

func newNotificationResponse(n db.Notification, now time.Time) notificationResponse {
	resp := notificationResponse{
		Notification: n,
		CreatedAgo:   util.FormatRelative(n.CreatedAt, now),
	}
	if n.NextRetryAt.Valid {
		resp.NextRetry = util.FormatRelative(n.NextRetryAt.Time, now)
	}
	return resp
}

func newNotificationResponses(notifications []db.Notification, now time.Time) []notificationResponse {
	resp := make([]notificationResponse, 0, len(notifications))
	for _, n := range notifications {
		resp = append(resp, newNotificationResponse(n, now))
	}
	return resp
}

func parseNotificationID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("notificationID"), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidNotificationID
	}
	return id, nil
}
