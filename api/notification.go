package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	db "github.com/katatrina/cmis-BE/internal/db/sqlc"
	"github.com/katatrina/cmis-BE/internal/notification"
	"github.com/katatrina/cmis-BE/internal/token"
	"github.com/rs/zerolog/log"
)

type listUserNotificationsQuery struct {
	Status     *string `form:"status"`
	Category   string  `form:"category"`
	UnreadOnly bool    `form:"unread_only"`
	Page       int32   `form:"page,default=1" binding:"min=1"`
	PageSize   int32   `form:"page_size,default=20" binding:"min=1,max=100"`
}

type listUserNotificationsResponse struct {
	Notifications []notificationResponse `json:"notifications"`
	Total         int64                  `json:"total"`
	Page          int32                  `json:"page"`
	PageSize      int32                  `json:"page_size"`
}

//	@Summary		List the authenticated user's notifications
//	@Tags			notifications
//	@Produce		json
//	@Security		accessToken
//	@Param			status		query		string	false	"Filter by status"	Enums(pending, sent, delivered, failed, read)
//	@Param			category	query		string	false	"Filter by category"
//	@Param			unread_only	query		bool	false	"Exclude read notifications"
//	@Param			page		query		int		false	"Page number"	default(1)
//	@Param			page_size	query		int		false	"Page size"		default(20)
//	@Success		200			{object}	listUserNotificationsResponse
//	@Router			/v1/notifications [get]
func (server *Server) listUserNotifications(c *gin.Context) {
	authPayload := c.MustGet(authorizationPayloadKey).(*token.Payload)

	var query listUserNotificationsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	arg := notification.ListParams{
		UserID:     authPayload.Subject,
		Category:   query.Category,
		UnreadOnly: query.UnreadOnly,
		Page:       query.Page,
		PageSize:   query.PageSize,
	}
	if query.Status != nil {
		status := db.NotificationStatus(*query.Status)
		arg.Status = &status
	}

	notifications, total, err := server.notificationService.ListForUser(c, arg)
	if err != nil {
		if errors.Is(err, notification.ErrInvalidStatus) {
			c.JSON(http.StatusBadRequest, errorResponse(err))
			return
		}

		log.Err(err).Str("user_id", authPayload.Subject).Msg("failed to list notifications")
		c.JSON(http.StatusInternalServerError, errorResponse(ErrInternalServer))
		return
	}

	c.JSON(http.StatusOK, listUserNotificationsResponse{
		Notifications: newNotificationResponses(notifications, server.notificationService.Now()),
		Total:         total,
		Page:          query.Page,
		PageSize:      query.PageSize,
	})
}

func (server *Server) getUserNotification(c *gin.Context) {
	authPayload := c.MustGet(authorizationPayloadKey).(*token.Payload)

	notificationID, err := parseNotificationID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	n, err := server.notificationService.Get(c, notificationID)
	if err != nil {
		if errors.Is(err, notification.ErrNotificationNotFound) {
			c.JSON(http.StatusNotFound, errorResponse(err))
			return
		}

		log.Err(err).Int64("notification_id", notificationID).Msg("failed to get notification")
		c.JSON(http.StatusInternalServerError, errorResponse(ErrInternalServer))
		return
	}

	if n.UserID != authPayload.Subject {
		c.JSON(http.StatusNotFound, errorResponse(notification.ErrNotificationNotFound))
		return
	}

	c.JSON(http.StatusOK, newNotificationResponse(n, server.notificationService.Now()))
}

//	@Summary		Mark a delivered notification as read
//	@Description	Has no effect on notifications that are not delivered yet or already read.
//	@Tags			notifications
//	@Produce		json
//	@Security		accessToken
//	@Param			notificationID	path		int	true	"Notification ID"
//	@Success		200				{object}	notificationResponse
//	@Failure		404				{object}	map[string]string
//	@Router			/v1/notifications/{notificationID}/read [put]
func (server *Server) markNotificationRead(c *gin.Context) {
	authPayload := c.MustGet(authorizationPayloadKey).(*token.Payload)

	notificationID, err := parseNotificationID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	n, err := server.notificationService.MarkRead(c, notificationID, authPayload.Subject)
	if err != nil {
		if errors.Is(err, notification.ErrNotificationNotFound) {
			c.JSON(http.StatusNotFound, errorResponse(err))
			return
		}

		log.Err(err).Int64("notification_id", notificationID).Msg("failed to mark notification as read")
		c.JSON(http.StatusInternalServerError, errorResponse(ErrInternalServer))
		return
	}

	c.JSON(http.StatusOK, newNotificationResponse(n, server.notificationService.Now()))
}

func (server *Server) markAllNotificationsRead(c *gin.Context) {
	authPayload := c.MustGet(authorizationPayloadKey).(*token.Payload)

	count, err := server.notificationService.MarkAllRead(c, authPayload.Subject)
	if err != nil {
		log.Err(err).Str("user_id", authPayload.Subject).Msg("failed to mark all notifications as read")
		c.JSON(http.StatusInternalServerError, errorResponse(ErrInternalServer))
		return
	}

	c.JSON(http.StatusOK, gin.H{"marked_count": count})
}

func (server *Server) getNotificationPreferences(c *gin.Context) {
	authPayload := c.MustGet(authorizationPayloadKey).(*token.Payload)

	prefs, err := server.notificationService.Preferences(c, authPayload.Subject)
	if err != nil {
		if errors.Is(err, notification.ErrRecipientNotFound) {
			c.JSON(http.StatusNotFound, errorResponse(err))
			return
		}

		log.Err(err).Str("user_id", authPayload.Subject).Msg("failed to get notification preferences")
		c.JSON(http.StatusInternalServerError, errorResponse(ErrInternalServer))
		return
	}

	c.JSON(http.StatusOK, prefs)
}

type sendTestNotificationRequest struct {
	Channel string `json:"channel" binding:"required,oneof=email sms"`
}

//	@Summary		Send a test notification to yourself
//	@Description	The notification is delivered synchronously; a delivery failure is reported in the returned record.
//	@Tags			notifications
//	@Accept			json
//	@Produce		json
//	@Security		accessToken
//	@Param			request	body		sendTestNotificationRequest	true	"Channel to test"
//	@Success		200		{object}	notificationResponse
//	@Router			/v1/notifications/test [post]
func (server *Server) sendTestNotification(c *gin.Context) {
	authPayload := c.MustGet(authorizationPayloadKey).(*token.Payload)

	req := new(sendTestNotificationRequest)
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	created, err := server.notificationService.Create(c, notification.CreateParams{
		UserID:   authPayload.Subject,
		Title:    "Test notification",
		Message:  fmt.Sprintf("This is a test %s notification from CMIS.", req.Channel),
		Channel:  db.NotificationChannel(req.Channel),
		Category: "test",
		Priority: db.NotificationPriorityLow,
	})
	if err != nil {
		if errors.Is(err, notification.ErrRecipientNotFound) {
			c.JSON(http.StatusNotFound, errorResponse(err))
			return
		}

		log.Err(err).Str("user_id", authPayload.Subject).Msg("failed to create test notification")
		c.JSON(http.StatusInternalServerError, errorResponse(ErrInternalServer))
		return
	}

	n, err := server.notificationService.AttemptDelivery(c, created.ID)
	if err != nil {
		log.Err(err).Int64("notification_id", created.ID).Msg("failed to attempt delivery of test notification")
		c.JSON(http.StatusInternalServerError, errorResponse(ErrInternalServer))
		return
	}

	c.JSON(http.StatusOK, newNotificationResponse(n, server.notificationService.Now()))
}
