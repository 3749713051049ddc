package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	db "github.com/katatrina/cmis-BE/internal/db/sqlc"
	"github.com/katatrina/cmis-BE/internal/notification"
	"github.com/katatrina/cmis-BE/internal/worker"
	"github.com/rs/zerolog/log"
)

const deliverTaskMaxRetry = 3

type createNotificationRequest struct {
	UserID        string `json:"user_id" binding:"required"`
	Title         string `json:"title" binding:"required,max=255"`
	Message       string `json:"message" binding:"required"`
	Channel       string `json:"channel" binding:"required"`
	Category      string `json:"category"`
	Priority      string `json:"priority"`
	ReferenceType string `json:"reference_type"`
	ReferenceID   *int64 `json:"reference_id"`
	MaxRetries    *int32 `json:"max_retries" binding:"omitempty,min=0,max=10"`
}

//	@Summary		Raise a notification for a user
//	@Description	The notification is stored as pending and handed to the delivery worker.
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Security		accessToken
//	@Param			request	body		createNotificationRequest	true	"Notification"
//	@Success		201		{object}	notificationResponse
//	@Router			/v1/admin/notifications [post]
func (server *Server) createNotification(c *gin.Context) {
	req := new(createNotificationRequest)
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	n, err := server.notificationService.Create(c, notification.CreateParams{
		UserID:        req.UserID,
		Title:         req.Title,
		Message:       req.Message,
		Channel:       db.NotificationChannel(req.Channel),
		Category:      req.Category,
		Priority:      db.NotificationPriority(req.Priority),
		ReferenceType: req.ReferenceType,
		ReferenceID:   req.ReferenceID,
		MaxRetries:    req.MaxRetries,
	})
	if err != nil {
		switch {
		case errors.Is(err, notification.ErrInvalidChannel),
			errors.Is(err, notification.ErrInvalidPriority),
			errors.Is(err, notification.ErrInvalidMaxRetries),
			errors.Is(err, notification.ErrMissingContent):
			c.JSON(http.StatusUnprocessableEntity, errorResponse(err))
		case errors.Is(err, notification.ErrRecipientNotFound):
			c.JSON(http.StatusNotFound, errorResponse(err))
		default:
			log.Err(err).Str("user_id", req.UserID).Msg("failed to create notification")
			c.JSON(http.StatusInternalServerError, errorResponse(ErrInternalServer))
		}
		return
	}

	err = server.taskDistributor.DistributeTaskDeliverNotification(c,
		&worker.PayloadDeliverNotification{NotificationID: n.ID},
		asynq.MaxRetry(deliverTaskMaxRetry),
		asynq.Queue(worker.QueueFor(n.Priority)),
	)
	if err != nil {
		// Deliver inline so the notification does not stay pending until someone notices.
		log.Err(err).Int64("notification_id", n.ID).Msg("failed to enqueue delivery task, delivering inline")

		notificationID := n.ID
		n, err = server.notificationService.AttemptDelivery(c, notificationID)
		if err != nil {
			log.Err(err).Int64("notification_id", notificationID).Msg("failed to attempt delivery")
			c.JSON(http.StatusInternalServerError, errorResponse(ErrInternalServer))
			return
		}
	}

	c.JSON(http.StatusCreated, newNotificationResponse(n, server.notificationService.Now()))
}

//	@Summary		Attempt delivery of a notification now
//	@Description	Has no effect on delivered or read notifications, or on failed ones not yet due for retry.
//	@Tags			admin
//	@Produce		json
//	@Security		accessToken
//	@Param			notificationID	path		int	true	"Notification ID"
//	@Success		200				{object}	notificationResponse
//	@Router			/v1/admin/notifications/{notificationID}/deliver [post]
func (server *Server) deliverNotification(c *gin.Context) {
	notificationID, err := parseNotificationID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	n, err := server.notificationService.AttemptDelivery(c, notificationID)
	if err != nil {
		if errors.Is(err, notification.ErrNotificationNotFound) {
			c.JSON(http.StatusNotFound, errorResponse(err))
			return
		}

		log.Err(err).Int64("notification_id", notificationID).Msg("failed to attempt delivery")
		c.JSON(http.StatusInternalServerError, errorResponse(ErrInternalServer))
		return
	}

	c.JSON(http.StatusOK, newNotificationResponse(n, server.notificationService.Now()))
}

func (server *Server) listRetryEligibleNotifications(c *gin.Context) {
	now := server.notificationService.Now()

	notifications, err := server.notificationService.ListEligibleForRetry(c, now)
	if err != nil {
		log.Err(err).Msg("failed to list notifications eligible for retry")
		c.JSON(http.StatusInternalServerError, errorResponse(ErrInternalServer))
		return
	}

	c.JSON(http.StatusOK, newNotificationResponses(notifications, now))
}

//	@Summary		Run a retry sweep now
//	@Tags			admin
//	@Produce		json
//	@Security		accessToken
//	@Success		200	{object}	notification.SweepResult
//	@Router			/v1/admin/notifications/retry-failed [post]
func (server *Server) retryFailedNotifications(c *gin.Context) {
	result, err := server.notificationService.RunRetrySweep(c, server.notificationService.Now())
	if err != nil {
		log.Err(err).Msg("failed to run retry sweep")
		c.JSON(http.StatusInternalServerError, errorResponse(ErrInternalServer))
		return
	}

	c.JSON(http.StatusOK, result)
}

func (server *Server) getNotificationQueueStats(c *gin.Context) {
	stats, err := server.taskInspector.QueueStats()
	if err != nil {
		log.Err(err).Msg("failed to inspect task queues")
		c.JSON(http.StatusInternalServerError, errorResponse(ErrInternalServer))
		return
	}

	c.JSON(http.StatusOK, stats)
}
