package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/katatrina/cmis-BE/internal/event"
	"github.com/katatrina/cmis-BE/internal/token"
	"github.com/rs/zerolog/log"
)

const (
	sseClientBufferSize = 16
	sseKeepAlivePeriod  = 30 * time.Second
)

//	@Summary		Stream notification events via Server-Sent Events
//	@Description	Emits notification_delivered, notification_failed and notification_read events for the authenticated user.
//	@Tags			notifications
//	@Produce		text/event-stream
//	@Security		accessToken
//	@Success		200	{string}	string	"Event stream. Data will be sent as SSE events with format: 'event: {eventType}\ndata: {jsonData}'"
//	@Router			/v1/notifications/stream [get]
func (server *Server) streamNotificationEvents(c *gin.Context) {
	authPayload := c.MustGet(authorizationPayloadKey).(*token.Payload)
	topic := event.UserTopic(authPayload.Subject)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	clientChan := make(chan event.Event, sseClientBufferSize)
	server.eventSender.Register(topic, clientChan)
	defer server.eventSender.Unregister(topic, clientChan)

	keepAlive := time.NewTicker(sseKeepAlivePeriod)
	defer keepAlive.Stop()

	for {
		select {
		case e, ok := <-clientChan:
			if !ok {
				return
			}

			data, err := json.Marshal(e.Data)
			if err != nil {
				log.Err(err).Str("type", e.Type).Msg("failed to encode event")
				continue
			}
			fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", e.Type, data)
			c.Writer.Flush()
		case <-keepAlive.C:
			fmt.Fprint(c.Writer, ": keep-alive\n\n")
			c.Writer.Flush()
		case <-c.Request.Context().Done():
			return
		}
	}
}
