package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const healthCheckTimeout = 2 * time.Second

func (server *Server) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, healthCheckTimeout)
	defer cancel()

	status := gin.H{"database": "ok", "redis": "ok"}
	healthy := true

	if err := server.dbStore.Ping(ctx); err != nil {
		log.Err(err).Msg("database health check failed")
		status["database"] = err.Error()
		healthy = false
	}

	if server.redisClient != nil {
		if err := server.redisClient.Ping(ctx).Err(); err != nil {
			log.Err(err).Msg("redis health check failed")
			status["redis"] = err.Error()
			healthy = false
		}
	}

	if !healthy {
		c.JSON(http.StatusServiceUnavailable, status)
		return
	}
	c.JSON(http.StatusOK, status)
}
