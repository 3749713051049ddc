package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	db "github.com/katatrina/cmis-BE/internal/db/sqlc"
	"github.com/katatrina/cmis-BE/internal/event"
	"github.com/katatrina/cmis-BE/internal/notification"
	"github.com/katatrina/cmis-BE/internal/token"
	"github.com/katatrina/cmis-BE/internal/util"
	"github.com/katatrina/cmis-BE/internal/worker"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// phoneVerifier proves ownership of a phone number before it is used for SMS delivery.
type phoneVerifier interface {
	SendOTP(ctx context.Context, phoneNumber string) (time.Time, error)
	VerifyOTP(ctx context.Context, phoneNumber string, code string) error
}

type Server struct {
	router              *gin.Engine
	dbStore             db.Store
	redisClient         *redis.Client
	tokenMaker          token.Maker
	config              *util.Config
	notificationService *notification.Service
	taskDistributor     worker.TaskDistributor
	taskInspector       worker.TaskInspector
	eventSender         event.EventSender
	phoneVerifier       phoneVerifier
}

// NewServer creates a new HTTP server and set up routing.
func NewServer(store db.Store, redisClient *redis.Client, notificationService *notification.Service, taskDistributor worker.TaskDistributor, taskInspector worker.TaskInspector, config *util.Config, eventSender event.EventSender, phoneVerifier phoneVerifier) (*Server, error) {
	// Create a new JWT token maker
	tokenMaker, err := token.NewJWTMaker(config.TokenSecretKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create token maker: %w", err)
	}
	log.Info().Msg("Token maker created successfully ✅")

	server := &Server{
		dbStore:             store,
		redisClient:         redisClient,
		tokenMaker:          tokenMaker,
		config:              config,
		notificationService: notificationService,
		taskDistributor:     taskDistributor,
		taskInspector:       taskInspector,
		eventSender:         eventSender,
		phoneVerifier:       phoneVerifier,
	}

	server.setupRouter()
	return server, nil
}

// setupRouter configures the HTTP server routes.
func (server *Server) setupRouter() *gin.Engine {
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     server.config.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	router.GET("/healthz", server.healthCheck)

	v1 := router.Group("/v1")

	v1.POST("/tokens/verify", server.verifyAccessToken)
	v1.POST("/auth/login", server.loginUser)

	userGroup := v1.Group("/users")
	{
		userGroup.POST("", server.createUser)

		userGroup.Use(authMiddleware(server.tokenMaker))
		userGroup.GET("me", server.getAuthenticatedUser)
		userGroup.PATCH("me/contact", server.updateUserContact)
		userGroup.POST("me/phone-number/otp", server.sendPhoneNumberOTP)
		userGroup.POST("me/phone-number/verify", server.verifyPhoneNumber)
	}

	notificationGroup := v1.Group("/notifications", authMiddleware(server.tokenMaker))
	{
		notificationGroup.GET("", server.listUserNotifications)
		notificationGroup.GET("preferences", server.getNotificationPreferences)
		notificationGroup.GET("stream", server.streamNotificationEvents)
		notificationGroup.PUT("mark-all-read", server.markAllNotificationsRead)
		notificationGroup.POST("test", server.sendTestNotification)
		notificationGroup.GET(":notificationID", server.getUserNotification)
		notificationGroup.PUT(":notificationID/read", server.markNotificationRead)
	}

	adminGroup := v1.Group("/admin", authMiddleware(server.tokenMaker), requiredAdminRole())
	{
		adminNotificationGroup := adminGroup.Group("notifications")
		{
			adminNotificationGroup.POST("", server.createNotification)
			adminNotificationGroup.GET("retry-eligible", server.listRetryEligibleNotifications)
			adminNotificationGroup.POST("retry-failed", server.retryFailedNotifications)
			adminNotificationGroup.GET("queues", server.getNotificationQueueStats)
			adminNotificationGroup.POST(":notificationID/deliver", server.deliverNotification)
		}
	}

	server.router = router
	return router
}

// Handler returns the router serving all routes.
func (server *Server) Handler() http.Handler {
	return server.router
}

// Start runs the HTTP server on a specific address.
func (server *Server) Start(address string) error {
	return server.router.Run(address)
}
