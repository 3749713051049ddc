package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"github.com/katatrina/cmis-BE/api"
	db "github.com/katatrina/cmis-BE/internal/db/sqlc"
	"github.com/katatrina/cmis-BE/internal/event"
	"github.com/katatrina/cmis-BE/internal/mailer"
	"github.com/katatrina/cmis-BE/internal/notification"
	"github.com/katatrina/cmis-BE/internal/otp"
	"github.com/katatrina/cmis-BE/internal/phone_number"
	"github.com/katatrina/cmis-BE/internal/scheduler"
	"github.com/katatrina/cmis-BE/internal/sms"
	"github.com/katatrina/cmis-BE/internal/util"
	"github.com/katatrina/cmis-BE/internal/worker"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

//	@title			CMIS Notification API
//	@version		1.0.0
//	@description	Notification delivery and retry for the Car Management Information System

//	@host		localhost:8080
//	@BasePath	/v1
//	@schemes	http https

//	@securityDefinitions.apikey	accessToken
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and JWT token.
func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load configurations
	config, err := util.LoadConfig("./app.env")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config file 😣")
	}

	log.Info().Msg("configurations loaded successfully ✅")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Create connection pool
	connPool, err := pgxpool.New(ctx, config.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to validate db connection string 😣")
	}
	defer connPool.Close()

	pingErr := connPool.Ping(ctx)
	if pingErr != nil {
		log.Fatal().Err(pingErr).Msg("failed to connect to db 😣")
	}
	log.Info().Msg("connected to db ✅")

	store := db.NewStore(connPool)

	redisDb := redis.NewClient(&redis.Options{
		Addr:     config.RedisServerAddress,
		Password: "", // no password set
		DB:       0,  // use default DB
	})
	defer redisDb.Close()

	redisOpt := asynq.RedisClientOpt{
		Addr: config.RedisServerAddress,
	}

	clock := clockwork.NewRealClock()

	eventSender := event.NewSSEServer()
	go eventSender.Run()
	defer eventSender.Close()

	smsGateway := newSMSGateway(config)
	phoneService := phone_number.NewPhoneService(otp.NewOTPService(redisDb, otp.WithPrefix("otp:phone_number")), smsGateway)

	options := []notification.ServiceOption{
		notification.WithEventPublisher(eventSender),
		notification.WithDefaultMaxRetries(config.NotificationMaxRetries),
		notification.WithSweepBatchSize(config.RetrySweepBatchSize),
		notification.WithSender(db.NotificationChannelSms, notification.NewSMSSender(smsGateway)),
	}

	var mailService mailer.Mailer
	if config.SMTPConfigured() {
		smtpSender, err := mailer.NewSMTPSender(config)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create mailer service 😣")
		}
		mailService = smtpSender
		log.Info().Msg("email channel enabled ✅")
	} else {
		log.Warn().Msg("SMTP is not configured, email notifications will fail and be retried")
	}
	options = append(options, notification.WithSender(db.NotificationChannelEmail, notification.NewEmailSender(mailService)))

	var feed notification.FeedWriter
	if config.FirebaseCredentialsFile != "" {
		firebaseApp, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(config.FirebaseCredentialsFile))
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize firebase app 😣")
		}

		firestoreClient, err := firebaseApp.Firestore(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create firestore client 😣")
		}
		defer firestoreClient.Close()

		feed = notification.NewFirestoreFeed(firestoreClient)
		log.Info().Msg("system channel enabled ✅")
	} else {
		log.Warn().Msg("firebase is not configured, system notifications will fail and be retried")
	}
	options = append(options, notification.WithSender(db.NotificationChannelSystem, notification.NewSystemSender(feed)))

	notificationService := notification.NewService(store, clock, options...)

	taskDistributor := worker.NewTaskDistributor(redisOpt)
	defer taskDistributor.Close()
	taskInspector := worker.NewTaskInspector(redisOpt)

	taskProcessor := runTaskProcessor(redisOpt, notificationService)
	defer taskProcessor.Shutdown()

	retryScheduler := runRetryScheduler(config, notificationService, clock, redisDb)
	defer func() {
		if err := retryScheduler.Stop(); err != nil {
			log.Err(err).Msg("failed to stop retry scheduler")
		}
	}()

	runHTTPServer(ctx, config, store, redisDb, notificationService, taskDistributor, taskInspector, eventSender, phoneService)
}

func newSMSGateway(config util.Config) sms.Gateway {
	switch config.SMSGateway {
	case "discord":
		gateway, err := sms.NewDiscordGateway(config.DiscordBotToken, config.DiscordChannelID)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create discord sms gateway 😣")
		}
		return gateway
	default:
		return sms.NewTwilioGateway(sms.TwilioConfig{
			AccountSID: config.TwilioAccountSID,
			AuthToken:  config.TwilioAuthToken,
			FromNumber: config.TwilioFromNumber,
			BaseURL:    config.TwilioBaseURL,
		})
	}
}

func runTaskProcessor(redisOpt asynq.RedisClientOpt, deliverer worker.Deliverer) *worker.RedisTaskProcessor {
	taskProcessor := worker.NewRedisTaskProcessor(redisOpt, deliverer)

	log.Info().Msg("start task processor")
	if err := taskProcessor.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start task processor 😣")
	}

	return taskProcessor
}

func runRetryScheduler(config util.Config, sweeper scheduler.Sweeper, clock clockwork.Clock, redisDb *redis.Client) *scheduler.RetryScheduler {
	// the lease outlives a sweep so two replicas never overlap
	locker := scheduler.NewRedisLocker(redisDb, 2*config.RetrySweepInterval)

	retryScheduler, err := scheduler.NewRetryScheduler(sweeper, clock, config.RetrySweepInterval, locker)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create retry scheduler 😣")
	}

	if err = retryScheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start retry scheduler 😣")
	}

	return retryScheduler
}

func runHTTPServer(ctx context.Context, config util.Config, store db.Store, redisDb *redis.Client, notificationService *notification.Service, taskDistributor worker.TaskDistributor, taskInspector worker.TaskInspector, eventSender event.EventSender, phoneService *phone_number.PhoneNumberService) {
	server, err := api.NewServer(store, redisDb, notificationService, taskDistributor, taskInspector, &config, eventSender, phoneService)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create HTTP server 😣")
	}

	httpServer := &http.Server{
		Addr:    config.HTTPServerAddress,
		Handler: server.Handler(),
	}

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Err(err).Msg("failed to shut down HTTP server")
		}
	}()

	log.Info().Str("address", config.HTTPServerAddress).Msg("start HTTP server")
	err = httpServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("failed to start HTTP server 😣")
	}
}
