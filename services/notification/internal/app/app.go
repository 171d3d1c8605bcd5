package internal

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"event-booking/pkg/cache"
	"event-booking/pkg/config"
	"event-booking/pkg/logger"
	"event-booking/pkg/metrics"
	"event-booking/pkg/notify"
	"event-booking/pkg/queue"
	notificationHTTP "event-booking/services/notification/internal/controller/http"
	"event-booking/services/notification/internal/mailer"
	"event-booking/services/notification/internal/repo/persistent"
	"event-booking/services/notification/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "event-booking/services/notification/docs" // Swagger docs
)

type App struct {
	cfg         *config.Config
	log         *logger.Logger
	redisClient *redis.Client
	conn        queue.Connection
	consumer    *queue.Consumer
	transport   mailer.Transport
	metrics     *metrics.Metrics
	httpServer  *http.Server

	stopConsumer context.CancelFunc
	consumerDone chan struct{}
}

func NewApp(cfg *config.Config) (*App, error) {
	log := logger.NewWithFile(cfg.LogFile).With("service", "notification")
	m := metrics.New("notification")

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		// Delivery history is optional
		log.Warn("Failed to connect to redis: %v (delivery history disabled)", err)
		redisClient = nil
	}

	transport, err := mailer.NewTransport(cfg, log)
	if err != nil {
		log.Error("Failed to configure mail transport: %v", err)
		return nil, err
	}

	conn, err := queue.DialAMQP(cfg.RabbitMQURL)
	if err != nil {
		log.Error("Failed to connect to RabbitMQ: %v", err)
		return nil, err
	}

	consumer := queue.NewConsumer(conn, cfg.Queue, cfg.QueueDurable, log,
		queue.WithRejectHook(func(error) {
			m.ObserveJob("", metrics.OutcomeInvalid)
		}),
	)

	return &App{
		cfg:         cfg,
		log:         log,
		redisClient: redisClient,
		conn:        conn,
		consumer:    consumer,
		transport:   transport,
		metrics:     m,
	}, nil
}

func (a *App) Run() error {
	var deliveryRepo persistent.DeliveryRepository
	if a.redisClient != nil {
		deliveryRepo = persistent.NewDeliveryRepository(a.redisClient)
	}

	notificationUseCase := usecase.NewNotificationUseCase(
		a.transport,
		deliveryRepo,
		a.consumer,
		a.cfg.MailFrom,
		a.cfg.MailRateLimit,
		a.log,
	)

	notificationHandler := notificationHTTP.NewNotificationHandler(notificationUseCase, a.log)

	r := gin.New()
	r.Use(gin.Recovery(), a.metrics.GinMiddleware())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     a.cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(a.metrics.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	{
		api.GET("/notifications/queue", notificationHandler.GetQueueStatus)
		api.GET("/notifications/deliveries", notificationHandler.GetDeliveries)
	}

	a.httpServer = &http.Server{
		Addr:    ":" + a.cfg.ServerPort,
		Handler: r,
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.stopConsumer = cancel
	a.consumerDone = make(chan struct{})

	go func() {
		defer close(a.consumerDone)
		a.log.Info("Starting notification queue consumer on %s...", a.cfg.Queue)
		err := a.consumer.Consume(ctx, a.handleJob(notificationUseCase))
		if err != nil && !errors.Is(err, context.Canceled) {
			a.log.Error("Notification queue consumer stopped: %v", err)
		}
	}()

	go func() {
		a.log.Info("Notification service starting on port %s", a.cfg.ServerPort)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	return nil
}

func (a *App) handleJob(uc usecase.NotificationUseCase) queue.Handler {
	return func(ctx context.Context, job notify.Job) error {
		pattern := string(job.Pattern())
		a.metrics.ObserveJob(pattern, metrics.OutcomeReceived)

		if err := uc.Dispatch(ctx, job); err != nil {
			a.metrics.ObserveJob(pattern, metrics.OutcomeFailed)
			return err
		}

		a.metrics.ObserveJob(pattern, metrics.OutcomeSent)
		return nil
	}
}

func (a *App) Wait() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	a.log.Info("Shutting down notification service...")
}

func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Let the in-flight job finish before closing the broker connection
	if a.stopConsumer != nil {
		a.stopConsumer()
		select {
		case <-a.consumerDone:
		case <-ctx.Done():
			a.log.Warn("Timed out waiting for in-flight notification job")
		}
	}

	if err := a.consumer.Close(); err != nil {
		a.log.Error("Error closing RabbitMQ connection: %v", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Error("Error closing Redis: %v", err)
		}
	}

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.log.Error("Server forced to shutdown: %v", err)
		return err
	}

	a.log.Info("Notification service exited")
	_ = a.log.Sync()
	return nil
}
