package internal

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"event-booking/pkg/cache"
	"event-booking/pkg/config"
	"event-booking/pkg/database"
	"event-booking/pkg/jwt"
	"event-booking/pkg/logger"
	"event-booking/pkg/metrics"
	"event-booking/pkg/middleware"
	"event-booking/pkg/queue"
	"event-booking/pkg/s3"
	"event-booking/services/core/internal/calendar"
	coreHTTP "event-booking/services/core/internal/controller/http"
	"event-booking/services/core/internal/repo/persistent"
	"event-booking/services/core/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "event-booking/services/core/docs" // Swagger docs
)

type App struct {
	cfg         *config.Config
	log         *logger.Logger
	db          *gorm.DB
	redisClient *redis.Client
	s3Client    *s3.Client
	calendar    calendar.Client
	jwtService  *jwt.Service
	publisher   queue.Publisher
	metrics     *metrics.Metrics
	httpServer  *http.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	log := logger.NewWithFile(cfg.LogFile).With("service", "core")

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		return nil, err
	}

	// Without redis the event cache is skipped and calendar sync is off
	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Warn("Redis unavailable, running without event cache and calendar sync: %v", err)
		redisClient = nil
	}

	var s3Client *s3.Client
	if cfg.AWSAccessKeyID != "" {
		s3Client, err = s3.NewClient(cfg)
		if err != nil {
			log.Warn("S3 client unavailable, banner uploads disabled: %v", err)
			s3Client = nil
		} else if err := s3Client.EnsureBucket(context.Background()); err != nil {
			log.Warn("Failed to ensure bucket %s: %v", cfg.S3BucketName, err)
		}
	}

	var calendarClient calendar.Client
	if cfg.OAuthClientID != "" && redisClient != nil {
		calendarClient = calendar.NewGoogleClient(calendar.GoogleConfig{
			ClientID:     cfg.OAuthClientID,
			ClientSecret: cfg.OAuthClientSecret,
			RedirectURL:  cfg.OAuthRedirectURL,
		})
	}

	jwtService := jwt.NewService(cfg.JWTSecret,
		jwt.WithRefreshSecret(cfg.JWTRefreshSecret),
		jwt.WithTTL(cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
	)

	m := metrics.New("core")
	publisher := queue.Observe(queue.NewRabbitMQPublisher(cfg.RabbitMQURL, nil, log), m.ObservePublish)

	return &App{
		cfg:         cfg,
		log:         log,
		db:          db,
		redisClient: redisClient,
		s3Client:    s3Client,
		calendar:    calendarClient,
		jwtService:  jwtService,
		publisher:   publisher,
		metrics:     m,
	}, nil
}

func (a *App) Run() error {
	eventRepo := persistent.NewEventRepository(a.db)
	bookingRepo := persistent.NewBookingRepository(a.db)

	var (
		eventCache   persistent.EventCache
		calendarRepo persistent.CalendarRepository
		banners      usecase.BannerStore
	)
	if a.redisClient != nil {
		eventCache = persistent.NewEventCache(a.redisClient, persistent.EventCacheTTL)
		calendarRepo = persistent.NewCalendarRepository(a.redisClient)
	}
	if a.s3Client != nil {
		banners = a.s3Client
	}

	eventUseCase := usecase.NewEventUseCase(eventRepo, eventCache, banners, a.publisher, a.cfg.Queue, a.log)
	calendarUseCase := usecase.NewCalendarUseCase(a.calendar, calendarRepo, a.log)
	bookingUseCase := usecase.NewBookingUseCase(bookingRepo, eventRepo, calendarUseCase, a.publisher, a.cfg.Queue, a.log)

	eventHandler := coreHTTP.NewEventHandler(eventUseCase, a.log)
	bookingHandler := coreHTTP.NewBookingHandler(bookingUseCase, a.log)
	calendarHandler := coreHTTP.NewCalendarHandler(calendarUseCase, a.log)

	r := gin.New()
	r.Use(gin.Recovery(), a.metrics.GinMiddleware())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     a.cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
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

	authMiddleware := middleware.AuthMiddleware(a.jwtService)

	api := r.Group("/api/v1")

	events := api.Group("/events")
	{
		events.GET("/day/:day", eventHandler.GetEventsByDay)
		events.GET("/month/:month", eventHandler.GetEventsByMonth)

		protected := events.Group("")
		protected.Use(authMiddleware)
		{
			protected.GET("/organizer/:organizerId", eventHandler.GetOrganizerEvents)
			protected.GET("/:eventId", eventHandler.GetEvent)
			protected.POST("", eventHandler.CreateEvent)
			protected.PATCH("/:eventId", eventHandler.UpdateEvent)
			protected.DELETE("/:eventId", eventHandler.DeleteEvent)
			protected.PATCH("/:eventId/price", eventHandler.SetSeatPrice)
			protected.POST("/:eventId/banner", eventHandler.UploadBanner)
		}
	}

	bookings := api.Group("/bookings")
	bookings.Use(authMiddleware)
	{
		bookings.GET("/me", bookingHandler.GetMyBookings)
		bookings.POST("/free", bookingHandler.BookFreeEvent)
		bookings.POST("/paid", bookingHandler.BookPaidEvent)
		bookings.DELETE("/:bookingId", bookingHandler.CancelBooking)
	}

	cal := api.Group("/calendar")
	{
		// Google redirects the browser here without our bearer token
		cal.GET("/callback", calendarHandler.Callback)
		cal.GET("/connect", authMiddleware, calendarHandler.Connect)
		cal.DELETE("/connection", authMiddleware, calendarHandler.Disconnect)
	}

	a.httpServer = &http.Server{
		Addr:    ":" + a.cfg.ServerPort,
		Handler: r,
	}

	go func() {
		a.log.Info("Core service starting on port %s", a.cfg.ServerPort)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	return nil
}

func (a *App) Wait() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	a.log.Info("Shutting down core service...")
}

func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.log.Error("Server forced to shutdown: %v", err)
		return err
	}

	if err := database.Close(a.db); err != nil {
		a.log.Error("Error closing database: %v", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Error("Error closing Redis: %v", err)
		}
	}

	a.log.Info("Core service exited")
	_ = a.log.Sync()
	return nil
}
