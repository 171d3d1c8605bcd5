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
	authHTTP "event-booking/services/auth/internal/controller/http"
	"event-booking/services/auth/internal/repo/persistent"
	"event-booking/services/auth/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "event-booking/services/auth/docs" // Swagger docs
)

type App struct {
	cfg         *config.Config
	log         *logger.Logger
	db          *gorm.DB
	redisClient *redis.Client
	jwtService  *jwt.Service
	publisher   queue.Publisher
	metrics     *metrics.Metrics
	httpServer  *http.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	log := logger.NewWithFile(cfg.LogFile).With("service", "auth")

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		return nil, err
	}

	// OTPs and rate limits live in redis, so it is required here
	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("Failed to connect to redis: %v", err)
		return nil, err
	}

	jwtService := jwt.NewService(cfg.JWTSecret,
		jwt.WithRefreshSecret(cfg.JWTRefreshSecret),
		jwt.WithTTL(cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
	)

	m := metrics.New("auth")
	publisher := queue.Observe(queue.NewRabbitMQPublisher(cfg.RabbitMQURL, nil, log), m.ObservePublish)

	return &App{
		cfg:         cfg,
		log:         log,
		db:          db,
		redisClient: redisClient,
		jwtService:  jwtService,
		publisher:   publisher,
		metrics:     m,
	}, nil
}

func (a *App) Run() error {
	userRepo := persistent.NewUserRepository(a.db)
	otpRepo := persistent.NewOtpRepository(a.redisClient)

	authUseCase := usecase.NewAuthUseCase(
		userRepo,
		otpRepo,
		a.jwtService,
		a.publisher,
		a.cfg.Queue,
		a.cfg.OtpTTL,
		a.log,
	)

	authHandler := authHTTP.NewAuthHandler(authUseCase, a.log)

	r := gin.New()
	r.Use(gin.Recovery(), a.metrics.GinMiddleware())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     a.cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
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
	otpLimit := middleware.RateLimitMiddleware(a.redisClient, a.cfg.RateLimitRequests, a.cfg.RateLimitWindow)

	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh-token", authHandler.RefreshToken)
		auth.POST("/send-reset-password-otp", otpLimit, authHandler.SendResetPasswordOtp)
		auth.PATCH("/reset-password", otpLimit, authHandler.ResetPassword)

		protected := auth.Group("")
		protected.Use(authMiddleware)
		{
			protected.GET("/me", authHandler.Me)
			protected.POST("/change-password/:userId", authHandler.ChangePassword)
			protected.POST("/send-verification-otp", otpLimit, authHandler.SendVerificationOtp)
			protected.PATCH("/verify-user", otpLimit, authHandler.VerifyUser)
		}
	}

	a.httpServer = &http.Server{
		Addr:    ":" + a.cfg.ServerPort,
		Handler: r,
	}

	go func() {
		a.log.Info("Auth service starting on port %s", a.cfg.ServerPort)
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
	a.log.Info("Shutting down auth service...")
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

	if err := a.redisClient.Close(); err != nil {
		a.log.Error("Error closing Redis: %v", err)
	}

	a.log.Info("Auth service exited")
	_ = a.log.Sync()
	return nil
}
