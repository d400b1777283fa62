package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/SPMS-2025/progress-service/internal/cache"
	"github.com/SPMS-2025/progress-service/internal/codeforces"
	"github.com/SPMS-2025/progress-service/internal/config"
	"github.com/SPMS-2025/progress-service/internal/events"
	"github.com/SPMS-2025/progress-service/internal/handlers"
	"github.com/SPMS-2025/progress-service/internal/mailer"
	"github.com/SPMS-2025/progress-service/internal/repositories/postgres"
	"github.com/SPMS-2025/progress-service/internal/scheduler"
	"github.com/SPMS-2025/progress-service/internal/services"
	"github.com/SPMS-2025/progress-service/internal/utils"
	"github.com/SPMS-2025/progress-service/internal/validator"
	"github.com/SPMS-2025/progress-service/pkg"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	slogLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	logger := utils.NewSlogLogger(slogLogger)

	// Initialize database
	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Initialize Redis (if configured)
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = pkg.NewRedisClient(cfg)
		if err != nil {
			log.Printf("Warning: Failed to initialize Redis: %v", err)
			redisClient = nil
		}
	}

	// Initialize repositories
	repo := postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{
		DB:          db,
		RedisClient: redisClient,
	})

	var cacheHelper *cache.CacheHelper
	if redisClient != nil {
		cacheHelper = cache.NewCacheHelper(redisClient, "progress")
	}

	// Initialize Codeforces client and mailer
	fetcher := codeforces.NewClient(
		cfg.CodeforcesBaseURL,
		time.Duration(cfg.CodeforcesTimeoutSeconds)*time.Second,
		cfg.SubmissionFetchCount,
	)
	smtpMailer := mailer.NewSMTPMailer(cfg.SMTP)

	// Initialize event publisher (Kafka when brokers are configured)
	var publisher events.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.EventTopic, slogLogger)
		if err != nil {
			log.Fatalf("Failed to initialize Kafka publisher: %v", err)
		}
	} else {
		publisher = events.NewGoChannelPublisher(cfg.EventTopic, slogLogger)
	}

	// Initialize validator
	v := validator.New()

	// Initialize services
	serviceManager := services.NewServiceManager(repo, fetcher, smtpMailer, publisher, cacheHelper, v, slogLogger, services.ServiceManagerConfig{
		Auth: services.AuthConfig{
			Secret:           cfg.JWTSecret,
			SignupTokenHours: cfg.SignupTokenHours,
			SigninTokenHours: cfg.SigninTokenHours,
		},
		ContactInbox:         cfg.ContactInbox,
		InactivityWindowDays: cfg.InactivityWindowDays,
	})

	// Initialize handlers
	handlerManager := handlers.NewHandlerManager(serviceManager, logger)

	// Setup Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handlers.SetupMiddleware(router, logger)
	handlerManager.SetupRoutes(router)

	// Start the nightly sync scheduler
	cron := scheduler.New(serviceManager.Sync(), slogLogger, cfg.SyncCronSpec)
	if err := cron.Start(); err != nil {
		log.Fatalf("Failed to start sync scheduler: %v", err)
	}

	// Create HTTP server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	// Stop the scheduler and wait for an in-flight sync to finish
	cron.Stop()

	// Close event publisher
	if err := publisher.Close(); err != nil {
		log.Printf("Failed to close event publisher: %v", err)
	}

	// Close database connection
	if err := repo.Close(); err != nil {
		log.Printf("Failed to close repositories: %v", err)
	}

	// Close Redis connection
	if redisClient != nil {
		redisClient.Close()
	}

	logger.Info("Server exited")
}
