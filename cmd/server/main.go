// @title           Video Upscaler API
// @version         1.0.0
// @description     Backend API for AI video upscaling. Uploads source videos to the CDN, registers Replicate predictions, receives their webhooks into the job store and keeps a per-user history of finished jobs.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"video-upscaler-backend/docs"
	"video-upscaler-backend/internal/cdn"
	"video-upscaler-backend/internal/config"
	"video-upscaler-backend/internal/events"
	"video-upscaler-backend/internal/handlers"
	"video-upscaler-backend/internal/history"
	"video-upscaler-backend/internal/jobstore"
	"video-upscaler-backend/internal/middleware"
	"video-upscaler-backend/internal/predictor"
	"video-upscaler-backend/internal/retry"
	"video-upscaler-backend/internal/services"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, closeLog := config.SetupLogger(cfg)
	defer closeLog()
	slog.SetDefault(logger)

	logger.Info("Starting video upscaler API",
		slog.String("environment", cfg.Environment),
		slog.String("cdn_provider", cfg.CDNProvider),
		slog.String("history_backend", cfg.HistoryBackend),
	)

	ctx := context.Background()

	jobs, err := jobstore.NewRedisStore(cfg.RedisURL, cfg.JobTTL)
	if err != nil {
		return fmt.Errorf("failed to initialize job store: %w", err)
	}
	defer jobs.Close()
	if err := jobs.Ping(ctx); err != nil {
		logger.Warn("Job store not reachable at startup", slog.Any("error", err))
	}

	historyStore, err := initHistory(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize history store: %w", err)
	}
	defer historyStore.Close(context.Background())

	uploader, err := initUploader(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize CDN uploader: %w", err)
	}

	replicateClient, err := predictor.NewReplicateClient(cfg.ReplicateAPIToken, cfg.ReplicateModelVersion)
	if err != nil {
		return err
	}

	publisher := initPublisher(cfg, logger)
	defer publisher.Close()

	var verifier *handlers.WebhookVerifier
	if cfg.ReplicateWebhookSecret != "" {
		verifier, err = handlers.NewWebhookVerifier(cfg.ReplicateWebhookSecret)
		if err != nil {
			return fmt.Errorf("invalid REPLICATE_WEBHOOK_SECRET: %w", err)
		}
	} else {
		logger.Warn("REPLICATE_WEBHOOK_SECRET not set, webhook signatures are not verified")
	}

	router := initRouter(cfg, logger, handlers.Router{
		Replicate: handlers.NewReplicateHandler(services.NewSubmitter(uploader, replicateClient, jobs, cfg.WebhookURL(), logger), replicateClient),
		Status:    handlers.NewStatusHandler(jobs),
		Webhook: handlers.NewWebhookHandler(
			services.NewWebhookService(jobs, publisher, retry.Fixed(cfg.WebhookStoreAttempts, cfg.WebhookStoreDelay), logger),
			verifier,
			logger,
		),
		Media:   handlers.NewMediaHandler(services.NewMediaService(uploader, logger)),
		History: handlers.NewHistoryHandler(services.NewHistoryService(historyStore, logger)),
		Health:  handlers.NewHealthHandler(jobs),
		Auth:    middleware.AuthMiddleware(cfg),
		Logger:  logger,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to start", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	logger.Info("Server listening",
		slog.String("address", srv.Addr),
		slog.String("webhook_url", cfg.WebhookURL()),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", slog.Any("error", err))
		return err
	}

	logger.Info("Server shutdown complete")
	return nil
}

func initHistory(ctx context.Context, cfg *config.Config, logger *slog.Logger) (history.Store, error) {
	switch cfg.HistoryBackend {
	case config.HistoryPostgres:
		return history.NewPostgresStore(ctx, cfg.DatabaseURL, logger)
	default:
		store, err := history.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureIndexes(ctx); err != nil {
			logger.Warn("Failed to ensure history indexes", slog.Any("error", err))
		}
		return store, nil
	}
}

func initUploader(cfg *config.Config) (cdn.Uploader, error) {
	switch cfg.CDNProvider {
	case config.CDNSupabase:
		return cdn.NewSupabaseUploader(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.SupabaseStorageBucket), nil
	default:
		return cdn.NewCloudinaryUploader(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	}
}

// initPublisher falls back to dropping events when no broker is configured
// or reachable; the webhook path never depends on it.
func initPublisher(cfg *config.Config, logger *slog.Logger) events.Publisher {
	if cfg.AMQPURL == "" {
		return events.NopPublisher{}
	}
	publisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, logger)
	if err != nil {
		logger.Warn("Failed to connect to RabbitMQ, job events disabled", slog.Any("error", err))
		return events.NopPublisher{}
	}
	logger.Info("RabbitMQ connection established", slog.String("exchange", cfg.AMQPExchange))
	return publisher
}

func initRouter(cfg *config.Config, logger *slog.Logger, r handlers.Router) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r.Logger = logger
	engine := r.Engine()

	// Swagger documentation served from the public base URL
	if baseURL, err := url.Parse(cfg.WebhookBaseURL); err == nil && baseURL.Host != "" {
		docs.SwaggerInfo.Host = baseURL.Host
		if baseURL.Scheme == "https" {
			docs.SwaggerInfo.Schemes = []string{"https", "http"}
		} else {
			docs.SwaggerInfo.Schemes = []string{"http", "https"}
		}
	}
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return engine
}
