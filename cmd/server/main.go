package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/clipstack/video-service/internal/config"
	"github.com/clipstack/video-service/internal/db"
	"github.com/clipstack/video-service/internal/handler"
	"github.com/clipstack/video-service/internal/metrics"
	"github.com/clipstack/video-service/internal/repository"
	"github.com/clipstack/video-service/internal/service"
	"github.com/clipstack/video-service/internal/storage"
	"github.com/clipstack/video-service/internal/validation"
	"github.com/clipstack/video-service/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	pool, err := db.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close(pool)

	store, err := storage.NewMinIOStore(cfg.Storage, nil)
	if err != nil {
		logger.Log.Fatal("Failed to initialize media storage", zap.Error(err))
	}

	// Event publishing is optional; an empty host disables it.
	var publisher service.EventPublisher
	if cfg.RabbitMQ.Host != "" {
		rmq, err := service.NewRabbitMQPublisher(&cfg.RabbitMQ)
		if err != nil {
			logger.Log.Warn("Event publishing disabled: broker unavailable", zap.Error(err))
		} else {
			publisher = rmq
			defer func() { _ = rmq.Close() }()
		}
	}

	videoRepo := repository.NewVideoRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	likeRepo := repository.NewLikeRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)

	videoService := service.NewVideoService(videoRepo, userRepo, store, publisher)
	videoService.RegisterCleanup(service.NewStorageCleanup(store))
	videoService.RegisterCleanup(service.NewEngagementCleanup(likeRepo, commentRepo))

	validator := validation.New(cfg.Upload)
	videoHandler := handler.NewVideoHandler(videoService, validator, cfg.Upload.TempDir)
	healthHandler := handler.NewHealthHandler(pool, publisher)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(metrics.RequestMetrics())

	videoHandler.RegisterRoutes(router.Group("/api/v1"))
	router.GET("/health/live", healthHandler.LivenessProbe)
	router.GET("/health/ready", healthHandler.ReadinessProbe)
	router.GET("/metrics", metrics.Handler())

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Log.Info("Server starting", zap.Int("port", cfg.Server.Port))
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Log.Fatal("Server error", zap.Error(err))
	case sig := <-shutdown:
		logger.Log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("Graceful shutdown failed", zap.Error(err))
			if err := server.Close(); err != nil {
				logger.Log.Error("Failed to close server", zap.Error(err))
			}
			os.Exit(1)
		}

		logger.Log.Info("Server stopped gracefully")
	}
}
