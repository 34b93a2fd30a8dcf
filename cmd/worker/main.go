package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/vidstream/video-platform-go/internal/config"
	"github.com/vidstream/video-platform-go/internal/media"
	"github.com/vidstream/video-platform-go/internal/queue"
	"github.com/vidstream/video-platform-go/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Named("worker")

	if cfg.Redis.URL == "" {
		log.Fatal("redis.url is required for the media worker")
	}

	concurrency := cfg.Worker.Concurrency

	provider, err := media.NewMinIOProvider(context.Background(), media.MinIOConfig{
		Endpoint:      cfg.Storage.Endpoint,
		AccessKey:     cfg.Storage.AccessKey,
		SecretKey:     cfg.Storage.SecretKey,
		Bucket:        cfg.Storage.Bucket,
		UseSSL:        cfg.Storage.UseSSL,
		PublicBaseURL: cfg.Storage.PublicBaseURL,
	})
	if err != nil {
		log.Fatal("failed to initialize media storage", zap.Error(err))
	}

	server, err := queue.NewServer(cfg.Redis.URL, concurrency, queue.NewOrphanHandler(provider))
	if err != nil {
		log.Fatal("failed to create queue server", zap.Error(err))
	}

	if err := server.Start(); err != nil {
		log.Fatal("failed to start queue server", zap.Error(err))
	}

	log.Info("media worker started",
		zap.Int("concurrency", concurrency),
		zap.String("queue", queue.QueueMedia),
	)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	sig := <-shutdown
	log.Info("shutdown signal received", zap.String("signal", sig.String()))

	server.Stop()

	log.Info("media worker stopped")
}
