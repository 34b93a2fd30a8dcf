package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/vidstream/video-platform-go/internal/config"
	"github.com/vidstream/video-platform-go/internal/db"
	"github.com/vidstream/video-platform-go/internal/db/repository"
	"github.com/vidstream/video-platform-go/internal/events"
	"github.com/vidstream/video-platform-go/internal/handler"
	"github.com/vidstream/video-platform-go/internal/media"
	"github.com/vidstream/video-platform-go/internal/middleware"
	"github.com/vidstream/video-platform-go/internal/queue"
	"github.com/vidstream/video-platform-go/internal/service"
	"github.com/vidstream/video-platform-go/internal/validation"
	"github.com/vidstream/video-platform-go/pkg/logger"
)

const rateLimitCleanupInterval = time.Minute

func main() {
	// .env is optional; real environment variables win
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

	log := logger.Named("server")

	auth := middleware.NewViewerAuth(cfg.Auth.JWTSecret)
	if !auth.Enabled() {
		log.Warn("no JWT secret configured, every request is served as a guest",
			zap.String("env_var", "APP_AUTH_JWTSECRET"),
		)
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.Database.PoolConfig())
	if err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}
	defer pool.Close()

	log.Info("database connection established",
		zap.Int32("max_conns", pool.Config().MaxConns),
	)

	provider, err := media.NewMinIOProvider(ctx, media.MinIOConfig{
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

	var (
		publisher events.Publisher = events.NopPublisher{}
		broker    handler.BrokerHealth
	)
	if cfg.RabbitMQ.Enabled {
		rabbit, err := events.NewRabbitMQPublisher(&cfg.RabbitMQ)
		if err != nil {
			log.Warn("failed to connect to RabbitMQ, domain events will be dropped", zap.Error(err))
		} else {
			defer rabbit.Close()
			publisher = rabbit
			broker = rabbit
		}
	} else {
		log.Info("RabbitMQ disabled, domain events will be dropped")
	}

	// Orphaned media is only logged when Redis is unavailable
	var orphans service.OrphanQueue
	if cfg.Redis.URL != "" {
		queueClient, err := queue.NewClient(cfg.Redis.URL)
		if err != nil {
			log.Warn("failed to initialize queue client, orphaned media will not be removed",
				zap.Error(err),
			)
		} else {
			defer queueClient.Close()
			orphans = queueClient
		}
	}

	deps := service.Dependencies{
		Videos:        repository.NewVideoRepository(pool),
		Users:         repository.NewUserRepository(pool),
		Likes:         repository.NewLikeRepository(pool),
		Subscriptions: repository.NewSubscriptionRepository(pool),
		Comments:      repository.NewCommentRepository(pool),
		History:       repository.NewWatchHistoryRepository(pool),
		Media:         provider,
		Orphans:       orphans,
		Events:        publisher,
		Validator:     validation.New(cfg.Videos.DefaultPageSize, cfg.Videos.MaxPageSize),
		Policy:        service.Policy{OwnerOnlyPreview: cfg.Videos.OwnerOnlyPreview},
	}

	uploads := handler.NewUploads(cfg.Server.UploadDir)
	limiter := middleware.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)

	stopCleanup := make(chan struct{})
	go limiter.RunCleanup(rateLimitCleanupInterval, stopCleanup)
	defer close(stopCleanup)

	gin.SetMode(gin.ReleaseMode)
	engine := handler.NewRouter(handler.Router{
		Videos: handler.NewVideoHandler(
			service.NewVideoService(deps),
			service.NewFeedService(deps),
			service.NewHistoryService(deps),
			uploads,
		),
		Social: handler.NewSocialHandler(
			service.NewLikeService(deps),
			service.NewChannelService(deps),
		),
		Users:  handler.NewUserHandler(service.NewUserService(deps), uploads),
		Health: handler.NewHealthHandler(pool, broker),
		Middleware: []gin.HandlerFunc{
			middleware.RequestLogger(),
			limiter.Middleware(),
			auth.Middleware(),
		},
		MaxUploadSize: cfg.Server.MaxUploadSize,
	})

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      corsHandler(engine),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		log.Fatal("server error", zap.Error(err))
	case sig := <-shutdown:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", zap.Error(err))
			if err := server.Close(); err != nil {
				log.Error("failed to close server", zap.Error(err))
			}
			return
		}

		log.Info("server stopped gracefully")
	}
}
