package queue

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/vidstream/video-platform-go/pkg/logger"
)

// Server wraps asynq server for processing media tasks
type Server struct {
	asynqServer *asynq.Server
	mux         *asynq.ServeMux
}

// NewServer creates a new task processing server
func NewServer(redisURL string, concurrency int, orphans *OrphanHandler) (*Server, error) {
	redisOpt, err := ParseRedisURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if concurrency <= 0 {
		concurrency = 4
	}

	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			QueueMedia: 10,
		},
		StrictPriority: false,
		ErrorHandler:   asynq.ErrorHandlerFunc(logTaskError),
	})

	return &Server{asynqServer: srv, mux: NewServeMux(orphans)}, nil
}

func logTaskError(ctx context.Context, task *asynq.Task, err error) {
	retried, _ := asynq.GetRetryCount(ctx)
	maxRetry, _ := asynq.GetMaxRetry(ctx)
	logger.Log.Error("Task failed",
		zap.String("type", task.Type()),
		zap.Int("retry", retried),
		zap.Int("maxRetry", maxRetry),
		zap.Error(err),
	)
}

// Start starts the server without blocking
func (s *Server) Start() error {
	logger.Log.Info("Starting task processing server")
	return s.asynqServer.Start(s.mux)
}

// Stop gracefully stops the server
func (s *Server) Stop() {
	logger.Log.Info("Shutting down task processing server")
	s.asynqServer.Shutdown()
}
