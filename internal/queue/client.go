package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/vidstream/video-platform-go/internal/metrics"
	"github.com/vidstream/video-platform-go/pkg/logger"
)

const orphanMaxRetry = 5

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
	Close() error
}

// Client wraps asynq client for enqueueing tasks
type Client struct {
	asynqClient enqueuer
}

// NewClient creates a new queue client
func NewClient(redisURL string) (*Client, error) {
	redisOpt, err := ParseRedisURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	return &Client{asynqClient: asynq.NewClient(redisOpt)}, nil
}

// Close closes the client connection
func (c *Client) Close() error {
	return c.asynqClient.Close()
}

// EnqueueOrphanRemoval schedules removal of a stored object that is no longer
// referenced, e.g. the surviving half of a failed upload pair.
func (c *Client) EnqueueOrphanRemoval(ctx context.Context, storageID, reason string) error {
	payload, err := NewRemoveOrphanTask(storageID, reason)
	if err != nil {
		return fmt.Errorf("failed to create task payload: %w", err)
	}

	payloadBytes, err := payload.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	task := asynq.NewTask(TypeRemoveOrphanMedia, payloadBytes)

	info, err := c.asynqClient.EnqueueContext(ctx, task,
		asynq.MaxRetry(orphanMaxRetry),
		asynq.Timeout(2*time.Minute),
		asynq.Queue(QueueMedia),
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	metrics.OrphanedMedia.Inc()
	logger.Log.Info("Enqueued orphaned media removal",
		zap.String("storageId", storageID),
		zap.String("reason", reason),
		zap.String("taskId", info.ID),
	)

	return nil
}
