package queue

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/vidstream/video-platform-go/internal/media"
	"github.com/vidstream/video-platform-go/pkg/logger"
)

// OrphanHandler removes orphaned media objects.
type OrphanHandler struct {
	provider media.Provider
}

// NewOrphanHandler creates a new orphaned media task handler
func NewOrphanHandler(provider media.Provider) *OrphanHandler {
	return &OrphanHandler{provider: provider}
}

// ProcessTask implements asynq.Handler. Malformed payloads are not retried.
func (h *OrphanHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	payload, err := UnmarshalRemoveOrphanPayload(task.Payload())
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	if err := h.provider.Remove(ctx, payload.StorageID); err != nil {
		logger.Log.Warn("Orphaned media removal failed",
			zap.String("storageId", payload.StorageID),
			zap.Error(err),
		)
		return fmt.Errorf("remove %s: %w", payload.StorageID, err)
	}

	logger.Log.Info("Removed orphaned media",
		zap.String("storageId", payload.StorageID),
		zap.String("reason", payload.Reason),
	)

	return nil
}

// NewServeMux registers the task handlers served by the worker.
func NewServeMux(orphans *OrphanHandler) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.Handle(TypeRemoveOrphanMedia, orphans)
	return mux
}
