// Package service assembles read models and performs video platform mutations.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vidstream/video-platform-go/internal/db/models"
	"github.com/vidstream/video-platform-go/internal/db/repository"
	"github.com/vidstream/video-platform-go/internal/events"
	"github.com/vidstream/video-platform-go/internal/media"
	"github.com/vidstream/video-platform-go/internal/validation"
	"github.com/vidstream/video-platform-go/internal/viewer"
	"github.com/vidstream/video-platform-go/pkg/logger"
)

// OrphanQueue hands unreferenced stored objects to background cleanup.
type OrphanQueue interface {
	EnqueueOrphanRemoval(ctx context.Context, storageID, reason string) error
}

// Policy holds access decisions that are configuration rather than code.
type Policy struct {
	// OwnerOnlyPreview limits unpublished videos to their owner. When false
	// any authenticated viewer may open them.
	OwnerOnlyPreview bool
}

// Dependencies are the collaborators shared by all services. Each service
// uses only the fields it needs.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type Dependencies struct {
	Videos        repository.VideoRepository
	Users         repository.UserRepository
	Likes         repository.LikeRepository
	Subscriptions repository.SubscriptionRepository
	Comments      repository.CommentRepository
	History       repository.WatchHistoryRepository
	Media         media.Provider
	Orphans       OrphanQueue
	Events        events.Publisher
	Validator     *validation.Validator
	Policy        Policy
	// Now defaults to time.Now.
	Now func() time.Time
}

func (d *Dependencies) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// Pagination describes one page of a listing.
type Pagination struct {
	Total       int  `json:"total"`
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	TotalPages  int  `json:"totalPages"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

func newPagination(p validation.Page, total int) Pagination {
	totalPages := p.TotalPages(total)
	return Pagination{
		Total:       total,
		Page:        p.Page,
		Limit:       p.Limit,
		TotalPages:  totalPages,
		HasNextPage: p.Page < totalPages,
		HasPrevPage: p.Page > 1,
	}
}

// VideoPage is a page of video listing entries.
type VideoPage struct {
	Videos []*models.VideoListItem `json:"videos"`
	Pagination
}

// UserPage is a page of user summaries.
type UserPage struct {
	Users []*models.UserSummary `json:"users"`
	Pagination
}

func requireViewer(v *viewer.Viewer) *Error {
	if v == nil {
		return Unauthorized("authentication required")
	}
	return nil
}

func parseID(field, raw string) (uuid.UUID, *Error) {
	id, err := validation.ParseID(field, raw)
	if err != nil {
		return uuid.Nil, Validation("%s", err.Error())
	}
	return id, nil
}

func (d *Dependencies) page(page, limit int) (validation.Page, *Error) {
	p, err := d.Validator.Page(page, limit)
	if err != nil {
		return validation.Page{}, Validation("%s", err.Error())
	}
	return p, nil
}

// canView reports whether v may see video. Published videos are public;
// unpublished ones are never visible to guests.
func canView(video *models.Video, v *viewer.Viewer, policy Policy) bool {
	if video.IsPublished {
		return true
	}
	if v == nil {
		return false
	}
	return !policy.OwnerOnlyPreview || v.Is(video.OwnerID)
}

// publish sends a domain event. Delivery failures are logged and never fail
// the operation that already committed.
func (d *Dependencies) publish(ctx context.Context, eventType string, data any) {
	if d.Events == nil {
		return
	}
	if err := d.Events.Publish(ctx, events.NewEvent(eventType, data)); err != nil {
		logger.Log.Warn("Failed to publish event",
			zap.String("eventType", eventType),
			zap.Error(err),
		)
	}
}

// orphan hands stored objects to the cleanup queue. They are left in place
// when the queue is unavailable.
func (d *Dependencies) orphan(ctx context.Context, reason string, storageIDs ...string) {
	for _, id := range storageIDs {
		if id == "" {
			continue
		}
		if d.Orphans == nil {
			logger.Log.Warn("Orphaned media left in place", zap.String("storageId", id), zap.String("reason", reason))
			continue
		}
		if err := d.Orphans.EnqueueOrphanRemoval(ctx, id, reason); err != nil {
			logger.Log.Error("Failed to enqueue orphaned media",
				zap.String("storageId", id),
				zap.String("reason", reason),
				zap.Error(err),
			)
		}
	}
}
