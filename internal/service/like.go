package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/vidstream/video-platform-go/internal/db"
	"github.com/vidstream/video-platform-go/internal/db/models"
	"github.com/vidstream/video-platform-go/internal/events"
	"github.com/vidstream/video-platform-go/internal/viewer"
	"github.com/vidstream/video-platform-go/pkg/logger"
)

// LikeService manages video likes.
type LikeService struct {
	deps Dependencies
}

// NewLikeService creates a new LikeService.
func NewLikeService(deps Dependencies) *LikeService {
	return &LikeService{deps: deps}
}

// ToggleVideoLike likes the video for v, or removes the like when one
// exists. It reports whether v likes the video afterwards.
func (s *LikeService) ToggleVideoLike(ctx context.Context, v *viewer.Viewer, rawVideoID string) (bool, error) {
	if err := requireViewer(v); err != nil {
		return false, err
	}
	videoID, verr := parseID("videoId", rawVideoID)
	if verr != nil {
		return false, verr
	}

	video, err := s.deps.Videos.GetByID(ctx, videoID)
	if err != nil {
		return false, storeError(err, videoNotFound)
	}
	if !canView(video, v, s.deps.Policy) {
		return false, NotFound(videoNotFound)
	}

	removed, err := s.deps.Likes.Delete(ctx, videoID, v.ID)
	if err != nil {
		return false, storeError(err, videoNotFound)
	}

	liked := !removed
	if liked {
		if err := s.deps.Likes.Create(ctx, models.NewLike(videoID, v.ID)); err != nil && !db.IsDuplicateKey(err) {
			return false, storeError(err, videoNotFound)
		}
	}

	logger.Log.Debug("Like toggled",
		zap.String("videoId", videoID.String()),
		zap.String("userId", v.ID.String()),
		zap.Bool("liked", liked),
	)
	s.deps.publish(ctx, events.VideoLiked, events.VideoLikedData{
		VideoID: videoID,
		UserID:  v.ID,
		Liked:   liked,
	})

	return liked, nil
}

// ListLikedVideos lists the published videos v has liked, most recent
// like first.
func (s *LikeService) ListLikedVideos(ctx context.Context, v *viewer.Viewer, page, limit int) (*VideoPage, error) {
	if err := requireViewer(v); err != nil {
		return nil, err
	}
	p, perr := s.deps.page(page, limit)
	if perr != nil {
		return nil, perr
	}

	videos, total, err := s.deps.Likes.ListLikedVideos(ctx, v.ID, p.Limit, p.Offset())
	if err != nil {
		return nil, Upstream("failed to load liked videos", err)
	}
	if videos == nil {
		videos = []*models.VideoListItem{}
	}

	return &VideoPage{Videos: videos, Pagination: newPagination(p, total)}, nil
}
