package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vidstream/video-platform-go/internal/db/models"
	"github.com/vidstream/video-platform-go/internal/db/repository"
	"github.com/vidstream/video-platform-go/internal/metrics"
	"github.com/vidstream/video-platform-go/pkg/logger"
)

// ListVideosQuery holds the raw listing parameters. Zero values select
// the defaults.
type ListVideosQuery struct {
	Page     int
	Limit    int
	Query    string
	OwnerID  string
	SortBy   string
	SortType string
}

// FeedService lists published videos.
type FeedService struct {
	deps Dependencies
}

// NewFeedService creates a new FeedService.
func NewFeedService(deps Dependencies) *FeedService {
	return &FeedService{deps: deps}
}

// ListVideos returns one page of published videos with owner summaries.
// Pages past the end are empty rather than an error.
func (s *FeedService) ListVideos(ctx context.Context, q ListVideosQuery) (*VideoPage, error) {
	defer metrics.ObserveAssembly("video_feed", time.Now())

	p, perr := s.deps.page(q.Page, q.Limit)
	if perr != nil {
		return nil, perr
	}

	filters := &repository.VideoFilters{
		Limit:  p.Limit,
		Offset: p.Offset(),
		Query:  strings.TrimSpace(q.Query),
	}

	if q.OwnerID != "" {
		ownerID, verr := parseID("userId", q.OwnerID)
		if verr != nil {
			return nil, verr
		}
		filters.OwnerID = &ownerID
	}

	sort, err := s.deps.Validator.VideoSort(q.SortBy, q.SortType)
	if err != nil {
		return nil, Validation("%s", err.Error())
	}
	filters.OrderBy = sort.Field
	filters.OrderDir = sort.Direction

	videos, total, err := s.deps.Videos.List(ctx, filters)
	if err != nil {
		logger.Log.Error("Failed to list videos", zap.Error(err))
		return nil, Upstream("failed to list videos", err)
	}
	if videos == nil {
		videos = []*models.VideoListItem{}
	}

	return &VideoPage{Videos: videos, Pagination: newPagination(p, total)}, nil
}
