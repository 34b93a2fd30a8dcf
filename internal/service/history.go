package service

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/vidstream/video-platform-go/internal/db/models"
	"github.com/vidstream/video-platform-go/internal/events"
	"github.com/vidstream/video-platform-go/internal/metrics"
	"github.com/vidstream/video-platform-go/internal/viewer"
	"github.com/vidstream/video-platform-go/pkg/logger"
)

// HistoryService records and lists what viewers have watched.
type HistoryService struct {
	deps Dependencies
}

// NewHistoryService creates a new HistoryService.
func NewHistoryService(deps Dependencies) *HistoryService {
	return &HistoryService{deps: deps}
}

// WatchHistoryPage is a page of a viewer's watch history.
type WatchHistoryPage struct {
	Entries []*models.WatchedVideo `json:"history"`
	Pagination
}

// RecordView records that v watched the video now. The first view by a
// viewer increments the video's view counter; repeat views only refresh the
// entry's timestamp.
func (s *HistoryService) RecordView(ctx context.Context, v *viewer.Viewer, rawVideoID string) (*models.WatchHistoryEntry, error) {
	if err := requireViewer(v); err != nil {
		return nil, err
	}
	videoID, verr := parseID("videoId", rawVideoID)
	if verr != nil {
		return nil, verr
	}

	video, err := s.deps.Videos.GetByID(ctx, videoID)
	if err != nil {
		return nil, storeError(err, videoNotFound)
	}
	if !canView(video, v, s.deps.Policy) {
		return nil, NotFound(videoNotFound)
	}

	entry, firstView, err := s.deps.History.Record(ctx, v.ID, videoID, s.deps.now())
	if err != nil {
		return nil, storeError(err, videoNotFound)
	}

	metrics.ViewsRecorded.WithLabelValues(strconv.FormatBool(firstView)).Inc()
	logger.Log.Debug("View recorded",
		zap.String("userId", v.ID.String()),
		zap.String("videoId", videoID.String()),
		zap.Bool("firstView", firstView),
	)

	if firstView {
		s.deps.publish(ctx, events.VideoViewed, events.VideoViewedData{
			VideoID: videoID,
			UserID:  v.ID,
		})
	}

	return entry, nil
}

// GetWatchHistory lists v's history, most recently watched first. Entries
// whose video has been deleted are skipped.
func (s *HistoryService) GetWatchHistory(ctx context.Context, v *viewer.Viewer, page, limit int) (*WatchHistoryPage, error) {
	if err := requireViewer(v); err != nil {
		return nil, err
	}
	p, perr := s.deps.page(page, limit)
	if perr != nil {
		return nil, perr
	}

	entries, total, err := s.deps.History.List(ctx, v.ID, p.Limit, p.Offset())
	if err != nil {
		return nil, Upstream("failed to load watch history", err)
	}
	if entries == nil {
		entries = []*models.WatchedVideo{}
	}

	return &WatchHistoryPage{Entries: entries, Pagination: newPagination(p, total)}, nil
}
