package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vidstream/video-platform-go/internal/db/models"
	"github.com/vidstream/video-platform-go/internal/events"
	"github.com/vidstream/video-platform-go/internal/media"
	"github.com/vidstream/video-platform-go/internal/viewer"
	"github.com/vidstream/video-platform-go/pkg/logger"
)

// Media folders.
const (
	folderVideos     = "videos"
	folderThumbnails = "thumbnails"
	folderAvatars    = "avatars"
	folderCovers     = "covers"
)

// VideoService serves video detail and the owner mutations of videos.
type VideoService struct {
	deps Dependencies
}

// NewVideoService creates a new VideoService.
func NewVideoService(deps Dependencies) *VideoService {
	return &VideoService{deps: deps}
}

// PublishVideoInput is an upload already saved to local files.
type PublishVideoInput struct {
	Title             string
	Description       string
	Duration          float64
	VideoFilePath     string
	ThumbnailFilePath string
}

// UpdateVideoInput replaces metadata and optionally the thumbnail.
type UpdateVideoInput struct {
	Title             string
	Description       string
	ThumbnailFilePath string
}

// DeleteReport describes the dependent cleanup that followed a video delete.
type DeleteReport struct {
	VideoID         uuid.UUID `json:"videoId"`
	LikesRemoved    int64     `json:"likesRemoved"`
	CommentsRemoved int64     `json:"commentsRemoved"`
	// FailedMedia holds storage ids whose removal failed and were queued for cleanup.
	FailedMedia []string `json:"failedMedia,omitempty"`
}

// PublishVideo stores both media files concurrently and creates the video.
// When only one upload succeeds it is queued for removal and the call fails.
func (s *VideoService) PublishVideo(ctx context.Context, v *viewer.Viewer, in PublishVideoInput) (*models.Video, error) {
	if err := requireViewer(v); err != nil {
		return nil, err
	}
	if err := s.deps.Validator.VideoMetadata(in.Title, in.Description); err != nil {
		return nil, Validation("%s", err.Error())
	}
	if in.VideoFilePath == "" || in.ThumbnailFilePath == "" {
		return nil, Validation("video file and thumbnail are required")
	}
	if in.Duration < 0 {
		return nil, Validation("duration must not be negative")
	}

	stored, err := media.StoreAll(ctx, s.deps.Media,
		media.Upload{Folder: folderVideos, LocalPath: in.VideoFilePath},
		media.Upload{Folder: folderThumbnails, LocalPath: in.ThumbnailFilePath},
	)
	if err != nil {
		logger.Log.Error("Video media upload failed",
			zap.String("ownerId", v.ID.String()),
			zap.Error(err),
		)
		s.deps.orphan(ctx, "partial video upload", media.Stored(stored)...)
		return nil, Upstream("failed to upload media", err)
	}

	video := models.NewVideo(v.ID, strings.TrimSpace(in.Title), strings.TrimSpace(in.Description), in.Duration, *stored[0], *stored[1])
	if err := s.deps.Videos.Create(ctx, video); err != nil {
		logger.Log.Error("Failed to create video",
			zap.String("videoId", video.ID.String()),
			zap.Error(err),
		)
		s.deps.orphan(ctx, "video create failed", media.Stored(stored)...)
		return nil, Upstream("failed to save video", err)
	}

	created, err := s.deps.Videos.GetByID(ctx, video.ID)
	if err != nil {
		return nil, Internal("video was saved but could not be read back", err)
	}

	logger.Log.Info("Video published",
		zap.String("videoId", created.ID.String()),
		zap.String("ownerId", created.OwnerID.String()),
	)
	s.deps.publish(ctx, events.VideoPublished, events.VideoPublishedData{
		VideoID: created.ID,
		OwnerID: created.OwnerID,
		Title:   created.Title,
	})

	return created, nil
}

// UpdateVideo replaces title and description, and the thumbnail when a new
// one is supplied. The previous thumbnail is removed after the update commits.
func (s *VideoService) UpdateVideo(ctx context.Context, v *viewer.Viewer, rawID string, in UpdateVideoInput) (*models.Video, error) {
	video, err := s.ownedVideo(ctx, v, rawID)
	if err != nil {
		return nil, err
	}
	if err := s.deps.Validator.VideoMetadata(in.Title, in.Description); err != nil {
		return nil, Validation("%s", err.Error())
	}

	var oldThumbnail, newThumbnail string
	if in.ThumbnailFilePath != "" {
		thumb, err := s.deps.Media.Store(ctx, folderThumbnails, in.ThumbnailFilePath)
		if err != nil {
			return nil, Upstream("failed to upload thumbnail", err)
		}
		newThumbnail = thumb.StorageID
		oldThumbnail = video.ReplaceThumbnail(*thumb)
	}

	video.Update(strings.TrimSpace(in.Title), strings.TrimSpace(in.Description))
	if err := s.deps.Videos.Update(ctx, video); err != nil {
		s.deps.orphan(ctx, "video update failed", newThumbnail)
		return nil, storeError(err, videoNotFound)
	}

	if oldThumbnail != "" {
		if err := s.deps.Media.Remove(ctx, oldThumbnail); err != nil {
			logger.Log.Warn("Failed to remove replaced thumbnail",
				zap.String("storageId", oldThumbnail),
				zap.Error(err),
			)
			s.deps.orphan(ctx, "replaced thumbnail", oldThumbnail)
		}
	}

	return video, nil
}

// DeleteVideo deletes the video, then removes its likes, comments and both
// media objects concurrently. The video row is gone once this returns without
// a NotFound/Forbidden error; cleanup failures are reported together as one
// Upstream error alongside the report, and are not rolled back.
func (s *VideoService) DeleteVideo(ctx context.Context, v *viewer.Viewer, rawID string) (*DeleteReport, error) {
	video, err := s.ownedVideo(ctx, v, rawID)
	if err != nil {
		return nil, err
	}

	if err := s.deps.Videos.Delete(ctx, video.ID); err != nil {
		return nil, storeError(err, videoNotFound)
	}

	report := &DeleteReport{VideoID: video.ID}
	var likesErr, commentsErr, mediaErr error

	// A plain Group does not cancel siblings, so every cleanup step runs even
	// when another fails.
	var g errgroup.Group
	g.Go(func() error {
		report.LikesRemoved, likesErr = s.deps.Likes.DeleteByVideo(ctx, video.ID)
		return likesErr
	})
	g.Go(func() error {
		report.CommentsRemoved, commentsErr = s.deps.Comments.DeleteByVideo(ctx, video.ID)
		return commentsErr
	})
	g.Go(func() error {
		report.FailedMedia, mediaErr = media.RemoveAll(ctx, s.deps.Media, video.VideoStorageID, video.ThumbnailStorageID)
		return mediaErr
	})

	var cleanupErr error
	if g.Wait() != nil {
		cleanupErr = errors.Join(likesErr, commentsErr, mediaErr)
	}

	s.deps.orphan(ctx, "video deleted", report.FailedMedia...)

	s.deps.publish(ctx, events.VideoDeleted, events.VideoDeletedData{
		VideoID:         video.ID,
		OwnerID:         video.OwnerID,
		LikesRemoved:    report.LikesRemoved,
		CommentsRemoved: report.CommentsRemoved,
		Incomplete:      cleanupErr != nil,
	})

	if cleanupErr != nil {
		logger.Log.Error("Video deleted with incomplete cleanup",
			zap.String("videoId", video.ID.String()),
			zap.Error(cleanupErr),
		)
		return report, Upstream("video deleted but dependent cleanup failed", cleanupErr)
	}

	logger.Log.Info("Video deleted",
		zap.String("videoId", video.ID.String()),
		zap.Int64("likesRemoved", report.LikesRemoved),
		zap.Int64("commentsRemoved", report.CommentsRemoved),
	)

	return report, nil
}

// TogglePublishStatus flips whether the video is published.
func (s *VideoService) TogglePublishStatus(ctx context.Context, v *viewer.Viewer, rawID string) (*models.Video, error) {
	video, err := s.ownedVideo(ctx, v, rawID)
	if err != nil {
		return nil, err
	}

	toggled, err := s.deps.Videos.TogglePublished(ctx, video.ID)
	if err != nil {
		return nil, storeError(err, videoNotFound)
	}

	logger.Log.Info("Video publish status changed",
		zap.String("videoId", toggled.ID.String()),
		zap.Bool("isPublished", toggled.IsPublished),
	)

	return toggled, nil
}

// ownedVideo loads the video and checks that v owns it. Videos the viewer
// cannot see are reported as missing rather than forbidden.
func (s *VideoService) ownedVideo(ctx context.Context, v *viewer.Viewer, rawID string) (*models.Video, error) {
	if err := requireViewer(v); err != nil {
		return nil, err
	}
	videoID, verr := parseID("videoId", rawID)
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
	if !video.IsOwnedBy(v.ID) {
		return nil, Forbidden("only the owner can modify this video")
	}

	return video, nil
}
