package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vidstream/video-platform-go/internal/models"
	"github.com/vidstream/video-platform-go/internal/service"
	"github.com/vidstream/video-platform-go/pkg/logger"
)

// VideoHandler handles the video endpoints.
type VideoHandler struct {
	videos  VideoService
	feed    FeedService
	history HistoryService
	uploads *Uploads
}

// NewVideoHandler creates a new VideoHandler instance.
func NewVideoHandler(videos VideoService, feed FeedService, history HistoryService, uploads *Uploads) *VideoHandler {
	return &VideoHandler{
		videos:  videos,
		feed:    feed,
		history: history,
		uploads: uploads,
	}
}

// ListVideos handles GET /videos.
func (h *VideoHandler) ListVideos(c *gin.Context) {
	var q models.ListVideosQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	pageNum, limit := q.Values()
	page, err := h.feed.ListVideos(c.Request.Context(), service.ListVideosQuery{
		Page:     pageNum,
		Limit:    limit,
		Query:    q.Query,
		OwnerID:  q.UserID,
		SortBy:   q.SortBy,
		SortType: q.SortType,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetVideo handles GET /videos/:videoId.
func (h *VideoHandler) GetVideo(c *gin.Context) {
	detail, err := h.videos.GetVideoDetail(c.Request.Context(), c.Param("videoId"), currentViewer(c))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// PublishVideo handles the multipart POST /videos.
func (h *VideoHandler) PublishVideo(c *gin.Context) {
	var form models.PublishVideoForm
	if err := c.ShouldBind(&form); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	videoPath, err := h.uploads.Save(c, "videoFile", true)
	if err != nil {
		handleError(c, err)
		return
	}
	defer h.uploads.Discard(videoPath)

	thumbPath, err := h.uploads.Save(c, "thumbnail", true)
	if err != nil {
		handleError(c, err)
		return
	}
	defer h.uploads.Discard(thumbPath)

	video, err := h.videos.PublishVideo(c.Request.Context(), currentViewer(c), service.PublishVideoInput{
		Title:             form.Title,
		Description:       form.Description,
		Duration:          form.Duration,
		VideoFilePath:     videoPath,
		ThumbnailFilePath: thumbPath,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, video)
}

// UpdateVideo handles PATCH /videos/:videoId.
func (h *VideoHandler) UpdateVideo(c *gin.Context) {
	var form models.UpdateVideoForm
	if err := c.ShouldBind(&form); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	thumbPath, err := h.uploads.Save(c, "thumbnail", false)
	if err != nil {
		handleError(c, err)
		return
	}
	defer h.uploads.Discard(thumbPath)

	video, err := h.videos.UpdateVideo(c.Request.Context(), currentViewer(c), c.Param("videoId"), service.UpdateVideoInput{
		Title:             form.Title,
		Description:       form.Description,
		ThumbnailFilePath: thumbPath,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, video)
}

// DeleteVideo handles DELETE /videos/:videoId.
func (h *VideoHandler) DeleteVideo(c *gin.Context) {
	report, err := h.videos.DeleteVideo(c.Request.Context(), currentViewer(c), c.Param("videoId"))
	if err != nil {
		if report != nil {
			logger.Log.Warn("Video removed with incomplete cleanup",
				zap.String("videoId", report.VideoID.String()),
				zap.Strings("failedMedia", report.FailedMedia),
			)
		}
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// TogglePublish handles PATCH /videos/:videoId/publish.
func (h *VideoHandler) TogglePublish(c *gin.Context) {
	video, err := h.videos.TogglePublishStatus(c.Request.Context(), currentViewer(c), c.Param("videoId"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, video)
}

// RecordView handles POST /videos/:videoId/views.
func (h *VideoHandler) RecordView(c *gin.Context) {
	entry, err := h.history.RecordView(c.Request.Context(), currentViewer(c), c.Param("videoId"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// WatchHistory handles GET /history.
func (h *VideoHandler) WatchHistory(c *gin.Context) {
	var q models.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	pageNum, limit := q.Values()
	page, err := h.history.GetWatchHistory(c.Request.Context(), currentViewer(c), pageNum, limit)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}
