package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vidstream/video-platform-go/internal/models"
	"github.com/vidstream/video-platform-go/internal/service"
)

// SocialHandler handles likes, channels and subscriptions.
type SocialHandler struct {
	likes    LikeService
	channels ChannelService
}

// NewSocialHandler creates a new SocialHandler instance.
func NewSocialHandler(likes LikeService, channels ChannelService) *SocialHandler {
	return &SocialHandler{likes: likes, channels: channels}
}

// ToggleVideoLike handles POST /likes/videos/:videoId.
func (h *SocialHandler) ToggleVideoLike(c *gin.Context) {
	liked, err := h.likes.ToggleVideoLike(c.Request.Context(), currentViewer(c), c.Param("videoId"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.LikeStatusDTO{IsLiked: liked})
}

// LikedVideos handles GET /likes/videos.
func (h *SocialHandler) LikedVideos(c *gin.Context) {
	var q models.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	pageNum, limit := q.Values()
	page, err := h.likes.ListLikedVideos(c.Request.Context(), currentViewer(c), pageNum, limit)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// ChannelProfile handles GET /channels/:username.
func (h *SocialHandler) ChannelProfile(c *gin.Context) {
	profile, err := h.channels.GetChannelProfile(c.Request.Context(), c.Param("username"), currentViewer(c))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// ToggleSubscription handles POST /subscriptions/:channelId.
func (h *SocialHandler) ToggleSubscription(c *gin.Context) {
	subscribed, err := h.channels.ToggleSubscription(c.Request.Context(), currentViewer(c), c.Param("channelId"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SubscriptionStatusDTO{Subscribed: subscribed})
}

// Subscribers handles GET /subscriptions/:channelId/subscribers.
func (h *SocialHandler) Subscribers(c *gin.Context) {
	h.listUsers(c, c.Param("channelId"), h.channels.ListSubscribers)
}

// SubscribedChannels handles GET /users/:userId/subscriptions.
func (h *SocialHandler) SubscribedChannels(c *gin.Context) {
	h.listUsers(c, c.Param("userId"), h.channels.ListSubscribedChannels)
}

func (h *SocialHandler) listUsers(c *gin.Context, id string, list func(ctx context.Context, rawID string, page, limit int) (*service.UserPage, error)) {
	var q models.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	pageNum, limit := q.Values()
	page, err := list(c.Request.Context(), id, pageNum, limit)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}
