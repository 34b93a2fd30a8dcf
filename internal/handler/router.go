package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router bundles the handlers and middleware mounted by NewRouter.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type Router struct {
	Videos *VideoHandler
	Social *SocialHandler
	Users  *UserHandler
	Health *HealthHandler
	// Middleware runs on every API route, in order.
	Middleware []gin.HandlerFunc
	// MaxUploadSize caps multipart request bodies in bytes. Zero disables the cap.
	MaxUploadSize int64
}

// NewRouter builds the gin engine serving the API.
func NewRouter(rt Router) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", rt.Health.LivenessProbe)
	r.GET("/ready", rt.Health.ReadinessProbe)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1", rt.Middleware...)
	upload := limitBody(rt.MaxUploadSize)

	videos := api.Group("/videos")
	videos.GET("", rt.Videos.ListVideos)
	videos.POST("", upload, rt.Videos.PublishVideo)
	videos.GET("/:videoId", rt.Videos.GetVideo)
	videos.PATCH("/:videoId", upload, rt.Videos.UpdateVideo)
	videos.DELETE("/:videoId", rt.Videos.DeleteVideo)
	videos.PATCH("/:videoId/publish", rt.Videos.TogglePublish)
	videos.POST("/:videoId/views", rt.Videos.RecordView)

	api.GET("/history", rt.Videos.WatchHistory)

	api.POST("/likes/videos/:videoId", rt.Social.ToggleVideoLike)
	api.GET("/likes/videos", rt.Social.LikedVideos)

	api.GET("/channels/:username", rt.Social.ChannelProfile)
	api.POST("/subscriptions/:channelId", rt.Social.ToggleSubscription)
	api.GET("/subscriptions/:channelId/subscribers", rt.Social.Subscribers)
	api.GET("/users/:userId/subscriptions", rt.Social.SubscribedChannels)

	api.POST("/users/register", upload, rt.Users.Register)

	return r
}

func limitBody(max int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if max > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, max)
		}
		c.Next()
	}
}
