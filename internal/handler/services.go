package handler

import (
	"context"

	dbmodels "github.com/vidstream/video-platform-go/internal/db/models"
	"github.com/vidstream/video-platform-go/internal/service"
	"github.com/vidstream/video-platform-go/internal/viewer"
)

// The handlers depend on these views of the service layer.

type VideoService interface {
	GetVideoDetail(ctx context.Context, rawID string, v *viewer.Viewer) (*service.VideoDetail, error)
	PublishVideo(ctx context.Context, v *viewer.Viewer, in service.PublishVideoInput) (*dbmodels.Video, error)
	UpdateVideo(ctx context.Context, v *viewer.Viewer, rawID string, in service.UpdateVideoInput) (*dbmodels.Video, error)
	DeleteVideo(ctx context.Context, v *viewer.Viewer, rawID string) (*service.DeleteReport, error)
	TogglePublishStatus(ctx context.Context, v *viewer.Viewer, rawID string) (*dbmodels.Video, error)
}

type FeedService interface {
	ListVideos(ctx context.Context, q service.ListVideosQuery) (*service.VideoPage, error)
}

type HistoryService interface {
	RecordView(ctx context.Context, v *viewer.Viewer, rawVideoID string) (*dbmodels.WatchHistoryEntry, error)
	GetWatchHistory(ctx context.Context, v *viewer.Viewer, page, limit int) (*service.WatchHistoryPage, error)
}

type LikeService interface {
	ToggleVideoLike(ctx context.Context, v *viewer.Viewer, rawVideoID string) (bool, error)
	ListLikedVideos(ctx context.Context, v *viewer.Viewer, page, limit int) (*service.VideoPage, error)
}

type ChannelService interface {
	GetChannelProfile(ctx context.Context, username string, v *viewer.Viewer) (*service.ChannelProfile, error)
	ToggleSubscription(ctx context.Context, v *viewer.Viewer, rawChannelID string) (bool, error)
	ListSubscribers(ctx context.Context, rawChannelID string, page, limit int) (*service.UserPage, error)
	ListSubscribedChannels(ctx context.Context, rawSubscriberID string, page, limit int) (*service.UserPage, error)
}

type UserService interface {
	Register(ctx context.Context, in service.RegisterInput) (*dbmodels.User, error)
}
