package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vidstream/video-platform-go/internal/db/models"
	"github.com/vidstream/video-platform-go/internal/metrics"
	"github.com/vidstream/video-platform-go/internal/viewer"
)

const videoNotFound = "video not found"

// VideoDetail is the public representation of one video.
type VideoDetail struct {
	ID          uuid.UUID   `json:"id"`
	VideoURL    string      `json:"videoFile"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Views       int64       `json:"views"`
	CreatedAt   time.Time   `json:"createdAt"`
	Duration    float64     `json:"duration"`
	LikesCount  int64       `json:"likesCount"`
	Owner       *VideoOwner `json:"owner"`
	IsLiked     bool        `json:"isLiked"`
}

// VideoOwner is the owner summary embedded in a VideoDetail.
type VideoOwner struct {
	Username         string `json:"username"`
	AvatarURL        string `json:"avatar"`
	SubscribersCount int64  `json:"subscribersCount"`
	IsSubscribed     bool   `json:"isSubscribed"`
}

// AssembleVideoDetail projects a joined detail row for v. A video the viewer
// may not see is reported exactly like a missing one. Viewer flags are false
// for guests whatever the row carries.
func AssembleVideoDetail(row *models.VideoDetailRow, v *viewer.Viewer, policy Policy) (*VideoDetail, error) {
	if row == nil || !canView(&row.Video, v, policy) {
		return nil, NotFound(videoNotFound)
	}

	detail := &VideoDetail{
		ID:          row.ID,
		VideoURL:    row.VideoURL,
		Title:       row.Title,
		Description: row.Description,
		Views:       row.Views,
		CreatedAt:   row.CreatedAt,
		Duration:    row.Duration,
		LikesCount:  row.LikesCount,
		IsLiked:     v != nil && row.ViewerLiked,
	}

	if row.OwnerUsername != nil {
		detail.Owner = &VideoOwner{
			Username:         *row.OwnerUsername,
			SubscribersCount: row.OwnerSubscribersCount,
			IsSubscribed:     v != nil && row.ViewerSubscribed,
		}
		if row.OwnerAvatarURL != nil {
			detail.Owner.AvatarURL = *row.OwnerAvatarURL
		}
	}

	return detail, nil
}

// GetVideoDetail returns the detail of the video identified by rawID as seen by v.
func (s *VideoService) GetVideoDetail(ctx context.Context, rawID string, v *viewer.Viewer) (*VideoDetail, error) {
	defer metrics.ObserveAssembly("video_detail", time.Now())

	videoID, verr := parseID("videoId", rawID)
	if verr != nil {
		return nil, verr
	}

	row, err := s.deps.Videos.GetDetail(ctx, videoID, v.IDPtr())
	if err != nil {
		return nil, storeError(err, videoNotFound)
	}

	return AssembleVideoDetail(row, v, s.deps.Policy)
}
