package models

import (
	"time"

	"github.com/google/uuid"
)

// Like records that a user liked a video. At most one exists per (video, user).
type Like struct {
	ID        uuid.UUID `db:"id" json:"id"`
	VideoID   uuid.UUID `db:"video_id" json:"video"`
	LikedBy   uuid.UUID `db:"liked_by" json:"likedBy"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewLike creates a Like of videoID by userID.
func NewLike(videoID, userID uuid.UUID) *Like {
	return &Like{
		ID:        uuid.New(),
		VideoID:   videoID,
		LikedBy:   userID,
		CreatedAt: time.Now(),
	}
}
