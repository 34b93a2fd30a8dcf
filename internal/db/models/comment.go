package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a user comment on a video.
type Comment struct {
	ID        uuid.UUID `db:"id" json:"id"`
	VideoID   uuid.UUID `db:"video_id" json:"video"`
	OwnerID   uuid.UUID `db:"owner_id" json:"owner"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewComment creates a Comment by ownerID on videoID.
func NewComment(videoID, ownerID uuid.UUID, content string) *Comment {
	now := time.Now()
	return &Comment{
		ID:        uuid.New(),
		VideoID:   videoID,
		OwnerID:   ownerID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
