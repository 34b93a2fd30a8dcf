package models

import (
	"time"

	"github.com/google/uuid"
)

// WatchHistoryEntry is the single history entry for a (user, video) pair.
type WatchHistoryEntry struct {
	UserID    uuid.UUID `db:"user_id" json:"user"`
	VideoID   uuid.UUID `db:"video_id" json:"video"`
	WatchedAt time.Time `db:"watched_at" json:"watchedAt"`
}

// WatchedVideo is a history entry joined with the video it points at.
type WatchedVideo struct {
	WatchedAt time.Time     `json:"watchedAt"`
	Video     VideoListItem `json:"video"`
}
