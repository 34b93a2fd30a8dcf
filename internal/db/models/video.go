package models

import (
	"time"

	"github.com/google/uuid"
)

// Video is an uploaded video and the storage handles of its two media objects.
type Video struct {
	ID                 uuid.UUID `db:"id" json:"id"`
	OwnerID            uuid.UUID `db:"owner_id" json:"owner"`
	Title              string    `db:"title" json:"title"`
	Description        string    `db:"description" json:"description"`
	Duration           float64   `db:"duration" json:"duration"`
	Views              int64     `db:"views" json:"views"`
	IsPublished        bool      `db:"is_published" json:"isPublished"`
	VideoURL           string    `db:"video_url" json:"videoFile"`
	VideoStorageID     string    `db:"video_storage_id" json:"-"`
	ThumbnailURL       string    `db:"thumbnail_url" json:"thumbnail"`
	ThumbnailStorageID string    `db:"thumbnail_storage_id" json:"-"`
	CreatedAt          time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time `db:"updated_at" json:"updatedAt"`
}

// StoredObject is a media object held by the media provider.
type StoredObject struct {
	URL       string
	StorageID string
}

// NewVideo creates a published Video owned by ownerID.
func NewVideo(ownerID uuid.UUID, title, description string, duration float64, file, thumbnail StoredObject) *Video {
	now := time.Now()
	return &Video{
		ID:                 uuid.New(),
		OwnerID:            ownerID,
		Title:              title,
		Description:        description,
		Duration:           duration,
		IsPublished:        true,
		VideoURL:           file.URL,
		VideoStorageID:     file.StorageID,
		ThumbnailURL:       thumbnail.URL,
		ThumbnailStorageID: thumbnail.StorageID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// Update replaces the editable metadata.
func (v *Video) Update(title, description string) {
	v.Title = title
	v.Description = description
	v.UpdatedAt = time.Now()
}

// ReplaceThumbnail swaps the thumbnail and returns the storage id of the old one.
func (v *Video) ReplaceThumbnail(thumbnail StoredObject) string {
	old := v.ThumbnailStorageID
	v.ThumbnailURL = thumbnail.URL
	v.ThumbnailStorageID = thumbnail.StorageID
	v.UpdatedAt = time.Now()
	return old
}

// IsOwnedBy reports whether userID owns the video.
func (v *Video) IsOwnedBy(userID uuid.UUID) bool {
	return v.OwnerID == userID
}

// VideoDetailRow is one video joined with its like data and owner/subscription
// data. Viewer flags are false when no viewer was supplied to the query. Owner
// fields are nil when the owner record is missing.
type VideoDetailRow struct {
	Video
	LikesCount            int64
	ViewerLiked           bool
	OwnerUsername         *string
	OwnerAvatarURL        *string
	OwnerSubscribersCount int64
	ViewerSubscribed      bool
}

// VideoListItem is a feed entry: a video with its owner summary collapsed to
// a single object.
type VideoListItem struct {
	Video
	Owner *OwnerSummary `json:"ownerDetails,omitempty"`
}

// OwnerSummary is the owner projection attached to feed entries.
type OwnerSummary struct {
	Username  string `json:"username"`
	AvatarURL string `json:"avatar"`
}
