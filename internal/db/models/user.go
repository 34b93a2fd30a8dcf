package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is a registered account. A user's public page is their channel.
type User struct {
	ID                  uuid.UUID `db:"id" json:"id"`
	Username            string    `db:"username" json:"username"`
	Email               string    `db:"email" json:"email"`
	FullName            string    `db:"full_name" json:"fullName"`
	AvatarURL           string    `db:"avatar_url" json:"avatar"`
	AvatarStorageID     string    `db:"avatar_storage_id" json:"-"`
	CoverImageURL       string    `db:"cover_image_url" json:"coverImage"`
	CoverImageStorageID string    `db:"cover_image_storage_id" json:"-"`
	PasswordHash        string    `db:"password_hash" json:"-"`
	CreatedAt           time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time `db:"updated_at" json:"updatedAt"`
}

// NewUser creates a User with a fresh identifier. Username and email are
// stored lowercase so lookups can be case-insensitive.
func NewUser(username, email, fullName, passwordHash string) *User {
	now := time.Now()
	return &User{
		ID:           uuid.New(),
		Username:     NormalizeUsername(username),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		FullName:     strings.TrimSpace(fullName),
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// NormalizeUsername returns the canonical stored form of a username.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// UserSummary is the public projection of a user used in lists.
type UserSummary struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	FullName  string    `db:"full_name" json:"fullName"`
	AvatarURL string    `db:"avatar_url" json:"avatar"`
}
