package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/vidstream/video-platform-go/internal/db/models"
)

func createTestUser(t *testing.T, pool *pgxpool.Pool, username string) *models.User {
	t.Helper()

	user := models.NewUser(username, username+"@example.com", "Test "+username, "hash")
	user.AvatarURL = fmt.Sprintf("https://cdn.example.com/avatars/%s.png", username)
	user.AvatarStorageID = "avatars/" + username
	require.NoError(t, NewUserRepository(pool).Create(context.Background(), user))
	return user
}

func createTestVideo(t *testing.T, pool *pgxpool.Pool, owner *models.User, title string, published bool) *models.Video {
	t.Helper()

	id := uuid.New()
	video := models.NewVideo(owner.ID, title, "About "+title, 42.5,
		models.StoredObject{URL: "https://cdn.example.com/videos/" + id.String(), StorageID: "videos/" + id.String()},
		models.StoredObject{URL: "https://cdn.example.com/thumbs/" + id.String(), StorageID: "thumbs/" + id.String()},
	)
	video.IsPublished = published
	require.NoError(t, NewVideoRepository(pool).Create(context.Background(), video))
	return video
}

// createTestVideoAt creates a published video with an explicit creation time.
func createTestVideoAt(t *testing.T, pool *pgxpool.Pool, owner *models.User, title string, createdAt time.Time) *models.Video {
	t.Helper()

	video := models.NewVideo(owner.ID, title, "About "+title, 10,
		models.StoredObject{URL: "https://cdn.example.com/v", StorageID: "v/" + title},
		models.StoredObject{URL: "https://cdn.example.com/t", StorageID: "t/" + title},
	)
	video.CreatedAt = createdAt
	video.UpdatedAt = createdAt
	require.NoError(t, NewVideoRepository(pool).Create(context.Background(), video))
	return video
}

func like(t *testing.T, pool *pgxpool.Pool, video *models.Video, user *models.User) {
	t.Helper()
	require.NoError(t, NewLikeRepository(pool).Create(context.Background(), models.NewLike(video.ID, user.ID)))
}

func subscribe(t *testing.T, pool *pgxpool.Pool, subscriber, channel *models.User) {
	t.Helper()
	require.NoError(t, NewSubscriptionRepository(pool).Create(context.Background(), models.NewSubscription(subscriber.ID, channel.ID)))
}
