package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidstream/video-platform-go/internal/db"
	"github.com/vidstream/video-platform-go/internal/db/models"
	"github.com/vidstream/video-platform-go/internal/db/testutil"
)

func TestLikeRepository(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)

	repo := NewLikeRepository(td.Pool)
	ctx := context.Background()

	t.Run("enforces one like per video and user", func(t *testing.T) {
		td.TruncateTables(t)

		owner := createTestUser(t, td.Pool, "owner")
		fan := createTestUser(t, td.Pool, "fan")
		video := createTestVideo(t, td.Pool, owner, "Clip", true)

		require.NoError(t, repo.Create(ctx, models.NewLike(video.ID, fan.ID)))
		err := repo.Create(ctx, models.NewLike(video.ID, fan.ID))
		assert.True(t, db.IsDuplicateKey(err))

		count, err := repo.CountByVideo(ctx, video.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("deletes single and all likes", func(t *testing.T) {
		td.TruncateTables(t)

		owner := createTestUser(t, td.Pool, "owner")
		fan1 := createTestUser(t, td.Pool, "fan1")
		fan2 := createTestUser(t, td.Pool, "fan2")
		video := createTestVideo(t, td.Pool, owner, "Clip", true)
		like(t, td.Pool, video, fan1)
		like(t, td.Pool, video, fan2)

		deleted, err := repo.Delete(ctx, video.ID, fan1.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = repo.Delete(ctx, video.ID, fan1.ID)
		require.NoError(t, err)
		assert.False(t, deleted)

		removed, err := repo.DeleteByVideo(ctx, video.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), removed)
	})

	t.Run("lists liked published videos", func(t *testing.T) {
		td.TruncateTables(t)

		owner := createTestUser(t, td.Pool, "owner")
		fan := createTestUser(t, td.Pool, "fan")
		public := createTestVideo(t, td.Pool, owner, "Public", true)
		draft := createTestVideo(t, td.Pool, owner, "Draft", false)
		like(t, td.Pool, public, fan)
		like(t, td.Pool, draft, fan)

		items, total, err := repo.ListLikedVideos(ctx, fan.ID, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, items, 1)
		assert.Equal(t, public.ID, items[0].ID)
		require.NotNil(t, items[0].Owner)
		assert.Equal(t, "owner", items[0].Owner.Username)
	})
}

func TestCommentRepository(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)

	repo := NewCommentRepository(td.Pool)
	ctx := context.Background()

	td.TruncateTables(t)

	owner := createTestUser(t, td.Pool, "owner")
	video := createTestVideo(t, td.Pool, owner, "Clip", true)
	other := createTestVideo(t, td.Pool, owner, "Other", true)

	require.NoError(t, repo.Create(ctx, models.NewComment(video.ID, owner.ID, "first")))
	require.NoError(t, repo.Create(ctx, models.NewComment(video.ID, owner.ID, "second")))
	require.NoError(t, repo.Create(ctx, models.NewComment(other.ID, owner.ID, "elsewhere")))

	removed, err := repo.DeleteByVideo(ctx, video.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	count, err := repo.CountByVideo(ctx, video.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	count, err = repo.CountByVideo(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
