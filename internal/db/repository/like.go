package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidstream/video-platform-go/internal/db"
	"github.com/vidstream/video-platform-go/internal/db/models"
)

// LikeRepository defines operations for managing video likes.
type LikeRepository interface {
	// Create inserts a like. A second like of the same video by the same user
	// yields db.ErrDuplicateKey.
	Create(ctx context.Context, like *models.Like) error

	// Delete removes the like of videoID by userID and reports whether one existed.
	Delete(ctx context.Context, videoID, userID uuid.UUID) (bool, error)

	// DeleteByVideo removes every like of videoID and returns how many were removed.
	DeleteByVideo(ctx context.Context, videoID uuid.UUID) (int64, error)

	// CountByVideo counts likes of videoID.
	CountByVideo(ctx context.Context, videoID uuid.UUID) (int64, error)

	// ListLikedVideos lists published videos liked by userID, most recent like first.
	ListLikedVideos(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.VideoListItem, int, error)
}

type likeRepository struct {
	pool *pgxpool.Pool
}

// NewLikeRepository creates a new LikeRepository.
func NewLikeRepository(pool *pgxpool.Pool) LikeRepository {
	return &likeRepository{pool: pool}
}

func (r *likeRepository) Create(ctx context.Context, like *models.Like) error {
	query := `
		INSERT INTO likes (id, video_id, liked_by, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	err := r.pool.QueryRow(ctx, query, like.ID, like.VideoID, like.LikedBy, like.CreatedAt).Scan(&like.CreatedAt)
	if err != nil {
		return db.WrapError(err, "create like")
	}

	return nil
}

func (r *likeRepository) Delete(ctx context.Context, videoID, userID uuid.UUID) (bool, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM likes WHERE video_id = $1 AND liked_by = $2`, videoID, userID)
	if err != nil {
		return false, db.WrapError(err, "delete like")
	}

	return result.RowsAffected() > 0, nil
}

func (r *likeRepository) DeleteByVideo(ctx context.Context, videoID uuid.UUID) (int64, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM likes WHERE video_id = $1`, videoID)
	if err != nil {
		return 0, db.WrapError(err, "delete likes by video")
	}

	return result.RowsAffected(), nil
}

func (r *likeRepository) CountByVideo(ctx context.Context, videoID uuid.UUID) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM likes WHERE video_id = $1`, videoID).Scan(&count)
	if err != nil {
		return 0, db.WrapError(err, "count likes by video")
	}

	return count, nil
}

func (r *likeRepository) ListLikedVideos(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.VideoListItem, int, error) {
	countQuery := `
		SELECT COUNT(*)
		FROM likes l
		JOIN videos v ON v.id = l.video_id
		WHERE l.liked_by = $1 AND v.is_published = TRUE
	`

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, db.WrapError(err, "count liked videos")
	}

	query := fmt.Sprintf(`
		SELECT %s, u.username, u.avatar_url
		FROM likes l
		JOIN videos v ON v.id = l.video_id
		LEFT JOIN users u ON u.id = v.owner_id
		WHERE l.liked_by = $1 AND v.is_published = TRUE
		ORDER BY l.created_at DESC, l.id DESC
		LIMIT $2 OFFSET $3
	`, videoColumns)

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, db.WrapError(err, "list liked videos")
	}
	defer rows.Close()

	items, err := scanVideoListItems(rows)
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}
