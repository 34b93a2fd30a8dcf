package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidstream/video-platform-go/internal/db"
	"github.com/vidstream/video-platform-go/internal/db/models"
)

// CommentRepository defines the comment operations needed for cascade deletes.
type CommentRepository interface {
	// Create inserts a comment.
	Create(ctx context.Context, comment *models.Comment) error

	// DeleteByVideo removes every comment on videoID and returns how many were removed.
	DeleteByVideo(ctx context.Context, videoID uuid.UUID) (int64, error)

	// CountByVideo counts comments on videoID.
	CountByVideo(ctx context.Context, videoID uuid.UUID) (int64, error)
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository creates a new CommentRepository.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (id, video_id, owner_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		comment.ID,
		comment.VideoID,
		comment.OwnerID,
		comment.Content,
		comment.CreatedAt,
		comment.UpdatedAt,
	).Scan(&comment.CreatedAt, &comment.UpdatedAt)

	if err != nil {
		return db.WrapError(err, "create comment")
	}

	return nil
}

func (r *commentRepository) DeleteByVideo(ctx context.Context, videoID uuid.UUID) (int64, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE video_id = $1`, videoID)
	if err != nil {
		return 0, db.WrapError(err, "delete comments by video")
	}

	return result.RowsAffected(), nil
}

func (r *commentRepository) CountByVideo(ctx context.Context, videoID uuid.UUID) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM comments WHERE video_id = $1`, videoID).Scan(&count)
	if err != nil {
		return 0, db.WrapError(err, "count comments by video")
	}

	return count, nil
}
