package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidstream/video-platform-go/internal/db"
	"github.com/vidstream/video-platform-go/internal/db/models"
)

// VideoRepository defines operations for managing videos.
type VideoRepository interface {
	// Create inserts a new video.
	Create(ctx context.Context, video *models.Video) error

	// GetByID retrieves a single video by ID regardless of its published state.
	GetByID(ctx context.Context, videoID uuid.UUID) (*models.Video, error)

	// GetDetail retrieves a video joined with its like count, owner summary and
	// owner subscriber count. When viewerID is non-nil the row also carries
	// whether that viewer liked the video and follows the owner.
	GetDetail(ctx context.Context, videoID uuid.UUID, viewerID *uuid.UUID) (*models.VideoDetailRow, error)

	// Update persists title, description and thumbnail of an existing video.
	Update(ctx context.Context, video *models.Video) error

	// TogglePublished flips the published flag and returns the updated video.
	TogglePublished(ctx context.Context, videoID uuid.UUID) (*models.Video, error)

	// Delete deletes a video by ID.
	Delete(ctx context.Context, videoID uuid.UUID) error

	// List retrieves published videos matching filters, with owner summaries.
	List(ctx context.Context, filters *VideoFilters) ([]*models.VideoListItem, int, error)
}

// VideoFilters contains filter options for listing videos. Only published
// videos are ever listed.
type VideoFilters struct {
	Limit    int
	Offset   int
	Query    string
	OwnerID  *uuid.UUID
	OrderBy  string
	OrderDir string
}

// videoSortColumns maps accepted sort fields to columns. Unknown fields fall
// back to creation time.
var videoSortColumns = map[string]string{
	"created_at": "v.created_at",
	"createdAt":  "v.created_at",
	"views":      "v.views",
	"duration":   "v.duration",
	"title":      "v.title",
}

const videoColumns = `v.id, v.owner_id, v.title, v.description, v.duration, v.views, v.is_published,
		v.video_url, v.video_storage_id, v.thumbnail_url, v.thumbnail_storage_id, v.created_at, v.updated_at`

type videoRepository struct {
	pool *pgxpool.Pool
}

// NewVideoRepository creates a new VideoRepository.
func NewVideoRepository(pool *pgxpool.Pool) VideoRepository {
	return &videoRepository{pool: pool}
}

func (r *videoRepository) Create(ctx context.Context, video *models.Video) error {
	query := `
		INSERT INTO videos (id, owner_id, title, description, duration, views, is_published,
		                    video_url, video_storage_id, thumbnail_url, thumbnail_storage_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		video.ID,
		video.OwnerID,
		video.Title,
		video.Description,
		video.Duration,
		video.Views,
		video.IsPublished,
		video.VideoURL,
		video.VideoStorageID,
		video.ThumbnailURL,
		video.ThumbnailStorageID,
		video.CreatedAt,
		video.UpdatedAt,
	).Scan(&video.CreatedAt, &video.UpdatedAt)

	if err != nil {
		return db.WrapError(err, "create video")
	}

	return nil
}

func (r *videoRepository) GetByID(ctx context.Context, videoID uuid.UUID) (*models.Video, error) {
	query := fmt.Sprintf(`SELECT %s FROM videos v WHERE v.id = $1`, videoColumns)

	video, err := scanVideo(r.pool.QueryRow(ctx, query, videoID))
	if err != nil {
		return nil, db.WrapError(err, "get video by id")
	}

	return video, nil
}

func (r *videoRepository) GetDetail(ctx context.Context, videoID uuid.UUID, viewerID *uuid.UUID) (*models.VideoDetailRow, error) {
	// A NULL viewer short-circuits both membership tests so it can never match
	// a stored reference.
	query := fmt.Sprintf(`
		SELECT %s,
		       (SELECT COUNT(*) FROM likes l WHERE l.video_id = v.id) AS likes_count,
		       ($2::uuid IS NOT NULL AND EXISTS (
		           SELECT 1 FROM likes l WHERE l.video_id = v.id AND l.liked_by = $2::uuid
		       )) AS viewer_liked,
		       u.username,
		       u.avatar_url,
		       (SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = v.owner_id) AS subscribers_count,
		       ($2::uuid IS NOT NULL AND EXISTS (
		           SELECT 1 FROM subscriptions s WHERE s.channel_id = v.owner_id AND s.subscriber_id = $2::uuid
		       )) AS viewer_subscribed
		FROM videos v
		LEFT JOIN users u ON u.id = v.owner_id
		WHERE v.id = $1
	`, videoColumns)

	row := &models.VideoDetailRow{}
	err := r.pool.QueryRow(ctx, query, videoID, viewerID).Scan(
		&row.ID,
		&row.OwnerID,
		&row.Title,
		&row.Description,
		&row.Duration,
		&row.Views,
		&row.IsPublished,
		&row.VideoURL,
		&row.VideoStorageID,
		&row.ThumbnailURL,
		&row.ThumbnailStorageID,
		&row.CreatedAt,
		&row.UpdatedAt,
		&row.LikesCount,
		&row.ViewerLiked,
		&row.OwnerUsername,
		&row.OwnerAvatarURL,
		&row.OwnerSubscribersCount,
		&row.ViewerSubscribed,
	)

	if err != nil {
		return nil, db.WrapError(err, "get video detail")
	}

	return row, nil
}

func (r *videoRepository) Update(ctx context.Context, video *models.Video) error {
	query := `
		UPDATE videos
		SET title = $1,
		    description = $2,
		    thumbnail_url = $3,
		    thumbnail_storage_id = $4
		WHERE id = $5
		RETURNING updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		video.Title,
		video.Description,
		video.ThumbnailURL,
		video.ThumbnailStorageID,
		video.ID,
	).Scan(&video.UpdatedAt)

	if err != nil {
		return db.WrapError(err, "update video")
	}

	return nil
}

func (r *videoRepository) TogglePublished(ctx context.Context, videoID uuid.UUID) (*models.Video, error) {
	query := fmt.Sprintf(`
		UPDATE videos v
		SET is_published = NOT v.is_published
		WHERE v.id = $1
		RETURNING %s
	`, videoColumns)

	video, err := scanVideo(r.pool.QueryRow(ctx, query, videoID))
	if err != nil {
		return nil, db.WrapError(err, "toggle video published")
	}

	return video, nil
}

func (r *videoRepository) Delete(ctx context.Context, videoID uuid.UUID) error {
	query := `DELETE FROM videos WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, videoID)
	if err != nil {
		return db.WrapError(err, "delete video")
	}

	if result.RowsAffected() == 0 {
		return db.WrapError(pgx.ErrNoRows, "delete video")
	}

	return nil
}

func (r *videoRepository) List(ctx context.Context, filters *VideoFilters) ([]*models.VideoListItem, int, error) {
	args := []interface{}{}
	argPos := 1
	conditions := []string{}

	if filters.Query != "" {
		conditions = append(conditions, fmt.Sprintf("v.search @@ plainto_tsquery('english', $%d)", argPos))
		args = append(args, filters.Query)
		argPos++
	}

	if filters.OwnerID != nil {
		conditions = append(conditions, fmt.Sprintf("v.owner_id = $%d", argPos))
		args = append(args, *filters.OwnerID)
		argPos++
	}

	conditions = append(conditions, "v.is_published = TRUE")
	whereClause := "WHERE " + strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM videos v %s", whereClause)
	var total int
	err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total)
	if err != nil {
		return nil, 0, db.WrapError(err, "count videos")
	}

	orderBy := "v.created_at"
	if column, ok := videoSortColumns[filters.OrderBy]; ok {
		orderBy = column
	}

	orderDir := "DESC"
	if strings.EqualFold(filters.OrderDir, "asc") {
		orderDir = "ASC"
	}

	query := fmt.Sprintf(`
		SELECT %s, u.username, u.avatar_url
		FROM videos v
		LEFT JOIN users u ON u.id = v.owner_id
		%s
		ORDER BY %s %s, v.id %s
		LIMIT $%d OFFSET $%d
	`, videoColumns, whereClause, orderBy, orderDir, orderDir, argPos, argPos+1)

	args = append(args, filters.Limit, filters.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, db.WrapError(err, "list videos")
	}
	defer rows.Close()

	items, err := scanVideoListItems(rows)
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVideo(row rowScanner) (*models.Video, error) {
	video := &models.Video{}
	err := row.Scan(videoScanTargets(video)...)
	if err != nil {
		return nil, err
	}
	return video, nil
}

func videoScanTargets(video *models.Video) []any {
	return []any{
		&video.ID,
		&video.OwnerID,
		&video.Title,
		&video.Description,
		&video.Duration,
		&video.Views,
		&video.IsPublished,
		&video.VideoURL,
		&video.VideoStorageID,
		&video.ThumbnailURL,
		&video.ThumbnailStorageID,
		&video.CreatedAt,
		&video.UpdatedAt,
	}
}

// scanVideoListItems scans rows of videoColumns followed by owner username and avatar.
func scanVideoListItems(rows pgx.Rows) ([]*models.VideoListItem, error) {
	items := []*models.VideoListItem{}

	for rows.Next() {
		item, err := scanVideoListItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate videos: %w", err)
	}

	return items, nil
}

func scanVideoListItem(row rowScanner, extra ...any) (*models.VideoListItem, error) {
	item := &models.VideoListItem{}
	var username, avatar *string

	targets := append(videoScanTargets(&item.Video), &username, &avatar)
	targets = append(targets, extra...)
	if err := row.Scan(targets...); err != nil {
		return nil, fmt.Errorf("scan video: %w", err)
	}

	if username != nil {
		item.Owner = &models.OwnerSummary{Username: *username}
		if avatar != nil {
			item.Owner.AvatarURL = *avatar
		}
	}

	return item, nil
}
