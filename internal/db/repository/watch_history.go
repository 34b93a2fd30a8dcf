package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidstream/video-platform-go/internal/db"
	"github.com/vidstream/video-platform-go/internal/db/models"
)

// WatchHistoryRepository maintains one history entry per (user, video) pair.
type WatchHistoryRepository interface {
	// Record upserts the entry for (userID, videoID) with watchedAt. The video's
	// view counter is incremented only when the entry did not exist before, and
	// both writes commit together. firstView reports whether the entry was new.
	// A missing video yields db.ErrNotFound and writes nothing.
	Record(ctx context.Context, userID, videoID uuid.UUID, watchedAt time.Time) (entry *models.WatchHistoryEntry, firstView bool, err error)

	// List retrieves userID's history, most recently watched first. Entries for
	// videos that no longer exist are skipped.
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.WatchedVideo, int, error)
}

type watchHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewWatchHistoryRepository creates a new WatchHistoryRepository.
func NewWatchHistoryRepository(pool *pgxpool.Pool) WatchHistoryRepository {
	return &watchHistoryRepository{pool: pool}
}

func (r *watchHistoryRepository) Record(ctx context.Context, userID, videoID uuid.UUID, watchedAt time.Time) (*models.WatchHistoryEntry, bool, error) {
	entry := &models.WatchHistoryEntry{UserID: userID, VideoID: videoID}
	var inserted bool

	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		// Lock the video row so the counter and the entry move together.
		var exists int
		err := tx.QueryRow(ctx, `SELECT 1 FROM videos WHERE id = $1 FOR UPDATE`, videoID).Scan(&exists)
		if err != nil {
			return db.WrapError(err, "lock video for view")
		}

		// xmax is zero only for a freshly inserted tuple.
		upsert := `
			INSERT INTO watch_history (user_id, video_id, watched_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id, video_id) DO UPDATE
			SET watched_at = EXCLUDED.watched_at
			RETURNING watched_at, (xmax = 0) AS inserted
		`
		if err := tx.QueryRow(ctx, upsert, userID, videoID, watchedAt).Scan(&entry.WatchedAt, &inserted); err != nil {
			return db.WrapError(err, "upsert watch history")
		}

		if !inserted {
			return nil
		}

		if _, err := tx.Exec(ctx, `UPDATE videos SET views = views + 1 WHERE id = $1`, videoID); err != nil {
			return db.WrapError(err, "increment video views")
		}

		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return entry, inserted, nil
}

func (r *watchHistoryRepository) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.WatchedVideo, int, error) {
	countQuery := `
		SELECT COUNT(*)
		FROM watch_history h
		JOIN videos v ON v.id = h.video_id
		WHERE h.user_id = $1 AND (v.is_published OR v.owner_id = $1)
	`

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, db.WrapError(err, "count watch history")
	}

	query := fmt.Sprintf(`
		SELECT %s, u.username, u.avatar_url, h.watched_at
		FROM watch_history h
		JOIN videos v ON v.id = h.video_id
		LEFT JOIN users u ON u.id = v.owner_id
		WHERE h.user_id = $1 AND (v.is_published OR v.owner_id = $1)
		ORDER BY h.watched_at DESC, h.video_id
		LIMIT $2 OFFSET $3
	`, videoColumns)

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, db.WrapError(err, "list watch history")
	}
	defer rows.Close()

	history := []*models.WatchedVideo{}
	for rows.Next() {
		var watchedAt time.Time
		item, err := scanVideoListItem(rows, &watchedAt)
		if err != nil {
			return nil, 0, err
		}
		history = append(history, &models.WatchedVideo{WatchedAt: watchedAt, Video: *item})
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate watch history: %w", err)
	}

	return history, total, nil
}
