package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidstream/video-platform-go/internal/db"
	"github.com/vidstream/video-platform-go/internal/db/models"
)

// SubscriptionRepository defines operations on the subscription graph.
type SubscriptionRepository interface {
	// Create inserts a subscription. Duplicates yield db.ErrDuplicateKey and
	// self-subscriptions yield db.ErrCheckViolation.
	Create(ctx context.Context, sub *models.Subscription) error

	// Delete removes the subscription of subscriberID to channelID and reports whether one existed.
	Delete(ctx context.Context, subscriberID, channelID uuid.UUID) (bool, error)

	// CountSubscribers counts subscriptions whose channel is channelID.
	CountSubscribers(ctx context.Context, channelID uuid.UUID) (int64, error)

	// CountSubscribedTo counts subscriptions whose subscriber is subscriberID.
	CountSubscribedTo(ctx context.Context, subscriberID uuid.UUID) (int64, error)

	// ListSubscribers lists users following channelID, newest first.
	ListSubscribers(ctx context.Context, channelID uuid.UUID, limit, offset int) ([]*models.UserSummary, int, error)

	// ListSubscribedChannels lists channels followed by subscriberID, newest first.
	ListSubscribedChannels(ctx context.Context, subscriberID uuid.UUID, limit, offset int) ([]*models.UserSummary, int, error)
}

type subscriptionRepository struct {
	pool *pgxpool.Pool
}

// NewSubscriptionRepository creates a new SubscriptionRepository.
func NewSubscriptionRepository(pool *pgxpool.Pool) SubscriptionRepository {
	return &subscriptionRepository{pool: pool}
}

func (r *subscriptionRepository) Create(ctx context.Context, sub *models.Subscription) error {
	query := `
		INSERT INTO subscriptions (id, subscriber_id, channel_id, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	err := r.pool.QueryRow(ctx, query, sub.ID, sub.SubscriberID, sub.ChannelID, sub.CreatedAt).Scan(&sub.CreatedAt)
	if err != nil {
		return db.WrapError(err, "create subscription")
	}

	return nil
}

func (r *subscriptionRepository) Delete(ctx context.Context, subscriberID, channelID uuid.UUID) (bool, error) {
	result, err := r.pool.Exec(ctx,
		`DELETE FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2`,
		subscriberID, channelID,
	)
	if err != nil {
		return false, db.WrapError(err, "delete subscription")
	}

	return result.RowsAffected() > 0, nil
}

func (r *subscriptionRepository) CountSubscribers(ctx context.Context, channelID uuid.UUID) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM subscriptions WHERE channel_id = $1`, channelID).Scan(&count)
	if err != nil {
		return 0, db.WrapError(err, "count subscribers")
	}

	return count, nil
}

func (r *subscriptionRepository) CountSubscribedTo(ctx context.Context, subscriberID uuid.UUID) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM subscriptions WHERE subscriber_id = $1`, subscriberID).Scan(&count)
	if err != nil {
		return 0, db.WrapError(err, "count subscribed channels")
	}

	return count, nil
}

func (r *subscriptionRepository) ListSubscribers(ctx context.Context, channelID uuid.UUID, limit, offset int) ([]*models.UserSummary, int, error) {
	total, err := r.CountSubscribers(ctx, channelID)
	if err != nil {
		return nil, 0, err
	}

	query := `
		SELECT u.id, u.username, u.full_name, u.avatar_url
		FROM subscriptions s
		JOIN users u ON u.id = s.subscriber_id
		WHERE s.channel_id = $1
		ORDER BY s.created_at DESC, s.id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, channelID, limit, offset)
	if err != nil {
		return nil, 0, db.WrapError(err, "list subscribers")
	}
	defer rows.Close()

	users, err := scanUserSummaries(rows)
	if err != nil {
		return nil, 0, err
	}

	return users, int(total), nil
}

func (r *subscriptionRepository) ListSubscribedChannels(ctx context.Context, subscriberID uuid.UUID, limit, offset int) ([]*models.UserSummary, int, error) {
	total, err := r.CountSubscribedTo(ctx, subscriberID)
	if err != nil {
		return nil, 0, err
	}

	query := `
		SELECT u.id, u.username, u.full_name, u.avatar_url
		FROM subscriptions s
		JOIN users u ON u.id = s.channel_id
		WHERE s.subscriber_id = $1
		ORDER BY s.created_at DESC, s.id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, subscriberID, limit, offset)
	if err != nil {
		return nil, 0, db.WrapError(err, "list subscribed channels")
	}
	defer rows.Close()

	users, err := scanUserSummaries(rows)
	if err != nil {
		return nil, 0, err
	}

	return users, int(total), nil
}
