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

// UserRepository defines operations for managing users and reading channels.
type UserRepository interface {
	// Create inserts a new user. Duplicate usernames or emails yield db.ErrDuplicateKey.
	Create(ctx context.Context, user *models.User) error

	// GetByID retrieves a single user by ID.
	GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error)

	// ExistsByUsernameOrEmail reports whether either value is already taken, ignoring case.
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)

	// GetChannelProfile retrieves a user by username joined with subscriber and
	// subscribed-to counts. ViewerSubscribed is only ever true for a non-nil viewerID.
	GetChannelProfile(ctx context.Context, username string, viewerID *uuid.UUID) (*models.ChannelProfileRow, error)
}

const userColumns = `id, username, email, full_name, avatar_url, avatar_storage_id,
		cover_image_url, cover_image_storage_id, password_hash, created_at, updated_at`

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, username, email, full_name, avatar_url, avatar_storage_id,
		                   cover_image_url, cover_image_storage_id, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		user.ID,
		models.NormalizeUsername(user.Username),
		user.Email,
		user.FullName,
		user.AvatarURL,
		user.AvatarStorageID,
		user.CoverImageURL,
		user.CoverImageStorageID,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		return db.WrapError(err, "create user")
	}

	return nil
}

func (r *userRepository) GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)

	user, err := scanUser(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		return nil, db.WrapError(err, "get user by id")
	}

	return user, nil
}

func (r *userRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 OR email = $2)`

	var exists bool
	err := r.pool.QueryRow(ctx, query, models.NormalizeUsername(username), strings.ToLower(strings.TrimSpace(email))).Scan(&exists)
	if err != nil {
		return false, db.WrapError(err, "check user exists")
	}

	return exists, nil
}

func (r *userRepository) GetChannelProfile(ctx context.Context, username string, viewerID *uuid.UUID) (*models.ChannelProfileRow, error) {
	query := `
		SELECT u.id, u.username, u.full_name, u.avatar_url, u.cover_image_url,
		       (SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = u.id) AS subscribers_count,
		       (SELECT COUNT(*) FROM subscriptions s WHERE s.subscriber_id = u.id) AS subscribed_to_count,
		       ($2::uuid IS NOT NULL AND EXISTS (
		           SELECT 1 FROM subscriptions s WHERE s.channel_id = u.id AND s.subscriber_id = $2::uuid
		       )) AS viewer_subscribed
		FROM users u
		WHERE u.username = $1
	`

	row := &models.ChannelProfileRow{}
	err := r.pool.QueryRow(ctx, query, models.NormalizeUsername(username), viewerID).Scan(
		&row.ID,
		&row.Username,
		&row.FullName,
		&row.AvatarURL,
		&row.CoverImageURL,
		&row.SubscribersCount,
		&row.SubscribedToCount,
		&row.ViewerSubscribed,
	)

	if err != nil {
		return nil, db.WrapError(err, "get channel profile")
	}

	return row, nil
}

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FullName,
		&user.AvatarURL,
		&user.AvatarStorageID,
		&user.CoverImageURL,
		&user.CoverImageStorageID,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// scanUserSummaries scans rows of (id, username, full_name, avatar_url).
func scanUserSummaries(rows pgx.Rows) ([]*models.UserSummary, error) {
	users := []*models.UserSummary{}

	for rows.Next() {
		user := &models.UserSummary{}
		if err := rows.Scan(&user.ID, &user.Username, &user.FullName, &user.AvatarURL); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}
