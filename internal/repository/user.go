package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clipstack/video-service/internal/db"
	"github.com/clipstack/video-service/internal/models"
)

// UserRepository defines operations for managing users and their watch history.
type UserRepository interface {
	// Create inserts a new user record.
	Create(ctx context.Context, user *models.User) error

	// GetByID retrieves a single user by ID.
	GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error)

	// AddWatchHistory records that the user watched the video. Set
	// semantics: a repeat watch is a no-op and the original position
	// in the history is preserved.
	AddWatchHistory(ctx context.Context, userID, videoID uuid.UUID) error

	// WatchHistory returns the user's watched video IDs in insertion order.
	WatchHistory(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, username, avatar_url, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.pool.Exec(ctx, query, user.ID, user.Username, user.AvatarURL, user.CreatedAt)
	if err != nil {
		return db.WrapError(err, "create user")
	}

	return nil
}

func (r *userRepository) GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	query := `SELECT id, username, avatar_url, created_at FROM users WHERE id = $1`

	user := &models.User{}
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&user.ID,
		&user.Username,
		&user.AvatarURL,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, db.WrapError(err, "get user by id")
	}

	return user, nil
}

func (r *userRepository) AddWatchHistory(ctx context.Context, userID, videoID uuid.UUID) error {
	query := `
		INSERT INTO watch_history (user_id, video_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, video_id) DO NOTHING
	`

	if _, err := r.pool.Exec(ctx, query, userID, videoID); err != nil {
		return db.WrapError(err, "add watch history")
	}

	return nil
}

func (r *userRepository) WatchHistory(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT video_id FROM watch_history
		WHERE user_id = $1
		ORDER BY watched_at, video_id
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, db.WrapError(err, "get watch history")
	}
	defer rows.Close()

	var videoIDs []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan watch history: %w", err)
		}
		videoIDs = append(videoIDs, id)
	}

	return videoIDs, rows.Err()
}
