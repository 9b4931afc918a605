package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clipstack/video-service/internal/db"
	"github.com/clipstack/video-service/internal/models"
)

// LikeRepository defines operations for video likes.
type LikeRepository interface {
	// Add records a like. Liking twice is a no-op.
	Add(ctx context.Context, videoID, userID uuid.UUID) error

	// Remove deletes a like if present.
	Remove(ctx context.Context, videoID, userID uuid.UUID) error

	// CountByVideo returns the number of likes on a video.
	CountByVideo(ctx context.Context, videoID uuid.UUID) (int64, error)

	// DeleteByVideo removes all likes referencing the video, returning
	// the number of rows removed.
	DeleteByVideo(ctx context.Context, videoID uuid.UUID) (int64, error)
}

type likeRepository struct {
	pool *pgxpool.Pool
}

// NewLikeRepository creates a new LikeRepository.
func NewLikeRepository(pool *pgxpool.Pool) LikeRepository {
	return &likeRepository{pool: pool}
}

func (r *likeRepository) Add(ctx context.Context, videoID, userID uuid.UUID) error {
	query := `
		INSERT INTO likes (video_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (video_id, user_id) DO NOTHING
	`

	if _, err := r.pool.Exec(ctx, query, videoID, userID); err != nil {
		return db.WrapError(err, "add like")
	}

	return nil
}

func (r *likeRepository) Remove(ctx context.Context, videoID, userID uuid.UUID) error {
	query := `DELETE FROM likes WHERE video_id = $1 AND user_id = $2`

	if _, err := r.pool.Exec(ctx, query, videoID, userID); err != nil {
		return db.WrapError(err, "remove like")
	}

	return nil
}

func (r *likeRepository) CountByVideo(ctx context.Context, videoID uuid.UUID) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM likes WHERE video_id = $1`, videoID).Scan(&count)
	if err != nil {
		return 0, db.WrapError(err, "count likes")
	}

	return count, nil
}

func (r *likeRepository) DeleteByVideo(ctx context.Context, videoID uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM likes WHERE video_id = $1`, videoID)
	if err != nil {
		return 0, db.WrapError(err, "delete likes by video")
	}

	return tag.RowsAffected(), nil
}

// CommentRepository defines operations for video comments.
type CommentRepository interface {
	// Create inserts a new comment.
	Create(ctx context.Context, comment *models.Comment) error

	// DeleteByVideo removes all comments referencing the video, returning
	// the number of rows removed.
	DeleteByVideo(ctx context.Context, videoID uuid.UUID) (int64, error)
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
		INSERT INTO comments (id, video_id, author_id, body, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query,
		comment.ID, comment.VideoID, comment.AuthorID, comment.Body, comment.CreatedAt)
	if err != nil {
		return db.WrapError(err, "create comment")
	}

	return nil
}

func (r *commentRepository) DeleteByVideo(ctx context.Context, videoID uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE video_id = $1`, videoID)
	if err != nil {
		return 0, db.WrapError(err, "delete comments by video")
	}

	return tag.RowsAffected(), nil
}

// SubscriptionRepository defines operations for channel subscriptions.
type SubscriptionRepository interface {
	// Subscribe adds subscriber to the channel's audience. Idempotent.
	Subscribe(ctx context.Context, channelID, subscriberID uuid.UUID) error

	// Unsubscribe removes the subscription if present.
	Unsubscribe(ctx context.Context, channelID, subscriberID uuid.UUID) error

	// CountForChannel returns the channel's subscriber count.
	CountForChannel(ctx context.Context, channelID uuid.UUID) (int64, error)
}

type subscriptionRepository struct {
	pool *pgxpool.Pool
}

// NewSubscriptionRepository creates a new SubscriptionRepository.
func NewSubscriptionRepository(pool *pgxpool.Pool) SubscriptionRepository {
	return &subscriptionRepository{pool: pool}
}

func (r *subscriptionRepository) Subscribe(ctx context.Context, channelID, subscriberID uuid.UUID) error {
	query := `
		INSERT INTO subscriptions (channel_id, subscriber_id)
		VALUES ($1, $2)
		ON CONFLICT (channel_id, subscriber_id) DO NOTHING
	`

	if _, err := r.pool.Exec(ctx, query, channelID, subscriberID); err != nil {
		return db.WrapError(err, "subscribe")
	}

	return nil
}

func (r *subscriptionRepository) Unsubscribe(ctx context.Context, channelID, subscriberID uuid.UUID) error {
	query := `DELETE FROM subscriptions WHERE channel_id = $1 AND subscriber_id = $2`

	if _, err := r.pool.Exec(ctx, query, channelID, subscriberID); err != nil {
		return db.WrapError(err, "unsubscribe")
	}

	return nil
}

func (r *subscriptionRepository) CountForChannel(ctx context.Context, channelID uuid.UUID) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM subscriptions WHERE channel_id = $1`, channelID).Scan(&count)
	if err != nil {
		return 0, db.WrapError(err, "count subscribers")
	}

	return count, nil
}
