// Package repository provides database operations for the video hosting service.
package repository

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clipstack/video-service/internal/db"
	"github.com/clipstack/video-service/internal/models"
)

const (
	// DefaultPage is used when no page is supplied.
	DefaultPage = 1
	// DefaultLimit is used when no limit is supplied.
	DefaultLimit = 10
	// MaxLimit caps the page size.
	MaxLimit = 100
)

// sortColumns whitelists the sortable fields of a listing request.
var sortColumns = map[string]string{
	"created_at": "v.created_at",
	"views":      "v.views",
	"duration":   "v.duration",
	"title":      "v.title",
}

// ListOptions describes a listing request. Zero values fall back to
// documented defaults: page 1, limit 10, sort by creation time descending.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type ListOptions struct {
	Page    int
	Limit   int
	Query   string     // optional full-text query
	OwnerID *uuid.UUID // optional owner filter
	SortBy  string     // one of created_at, views, duration, title
	SortDir string     // "asc" or "desc"
}

// Normalize clamps pagination and resolves sort defaults.
func (o *ListOptions) Normalize() {
	if o.Page < 1 {
		o.Page = DefaultPage
	}
	if o.Limit < 1 {
		o.Limit = DefaultLimit
	}
	if o.Limit > MaxLimit {
		o.Limit = MaxLimit
	}
	if _, ok := sortColumns[o.SortBy]; !ok {
		o.SortBy = "created_at"
		o.SortDir = "desc"
	}
	if dir := strings.ToLower(o.SortDir); dir != "asc" {
		o.SortDir = "desc"
	} else {
		o.SortDir = "asc"
	}
}

// VideoRepository defines operations for managing videos.
type VideoRepository interface {
	// Create inserts a new video record.
	Create(ctx context.Context, video *models.Video) error

	// GetByID retrieves a single video by ID.
	GetByID(ctx context.Context, videoID uuid.UUID) (*models.Video, error)

	// GetDetail retrieves one video aggregated with like counts, the owner's
	// subscriber count and the viewer-relative isLiked/isSubscribed flags.
	GetDetail(ctx context.Context, videoID, viewerID uuid.UUID) (*models.VideoDetail, error)

	// List retrieves a page of published videos with their owners joined in.
	List(ctx context.Context, opts ListOptions) (*models.VideoPage, error)

	// Update replaces title, description and thumbnail, returning the updated row.
	Update(ctx context.Context, videoID uuid.UUID, title, description string, thumbnail models.MediaRef) (*models.Video, error)

	// Delete removes the video record.
	Delete(ctx context.Context, videoID uuid.UUID) error

	// TogglePublish flips is_published and returns the new value.
	TogglePublish(ctx context.Context, videoID uuid.UUID) (bool, error)

	// IncrementViews atomically adds one to the view counter.
	IncrementViews(ctx context.Context, videoID uuid.UUID) error
}

type videoRepository struct {
	pool *pgxpool.Pool
}

// NewVideoRepository creates a new VideoRepository.
func NewVideoRepository(pool *pgxpool.Pool) VideoRepository {
	return &videoRepository{pool: pool}
}

const videoColumns = `id, owner_id, title, description, duration,
	video_url, video_storage_id, thumbnail_url, thumbnail_storage_id,
	views, is_published, created_at, updated_at`

func (r *videoRepository) Create(ctx context.Context, video *models.Video) error {
	query := `
		INSERT INTO videos (id, owner_id, title, description, duration,
			video_url, video_storage_id, thumbnail_url, thumbnail_storage_id,
			views, is_published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.pool.Exec(ctx, query,
		video.ID,
		video.OwnerID,
		video.Title,
		video.Description,
		video.Duration,
		video.File.URL,
		video.File.StorageID,
		video.Thumbnail.URL,
		video.Thumbnail.StorageID,
		video.Views,
		video.IsPublished,
		video.CreatedAt,
		video.UpdatedAt,
	)

	if err != nil {
		return db.WrapError(err, "create video")
	}

	return nil
}

func (r *videoRepository) GetByID(ctx context.Context, videoID uuid.UUID) (*models.Video, error) {
	query := fmt.Sprintf(`SELECT %s FROM videos WHERE id = $1`, videoColumns)

	video, err := scanVideo(r.pool.QueryRow(ctx, query, videoID))
	if err != nil {
		return nil, db.WrapError(err, "get video by id")
	}

	return video, nil
}

func (r *videoRepository) GetDetail(ctx context.Context, videoID, viewerID uuid.UUID) (*models.VideoDetail, error) {
	// One aggregated read: the lookup/addFields stages of the original
	// pipeline become scalar subqueries against likes and subscriptions.
	query := `
		SELECT v.id, v.owner_id, v.title, v.description, v.duration,
		       v.video_url, v.video_storage_id, v.thumbnail_url, v.thumbnail_storage_id,
		       v.views, v.is_published, v.created_at, v.updated_at,
		       u.id, u.username, u.avatar_url,
		       (SELECT COUNT(*) FROM likes l WHERE l.video_id = v.id) AS likes_count,
		       EXISTS (SELECT 1 FROM likes l WHERE l.video_id = v.id AND l.user_id = $2) AS is_liked,
		       (SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = v.owner_id) AS subscribers_count,
		       EXISTS (SELECT 1 FROM subscriptions s WHERE s.channel_id = v.owner_id AND s.subscriber_id = $2) AS is_subscribed
		FROM videos v
		JOIN users u ON u.id = v.owner_id
		WHERE v.id = $1
	`

	detail := &models.VideoDetail{}
	err := r.pool.QueryRow(ctx, query, videoID, viewerID).Scan(
		&detail.ID,
		&detail.OwnerID,
		&detail.Title,
		&detail.Description,
		&detail.Duration,
		&detail.File.URL,
		&detail.File.StorageID,
		&detail.Thumbnail.URL,
		&detail.Thumbnail.StorageID,
		&detail.Views,
		&detail.IsPublished,
		&detail.CreatedAt,
		&detail.UpdatedAt,
		&detail.Owner.ID,
		&detail.Owner.Username,
		&detail.Owner.AvatarURL,
		&detail.LikesCount,
		&detail.IsLiked,
		&detail.Owner.SubscribersCount,
		&detail.Owner.IsSubscribed,
	)

	if err != nil {
		return nil, db.WrapError(err, "get video detail")
	}

	return detail, nil
}

func (r *videoRepository) List(ctx context.Context, opts ListOptions) (*models.VideoPage, error) {
	opts.Normalize()

	// Stage order is fixed: text search, owner filter, published gate,
	// sort, owner join. The sort column comes from a whitelist, never
	// from user input.
	query := fmt.Sprintf(`
		SELECT v.id, v.owner_id, v.title, v.description, v.duration,
		       v.video_url, v.video_storage_id, v.thumbnail_url, v.thumbnail_storage_id,
		       v.views, v.is_published, v.created_at, v.updated_at,
		       u.id, u.username, u.avatar_url,
		       COUNT(*) OVER () AS total_items
		FROM videos v
		JOIN users u ON u.id = v.owner_id
		WHERE ($1 = '' OR v.search_vector @@ websearch_to_tsquery('english', $1))
		  AND ($2::uuid IS NULL OR v.owner_id = $2)
		  AND v.is_published = TRUE
		ORDER BY %s %s, v.id
		LIMIT $3 OFFSET $4
	`, sortColumns[opts.SortBy], strings.ToUpper(opts.SortDir))

	offset := (opts.Page - 1) * opts.Limit

	rows, err := r.pool.Query(ctx, query, opts.Query, opts.OwnerID, opts.Limit, offset)
	if err != nil {
		return nil, db.WrapError(err, "list videos")
	}
	defer rows.Close()

	// Non-nil so an empty page marshals as [] rather than null.
	summaries := []*models.VideoSummary{}
	var totalItems int64

	for rows.Next() {
		summary := &models.VideoSummary{}
		err := rows.Scan(
			&summary.ID,
			&summary.OwnerID,
			&summary.Title,
			&summary.Description,
			&summary.Duration,
			&summary.File.URL,
			&summary.File.StorageID,
			&summary.Thumbnail.URL,
			&summary.Thumbnail.StorageID,
			&summary.Views,
			&summary.IsPublished,
			&summary.CreatedAt,
			&summary.UpdatedAt,
			&summary.Owner.ID,
			&summary.Owner.Username,
			&summary.Owner.AvatarURL,
			&totalItems,
		)
		if err != nil {
			return nil, fmt.Errorf("scan video summary: %w", err)
		}
		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate videos: %w", err)
	}

	totalPages := 0
	if totalItems > 0 {
		totalPages = int(math.Ceil(float64(totalItems) / float64(opts.Limit)))
	}

	return &models.VideoPage{
		Videos:     summaries,
		Page:       opts.Page,
		Limit:      opts.Limit,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}, nil
}

func (r *videoRepository) Update(ctx context.Context, videoID uuid.UUID, title, description string, thumbnail models.MediaRef) (*models.Video, error) {
	query := fmt.Sprintf(`
		UPDATE videos
		SET title = $2,
		    description = $3,
		    thumbnail_url = $4,
		    thumbnail_storage_id = $5,
		    updated_at = $6
		WHERE id = $1
		RETURNING %s
	`, videoColumns)

	video, err := scanVideo(r.pool.QueryRow(ctx, query,
		videoID, title, description, thumbnail.URL, thumbnail.StorageID, time.Now()))
	if err != nil {
		return nil, db.WrapError(err, "update video")
	}

	return video, nil
}

func (r *videoRepository) Delete(ctx context.Context, videoID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM videos WHERE id = $1`, videoID)
	if err != nil {
		return db.WrapError(err, "delete video")
	}

	if tag.RowsAffected() == 0 {
		return db.WrapError(pgx.ErrNoRows, "delete video")
	}

	return nil
}

func (r *videoRepository) TogglePublish(ctx context.Context, videoID uuid.UUID) (bool, error) {
	query := `
		UPDATE videos
		SET is_published = NOT is_published, updated_at = now()
		WHERE id = $1
		RETURNING is_published
	`

	var isPublished bool
	if err := r.pool.QueryRow(ctx, query, videoID).Scan(&isPublished); err != nil {
		return false, db.WrapError(err, "toggle publish")
	}

	return isPublished, nil
}

func (r *videoRepository) IncrementViews(ctx context.Context, videoID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `UPDATE videos SET views = views + 1 WHERE id = $1`, videoID)
	if err != nil {
		return db.WrapError(err, "increment views")
	}

	if tag.RowsAffected() == 0 {
		return db.WrapError(pgx.ErrNoRows, "increment views")
	}

	return nil
}

// scanVideo scans a single video row in videoColumns order.
func scanVideo(row pgx.Row) (*models.Video, error) {
	video := &models.Video{}
	err := row.Scan(
		&video.ID,
		&video.OwnerID,
		&video.Title,
		&video.Description,
		&video.Duration,
		&video.File.URL,
		&video.File.StorageID,
		&video.Thumbnail.URL,
		&video.Thumbnail.StorageID,
		&video.Views,
		&video.IsPublished,
		&video.CreatedAt,
		&video.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return video, nil
}
