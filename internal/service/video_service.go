package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clipstack/video-service/internal/db"
	"github.com/clipstack/video-service/internal/models"
	"github.com/clipstack/video-service/internal/repository"
	"github.com/clipstack/video-service/internal/storage"
	"github.com/clipstack/video-service/internal/validation"
	"github.com/clipstack/video-service/pkg/logger"
)

// VideoService orchestrates the video catalog: listing, ingestion,
// detail aggregation, metadata updates, deletion and visibility.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type VideoService struct {
	videos    repository.VideoRepository
	users     repository.UserRepository
	store     storage.MediaStore
	publisher EventPublisher
	cleanups  []Cleanup
}

// NewVideoService creates a VideoService. publisher may be nil when event
// publishing is disabled.
func NewVideoService(
	videos repository.VideoRepository,
	users repository.UserRepository,
	store storage.MediaStore,
	publisher EventPublisher,
) *VideoService {
	return &VideoService{
		videos:    videos,
		users:     users,
		store:     store,
		publisher: publisher,
	}
}

// RegisterCleanup appends a cleanup to the deletion chain. Cleanups run in
// registration order after the video row is removed.
func (s *VideoService) RegisterCleanup(cleanup Cleanup) {
	s.cleanups = append(s.cleanups, cleanup)
}

// ListVideosInput carries the raw listing parameters from the HTTP layer.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type ListVideosInput struct {
	Page    int
	Limit   int
	Query   string
	OwnerID string
	SortBy  string
	SortDir string
}

// List returns a page of published videos with their owners joined in.
func (s *VideoService) List(ctx context.Context, in ListVideosInput) (*models.VideoPage, error) {
	opts := repository.ListOptions{
		Page:    in.Page,
		Limit:   in.Limit,
		Query:   in.Query,
		SortBy:  in.SortBy,
		SortDir: in.SortDir,
	}

	if in.OwnerID != "" {
		ownerID, err := uuid.Parse(in.OwnerID)
		if err != nil {
			return nil, &ValidationError{Message: "userId must be a valid UUID"}
		}
		opts.OwnerID = &ownerID
	}

	page, err := s.videos.List(ctx, opts)
	if err != nil {
		return nil, &InternalError{Message: "failed to list videos", Cause: err}
	}

	return page, nil
}

// PublishInput carries the staged upload files and metadata for ingestion.
type PublishInput struct {
	Title                string
	Description          string
	VideoPath            string
	VideoContentType     string
	ThumbnailPath        string
	ThumbnailContentType string
}

// Publish ingests a new video: validates metadata, uploads the video file
// and then the thumbnail, and persists the record unpublished.
//
// Uploads are sequential and single-attempt. A thumbnail upload failure
// after a successful video upload leaves the video asset orphaned in
// storage; no compensation is attempted.
func (s *VideoService) Publish(ctx context.Context, actingUser uuid.UUID, in PublishInput) (*models.Video, error) {
	title, err := validation.RequireText("title", in.Title)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	description, err := validation.RequireText("description", in.Description)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	if in.VideoPath == "" {
		return nil, &ValidationError{Message: "video file is required"}
	}
	if in.ThumbnailPath == "" {
		return nil, &ValidationError{Message: "thumbnail is required"}
	}

	videoAsset, err := s.store.Upload(ctx, in.VideoPath, in.VideoContentType)
	if err != nil {
		return nil, &UploadError{Message: "failed to upload video file", Cause: err}
	}

	thumbAsset, err := s.store.Upload(ctx, in.ThumbnailPath, in.ThumbnailContentType)
	if err != nil {
		logger.Log.Error("Thumbnail upload failed after video upload; video asset orphaned",
			zap.String("videoStorageId", videoAsset.StorageID),
			zap.Error(err),
		)
		return nil, &UploadError{Message: "failed to upload thumbnail", Cause: err}
	}

	video := models.NewVideo(actingUser, title, description, videoAsset.Duration,
		models.MediaRef{URL: videoAsset.URL, StorageID: videoAsset.StorageID},
		models.MediaRef{URL: thumbAsset.URL, StorageID: thumbAsset.StorageID},
	)

	if err := s.videos.Create(ctx, video); err != nil {
		return nil, &InternalError{Message: "failed to save video", Cause: err}
	}

	// Read-after-write check: return the persisted row, not the in-memory
	// struct, so the caller sees exactly what was stored.
	created, err := s.videos.GetByID(ctx, video.ID)
	if err != nil {
		return nil, &InternalError{Message: "failed to read back created video", Cause: err}
	}

	logger.Log.Info("Video published",
		zap.String("videoId", created.ID.String()),
		zap.String("ownerId", actingUser.String()),
		zap.Float64("duration", created.Duration),
	)

	s.publishEvent(ctx, EventVideoCreated, created)

	return created, nil
}

// Detail returns one video aggregated with owner, like and subscription
// data relative to the acting user. A successful fetch also increments the
// view counter and records the video in the viewer's watch history; both
// side effects are best-effort and never fail the read.
func (s *VideoService) Detail(ctx context.Context, actingUser uuid.UUID, videoID string) (*models.VideoDetail, error) {
	id, err := uuid.Parse(videoID)
	if err != nil {
		return nil, &ValidationError{Message: "videoId must be a valid UUID"}
	}

	detail, err := s.videos.GetDetail(ctx, id, actingUser)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, &NotFoundError{Message: "video not found"}
		}
		return nil, &InternalError{Message: "failed to fetch video", Cause: err}
	}

	if err := s.videos.IncrementViews(ctx, id); err != nil {
		logger.Log.Warn("Failed to increment view count",
			zap.String("videoId", id.String()),
			zap.Error(err),
		)
	}

	if err := s.users.AddWatchHistory(ctx, actingUser, id); err != nil {
		logger.Log.Warn("Failed to record watch history",
			zap.String("videoId", id.String()),
			zap.String("userId", actingUser.String()),
			zap.Error(err),
		)
	}

	return detail, nil
}

// UpdateInput carries the replacement metadata and staged thumbnail.
type UpdateInput struct {
	Title                string
	Description          string
	ThumbnailPath        string
	ThumbnailContentType string
}

// Update replaces the video's title, description and thumbnail. Only the
// owner may update. The previous thumbnail asset is removed after the row
// is updated; removal failures are logged and the update still succeeds.
func (s *VideoService) Update(ctx context.Context, actingUser uuid.UUID, videoID string, in UpdateInput) (*models.Video, error) {
	video, err := s.fetchOwned(ctx, actingUser, videoID)
	if err != nil {
		return nil, err
	}

	title, err := validation.RequireText("title", in.Title)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	description, err := validation.RequireText("description", in.Description)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	if in.ThumbnailPath == "" {
		return nil, &ValidationError{Message: "thumbnail is required"}
	}

	thumbAsset, err := s.store.Upload(ctx, in.ThumbnailPath, in.ThumbnailContentType)
	if err != nil {
		return nil, &UploadError{Message: "failed to upload thumbnail", Cause: err}
	}

	oldThumbnail := video.Thumbnail

	updated, err := s.videos.Update(ctx, video.ID, title, description,
		models.MediaRef{URL: thumbAsset.URL, StorageID: thumbAsset.StorageID})
	if err != nil {
		if db.IsNotFound(err) {
			return nil, &NotFoundError{Message: "video not found"}
		}
		return nil, &InternalError{Message: "failed to update video", Cause: err}
	}

	if err := s.store.Delete(ctx, oldThumbnail.StorageID); err != nil {
		logger.Log.Warn("Failed to remove replaced thumbnail",
			zap.String("videoId", updated.ID.String()),
			zap.String("storageId", oldThumbnail.StorageID),
			zap.Error(err),
		)
	}

	logger.Log.Info("Video updated", zap.String("videoId", updated.ID.String()))

	s.publishEvent(ctx, EventVideoUpdated, updated)

	return updated, nil
}

// Delete removes the video row and then runs the registered cleanups in
// order. A cleanup failure surfaces to the caller; cleanups later in the
// chain do not run and their targets remain as accepted orphans.
func (s *VideoService) Delete(ctx context.Context, actingUser uuid.UUID, videoID string) error {
	video, err := s.fetchOwned(ctx, actingUser, videoID)
	if err != nil {
		return err
	}

	if err := s.videos.Delete(ctx, video.ID); err != nil {
		if db.IsNotFound(err) {
			return &NotFoundError{Message: "video not found"}
		}
		return &InternalError{Message: "failed to delete video", Cause: err}
	}

	for _, cleanup := range s.cleanups {
		if err := cleanup.OnVideoDeleted(ctx, video); err != nil {
			return &InternalError{
				Message: fmt.Sprintf("video deleted but %s cleanup failed", cleanup.Name()),
				Cause:   err,
			}
		}
	}

	logger.Log.Info("Video deleted",
		zap.String("videoId", video.ID.String()),
		zap.String("ownerId", actingUser.String()),
	)

	s.publishEvent(ctx, EventVideoDeleted, video)

	return nil
}

// TogglePublish flips the video's publish flag and returns the new value.
// Only the owner may toggle.
func (s *VideoService) TogglePublish(ctx context.Context, actingUser uuid.UUID, videoID string) (bool, error) {
	video, err := s.fetchOwned(ctx, actingUser, videoID)
	if err != nil {
		return false, err
	}

	published, err := s.videos.TogglePublish(ctx, video.ID)
	if err != nil {
		if db.IsNotFound(err) {
			return false, &NotFoundError{Message: "video not found"}
		}
		return false, &InternalError{Message: "failed to toggle publish status", Cause: err}
	}

	logger.Log.Info("Video publish status toggled",
		zap.String("videoId", video.ID.String()),
		zap.Bool("isPublished", published),
	)

	video.IsPublished = published
	s.publishEvent(ctx, EventVideoVisibilityChanged, video)

	return published, nil
}

// fetchOwned loads the video and enforces that actingUser owns it.
func (s *VideoService) fetchOwned(ctx context.Context, actingUser uuid.UUID, videoID string) (*models.Video, error) {
	id, err := uuid.Parse(videoID)
	if err != nil {
		return nil, &ValidationError{Message: "videoId must be a valid UUID"}
	}

	video, err := s.videos.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, &NotFoundError{Message: "video not found"}
		}
		return nil, &InternalError{Message: "failed to fetch video", Cause: err}
	}

	if video.OwnerID != actingUser {
		return nil, &ForbiddenError{Message: "you do not own this video"}
	}

	return video, nil
}

// publishEvent emits a lifecycle event when a publisher is configured.
// Publishing is best-effort; failures are logged and never fail the
// triggering operation.
func (s *VideoService) publishEvent(ctx context.Context, eventType string, video *models.Video) {
	if s.publisher == nil {
		return
	}

	event := &VideoEvent{
		ID:          uuid.New(),
		Type:        eventType,
		VideoID:     video.ID,
		OwnerID:     video.OwnerID,
		IsPublished: video.IsPublished,
		OccurredAt:  time.Now().UTC(),
	}

	if err := s.publisher.PublishEvent(ctx, event); err != nil {
		logger.Log.Warn("Failed to publish video event",
			zap.String("type", eventType),
			zap.String("videoId", video.ID.String()),
			zap.Error(err),
		)
	}
}
