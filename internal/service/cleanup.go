package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/clipstack/video-service/internal/models"
	"github.com/clipstack/video-service/internal/repository"
	"github.com/clipstack/video-service/internal/storage"
	"github.com/clipstack/video-service/pkg/logger"
)

// Cleanup is invoked after a video row has been deleted. Implementations
// are run in registration order; a failure stops the chain and surfaces
// to the caller, leaving later cleanups as accepted orphans.
type Cleanup interface {
	Name() string
	OnVideoDeleted(ctx context.Context, video *models.Video) error
}

// StorageCleanup deletes the video's remote media assets.
type StorageCleanup struct {
	store storage.MediaStore
}

// NewStorageCleanup creates a StorageCleanup.
func NewStorageCleanup(store storage.MediaStore) *StorageCleanup {
	return &StorageCleanup{store: store}
}

func (c *StorageCleanup) Name() string { return "storage-assets" }

func (c *StorageCleanup) OnVideoDeleted(ctx context.Context, video *models.Video) error {
	if err := c.store.Delete(ctx, video.File.StorageID); err != nil {
		return err
	}
	return c.store.Delete(ctx, video.Thumbnail.StorageID)
}

// EngagementCleanup removes any like and comment rows still referencing
// the video. The schema's ON DELETE CASCADE has normally emptied both
// tables by the time this runs; the counts are nonzero only for rows
// written after the video row was deleted.
type EngagementCleanup struct {
	likes    repository.LikeRepository
	comments repository.CommentRepository
}

// NewEngagementCleanup creates an EngagementCleanup.
func NewEngagementCleanup(likes repository.LikeRepository, comments repository.CommentRepository) *EngagementCleanup {
	return &EngagementCleanup{likes: likes, comments: comments}
}

func (c *EngagementCleanup) Name() string { return "engagement-rows" }

func (c *EngagementCleanup) OnVideoDeleted(ctx context.Context, video *models.Video) error {
	removedLikes, err := c.likes.DeleteByVideo(ctx, video.ID)
	if err != nil {
		return err
	}

	removedComments, err := c.comments.DeleteByVideo(ctx, video.ID)
	if err != nil {
		return err
	}

	// Zero counts are the norm: the FK cascade fires with the row delete.
	logger.Log.Debug("Engagement rows swept",
		zap.String("videoId", video.ID.String()),
		zap.Int64("likes", removedLikes),
		zap.Int64("comments", removedComments),
	)

	return nil
}
