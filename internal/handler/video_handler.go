// Package handler provides HTTP request handlers for the application.
package handler

import (
	"context"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clipstack/video-service/internal/middleware"
	"github.com/clipstack/video-service/internal/models"
	"github.com/clipstack/video-service/internal/service"
	"github.com/clipstack/video-service/internal/validation"
	"github.com/clipstack/video-service/pkg/logger"
)

// VideoService is the service surface the handler depends on.
type VideoService interface {
	List(ctx context.Context, in service.ListVideosInput) (*models.VideoPage, error)
	Publish(ctx context.Context, actingUser uuid.UUID, in service.PublishInput) (*models.Video, error)
	Detail(ctx context.Context, actingUser uuid.UUID, videoID string) (*models.VideoDetail, error)
	Update(ctx context.Context, actingUser uuid.UUID, videoID string, in service.UpdateInput) (*models.Video, error)
	Delete(ctx context.Context, actingUser uuid.UUID, videoID string) error
	TogglePublish(ctx context.Context, actingUser uuid.UUID, videoID string) (bool, error)
}

// VideoHandler handles video-related HTTP requests.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type VideoHandler struct {
	service   VideoService
	validator *validation.Validator
	tempDir   string
}

// NewVideoHandler creates a new VideoHandler instance. tempDir is where
// multipart uploads are staged before transfer to media storage; empty
// means the OS default.
func NewVideoHandler(svc VideoService, validator *validation.Validator, tempDir string) *VideoHandler {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &VideoHandler{
		service:   svc,
		validator: validator,
		tempDir:   tempDir,
	}
}

// RegisterRoutes mounts the video routes on the given router group.
func (h *VideoHandler) RegisterRoutes(rg *gin.RouterGroup) {
	videos := rg.Group("/videos")
	videos.Use(middleware.Identity())
	{
		videos.GET("", h.List)
		videos.POST("", h.Publish)
		videos.GET("/:videoId", h.Detail)
		videos.PATCH("/:videoId", h.Update)
		videos.DELETE("/:videoId", h.Delete)
		videos.PATCH("/:videoId/toggle-publish", h.TogglePublish)
	}
}

// List returns a page of published videos.
func (h *VideoHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	result, err := h.service.List(c.Request.Context(), service.ListVideosInput{
		Page:    page,
		Limit:   limit,
		Query:   c.Query("query"),
		OwnerID: c.Query("userId"),
		SortBy:  c.Query("sortBy"),
		SortDir: c.Query("sortType"),
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	sendSuccess(c, http.StatusOK, result, "Videos fetched successfully")
}

// Publish ingests a new video from a multipart form with title,
// description, videoFile and thumbnail parts.
func (h *VideoHandler) Publish(c *gin.Context) {
	actingUser, ok := middleware.ActingUser(c)
	if !ok {
		sendError(c, http.StatusUnauthorized, "missing user identity")
		return
	}

	videoFile, err := c.FormFile("videoFile")
	if err != nil {
		sendError(c, http.StatusBadRequest, "video file is required")
		return
	}
	if err := h.validator.ValidateVideoPart(videoFile); err != nil {
		sendError(c, http.StatusBadRequest, "invalid video file", err.Error())
		return
	}

	thumbnail, err := c.FormFile("thumbnail")
	if err != nil {
		sendError(c, http.StatusBadRequest, "thumbnail is required")
		return
	}
	if err := h.validator.ValidateThumbnailPart(thumbnail); err != nil {
		sendError(c, http.StatusBadRequest, "invalid thumbnail", err.Error())
		return
	}

	videoPath, err := h.stageFile(c, videoFile)
	if err != nil {
		h.handleError(c, err)
		return
	}
	defer removeStaged(videoPath)

	thumbnailPath, err := h.stageFile(c, thumbnail)
	if err != nil {
		h.handleError(c, err)
		return
	}
	defer removeStaged(thumbnailPath)

	video, err := h.service.Publish(c.Request.Context(), actingUser, service.PublishInput{
		Title:                c.PostForm("title"),
		Description:          c.PostForm("description"),
		VideoPath:            videoPath,
		VideoContentType:     videoFile.Header.Get("Content-Type"),
		ThumbnailPath:        thumbnailPath,
		ThumbnailContentType: thumbnail.Header.Get("Content-Type"),
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	sendSuccess(c, http.StatusCreated, video, "Video published successfully")
}

// Detail returns one video with owner, like and subscription data.
func (h *VideoHandler) Detail(c *gin.Context) {
	actingUser, ok := middleware.ActingUser(c)
	if !ok {
		sendError(c, http.StatusUnauthorized, "missing user identity")
		return
	}

	detail, err := h.service.Detail(c.Request.Context(), actingUser, c.Param("videoId"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	sendSuccess(c, http.StatusOK, detail, "Video fetched successfully")
}

// Update replaces the video's title, description and thumbnail.
func (h *VideoHandler) Update(c *gin.Context) {
	actingUser, ok := middleware.ActingUser(c)
	if !ok {
		sendError(c, http.StatusUnauthorized, "missing user identity")
		return
	}

	// A missing thumbnail is the service's call: existence and ownership
	// of the video are checked before the part is required.
	var (
		thumbnailPath        string
		thumbnailContentType string
	)
	if thumbnail, err := c.FormFile("thumbnail"); err == nil {
		if err := h.validator.ValidateThumbnailPart(thumbnail); err != nil {
			sendError(c, http.StatusBadRequest, "invalid thumbnail", err.Error())
			return
		}

		thumbnailPath, err = h.stageFile(c, thumbnail)
		if err != nil {
			h.handleError(c, err)
			return
		}
		defer removeStaged(thumbnailPath)

		thumbnailContentType = thumbnail.Header.Get("Content-Type")
	}

	video, err := h.service.Update(c.Request.Context(), actingUser, c.Param("videoId"), service.UpdateInput{
		Title:                c.PostForm("title"),
		Description:          c.PostForm("description"),
		ThumbnailPath:        thumbnailPath,
		ThumbnailContentType: thumbnailContentType,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	sendSuccess(c, http.StatusOK, video, "Video updated successfully")
}

// Delete removes the video, its stored assets and its engagement rows.
func (h *VideoHandler) Delete(c *gin.Context) {
	actingUser, ok := middleware.ActingUser(c)
	if !ok {
		sendError(c, http.StatusUnauthorized, "missing user identity")
		return
	}

	if err := h.service.Delete(c.Request.Context(), actingUser, c.Param("videoId")); err != nil {
		h.handleError(c, err)
		return
	}

	sendSuccess(c, http.StatusOK, nil, "Video deleted successfully")
}

// TogglePublish flips the video's publish flag.
func (h *VideoHandler) TogglePublish(c *gin.Context) {
	actingUser, ok := middleware.ActingUser(c)
	if !ok {
		sendError(c, http.StatusUnauthorized, "missing user identity")
		return
	}

	published, err := h.service.TogglePublish(c.Request.Context(), actingUser, c.Param("videoId"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	sendSuccess(c, http.StatusOK, gin.H{"isPublished": published}, "Publish status toggled successfully")
}

// stageFile writes the multipart part to the staging directory. The caller
// removes the file once the upload completes.
func (h *VideoHandler) stageFile(c *gin.Context, header *multipart.FileHeader) (string, error) {
	path := filepath.Join(h.tempDir, uuid.NewString()+filepath.Ext(header.Filename))
	if err := c.SaveUploadedFile(header, path); err != nil {
		return "", &service.InternalError{Message: "failed to stage upload", Cause: err}
	}
	return path, nil
}

func removeStaged(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Log.Warn("Failed to remove staged upload",
			zap.String("path", path),
			zap.Error(err),
		)
	}
}

func (h *VideoHandler) handleError(c *gin.Context, err error) {
	switch err.(type) {
	case *service.ValidationError:
		logger.Log.Warn("Validation error",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
		)
		sendError(c, http.StatusBadRequest, err.Error())
	case *service.ForbiddenError:
		logger.Log.Warn("Forbidden",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
		)
		sendError(c, http.StatusForbidden, err.Error())
	case *service.NotFoundError:
		sendError(c, http.StatusNotFound, err.Error())
	case *service.UploadError:
		logger.Log.Error("Upload error",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
		)
		sendError(c, http.StatusInternalServerError, "Media upload failed")
	default:
		logger.Log.Error("Unexpected error",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
		)
		sendError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
