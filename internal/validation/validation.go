// Package validation contains request input checks shared by the HTTP layer.
package validation

import (
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/clipstack/video-service/internal/config"
)

// RequireText validates a required free-text field and returns the trimmed
// value. Whitespace-only input is rejected.
func RequireText(field, value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fmt.Errorf("%s is required", field)
	}
	return trimmed, nil
}

// Validator enforces content-type and size limits on multipart file parts.
type Validator struct {
	maxVideoBytes     int64
	maxThumbnailBytes int64
}

// New creates a Validator from the upload configuration.
func New(cfg config.UploadConfig) *Validator {
	return &Validator{
		maxVideoBytes:     cfg.MaxVideoBytes,
		maxThumbnailBytes: cfg.MaxThumbnailBytes,
	}
}

// ValidateVideoPart checks the uploaded video file part.
func (v *Validator) ValidateVideoPart(header *multipart.FileHeader) error {
	if header == nil {
		return fmt.Errorf("video file is required")
	}
	if v.maxVideoBytes > 0 && header.Size > v.maxVideoBytes {
		return fmt.Errorf("video file exceeds the %d byte limit", v.maxVideoBytes)
	}

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "video/") {
		return fmt.Errorf("video file must have a video content type, got %q", contentType)
	}

	return nil
}

// ValidateThumbnailPart checks the uploaded thumbnail file part.
func (v *Validator) ValidateThumbnailPart(header *multipart.FileHeader) error {
	if header == nil {
		return fmt.Errorf("thumbnail is required")
	}
	if v.maxThumbnailBytes > 0 && header.Size > v.maxThumbnailBytes {
		return fmt.Errorf("thumbnail exceeds the %d byte limit", v.maxThumbnailBytes)
	}

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return fmt.Errorf("thumbnail must have an image content type, got %q", contentType)
	}

	return nil
}
