package validation

import (
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipstack/video-service/internal/config"
)

func fileHeader(contentType string, size int64) *multipart.FileHeader {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Type", contentType)
	return &multipart.FileHeader{
		Filename: "upload",
		Header:   header,
		Size:     size,
	}
}

func TestRequireText(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    string
		wantErr bool
	}{
		{"plain value", "My Clip", "My Clip", false},
		{"trims whitespace", "  My Clip  ", "My Clip", false},
		{"empty", "", "", true},
		{"whitespace only", "   \t\n", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RequireText("title", tt.value)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "title")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidator_ValidateVideoPart(t *testing.T) {
	v := New(config.UploadConfig{MaxVideoBytes: 1000, MaxThumbnailBytes: 100})

	assert.NoError(t, v.ValidateVideoPart(fileHeader("video/mp4", 500)))
	assert.Error(t, v.ValidateVideoPart(nil))
	assert.Error(t, v.ValidateVideoPart(fileHeader("video/mp4", 1001)))
	assert.Error(t, v.ValidateVideoPart(fileHeader("image/png", 500)))
	assert.Error(t, v.ValidateVideoPart(fileHeader("", 500)))
}

func TestValidator_ValidateThumbnailPart(t *testing.T) {
	v := New(config.UploadConfig{MaxVideoBytes: 1000, MaxThumbnailBytes: 100})

	assert.NoError(t, v.ValidateThumbnailPart(fileHeader("image/png", 50)))
	assert.Error(t, v.ValidateThumbnailPart(nil))
	assert.Error(t, v.ValidateThumbnailPart(fileHeader("image/png", 101)))
	assert.Error(t, v.ValidateThumbnailPart(fileHeader("video/mp4", 50)))
}

func TestValidator_NoLimits(t *testing.T) {
	v := New(config.UploadConfig{})

	assert.NoError(t, v.ValidateVideoPart(fileHeader("video/mp4", 1<<40)))
	assert.NoError(t, v.ValidateThumbnailPart(fileHeader("image/jpeg", 1<<30)))
}
