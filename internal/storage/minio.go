package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/clipstack/video-service/internal/config"
	"github.com/clipstack/video-service/internal/metrics"
	"github.com/clipstack/video-service/pkg/logger"
)

// MinIOStore implements MediaStore against MinIO / any S3-compatible store.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type MinIOStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
	endpoint  string
	useSSL    bool
	prober    DurationProber
}

// NewMinIOStore connects to the object store and ensures the bucket exists.
func NewMinIOStore(cfg config.StorageConfig, prober DurationProber) (*MinIOStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}

	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
		logger.Log.Info("Storage bucket created", zap.String("bucket", cfg.Bucket))
	}

	if prober == nil {
		prober = NewFFProbeProber("")
	}

	logger.Log.Info("Media storage initialized",
		zap.String("endpoint", cfg.Endpoint),
		zap.String("bucket", cfg.Bucket),
		zap.Bool("ssl", cfg.UseSSL),
	)

	return &MinIOStore{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimSuffix(cfg.PublicURL, "/"),
		endpoint:  cfg.Endpoint,
		useSSL:    cfg.UseSSL,
		prober:    prober,
	}, nil
}

// Upload stores the file under a generated object key. Video uploads are
// probed for duration before the transfer; a probe failure fails the
// upload rather than persisting a record with an unknown duration.
func (s *MinIOStore) Upload(ctx context.Context, localPath, contentType string) (*UploadResult, error) {
	key := objectKey(localPath, contentType)
	kind := mediaKind(contentType)

	var duration float64
	if strings.HasPrefix(contentType, "video/") {
		d, err := s.prober.Probe(ctx, localPath)
		if err != nil {
			metrics.RecordUpload(kind, "failure", 0)
			return nil, fmt.Errorf("probe media duration: %w", err)
		}
		duration = d
	}

	info, err := s.client.FPutObject(ctx, s.bucket, key, localPath, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		metrics.RecordUpload(kind, "failure", 0)
		return nil, fmt.Errorf("upload object: %w", err)
	}
	metrics.RecordUpload(kind, "success", info.Size)

	logger.Log.Debug("Asset uploaded",
		zap.String("key", key),
		zap.String("contentType", contentType),
	)

	return &UploadResult{
		URL:       s.assetURL(key),
		StorageID: key,
		Duration:  duration,
	}, nil
}

// Delete removes the object addressed by storageID.
func (s *MinIOStore) Delete(ctx context.Context, storageID string) error {
	err := s.client.RemoveObject(ctx, s.bucket, storageID, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}

	logger.Log.Debug("Asset deleted", zap.String("key", storageID))
	return nil
}

func (s *MinIOStore) assetURL(key string) string {
	if s.publicURL != "" {
		return s.publicURL + "/" + key
	}

	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.endpoint, s.bucket, key)
}

func mediaKind(contentType string) string {
	switch {
	case strings.HasPrefix(contentType, "video/"):
		return "video"
	case strings.HasPrefix(contentType, "image/"):
		return "thumbnail"
	default:
		return "asset"
	}
}

// objectKey builds a collision-free object key: a media-class prefix,
// a date partition, a fresh UUID, and the original extension.
func objectKey(localPath, contentType string) string {
	class := "assets"
	switch {
	case strings.HasPrefix(contentType, "video/"):
		class = "videos"
	case strings.HasPrefix(contentType, "image/"):
		class = "thumbnails"
	}

	ext := strings.ToLower(filepath.Ext(localPath))
	return fmt.Sprintf("%s/%s/%s%s", class, time.Now().UTC().Format("2006/01/02"), uuid.NewString(), ext)
}
