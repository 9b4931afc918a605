// Package storage provides the media storage collaborator: upload and
// delete of video/thumbnail assets against an S3-compatible object store.
package storage

import "context"

// UploadResult describes a stored asset. StorageID is the opaque handle
// used to delete the asset later; Duration is the probed media duration
// in seconds (zero for images).
type UploadResult struct {
	URL       string
	StorageID string
	Duration  float64
}

// MediaStore is the media storage contract. Both calls are single-attempt:
// no retries, no transactionality across an upload/delete pair.
type MediaStore interface {
	// Upload stores the file at localPath and returns the asset handle.
	Upload(ctx context.Context, localPath, contentType string) (*UploadResult, error)

	// Delete removes a previously uploaded asset.
	Delete(ctx context.Context, storageID string) error
}
