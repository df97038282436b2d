// Package storage provides S3-compatible object storage for generated
// artifacts such as site content documents.
package storage

import (
	"context"
	"time"

	"heyjarvis_backend/platform/config"
)

// PresignedURL contains the URL and metadata for a presigned download.
type PresignedURL struct {
	URL       string    `json:"url"`
	FileKey   string    `json:"fileKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// StorageService defines the object storage operations used by the app.
type StorageService interface {
	// EnsureBucketExists creates the bucket if it doesn't exist.
	EnsureBucketExists(ctx context.Context, bucket string) error

	// PutJSON encodes v and stores it under key. Returns the stored key.
	PutJSON(ctx context.Context, bucket, key string, v any) (string, error)

	// GenerateDownloadURL creates a presigned URL for downloading an object.
	GenerateDownloadURL(ctx context.Context, bucket, fileKey string) (*PresignedURL, error)

	// DeleteObject removes an object from storage.
	DeleteObject(ctx context.Context, bucket, fileKey string) error
}

// Config defines the configuration interface for storage.
type Config = config.MinIOConfig
