package catalog

import (
	"context"
	"time"
)

// ImageStorage is the object store behind item images.
// Implemented by the infrastructure layer (S3, MinIO, RustFS, etc.)
type ImageStorage interface {
	// GenerateUploadURL returns a presigned PUT URL for storageKey and its expiry
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// PublicURL is the URL the storefront renders for storageKey
	PublicURL(storageKey string) string

	// StorageKey reverses PublicURL. It reports false for URLs this store did not issue.
	StorageKey(publicURL string) (string, bool)

	// DeleteObject removes an object; deleting a missing object succeeds
	DeleteObject(ctx context.Context, storageKey string) error
}
