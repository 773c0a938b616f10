package storage

import (
	"context"
	"io"
	"time"
)

// ObjectStore abstracts the blob backend so services and tests don't care
// whether bytes land in MinIO or in memory.
type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	PresignedURL(ctx context.Context, key string, expires time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}
