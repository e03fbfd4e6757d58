package model

import (
	"context"
	"io"
	"time"
)

// BlobStorage is the object storage collaborator holding document files.
type BlobStorage interface {
	Upload(ctx context.Context, path string, reader io.Reader, size int64, contentType string) error
	PublicURL(path string) string
	SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error)
	Remove(ctx context.Context, paths ...string) error
}
