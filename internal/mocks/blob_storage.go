package mocks

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"
)

type BlobStorage struct {
	mock.Mock
}

func NewBlobStorage(t testingT) *BlobStorage { return expect(t, &BlobStorage{}) }

func (m *BlobStorage) Upload(ctx context.Context, path string, reader io.Reader, size int64, contentType string) error {
	return m.Called(ctx, path, reader, size, contentType).Error(0)
}

func (m *BlobStorage) PublicURL(path string) string {
	return m.Called(path).String(0)
}

func (m *BlobStorage) SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, path, ttl)
	return args.String(0), args.Error(1)
}

func (m *BlobStorage) Remove(ctx context.Context, paths ...string) error {
	args := make([]any, 0, len(paths)+1)
	args = append(args, ctx)
	for _, p := range paths {
		args = append(args, p)
	}
	return m.Called(args...).Error(0)
}
