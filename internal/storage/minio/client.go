package minio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/dtroode/certdash/internal/model"
)

// minioAPI is the subset of *minio.Client the storage uses; tests swap in a fake.
type minioAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error)
}

var _ minioAPI = (*minio.Client)(nil)

var _ model.BlobStorage = (*Client)(nil)

// Client stores document files in a single bucket. Object paths are
// "<user id>/<file name>" and public URLs are "<base>/<bucket>/<path>".
type Client struct {
	api     minioAPI
	bucket  string
	baseURL string
}

// NewClient creates the storage over a real *minio.Client.
func NewClient(ctx context.Context, client *minio.Client, bucket, publicBaseURL string) (*Client, error) {
	return NewClientWithAPI(ctx, client, bucket, publicBaseURL)
}

// NewClientWithAPI allows injecting a fake API in tests.
func NewClientWithAPI(ctx context.Context, api minioAPI, bucket, publicBaseURL string) (*Client, error) {
	c := &Client{
		api:     api,
		bucket:  bucket,
		baseURL: strings.TrimRight(publicBaseURL, "/"),
	}

	if err := c.ensureBucketExists(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}

	return c, nil
}

func (c *Client) ensureBucketExists(ctx context.Context) error {
	exists, err := c.api.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		if err := c.api.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

// Upload writes the object at path. A negative size streams until EOF.
func (c *Client) Upload(ctx context.Context, path string, reader io.Reader, size int64, contentType string) error {
	opts := minio.PutObjectOptions{ContentType: contentType}
	if _, err := c.api.PutObject(ctx, c.bucket, path, reader, size, opts); err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}
	return nil
}

// PublicURL returns the unsigned URL of the object at path.
func (c *Client) PublicURL(path string) string {
	return c.baseURL + "/" + c.bucket + "/" + strings.TrimLeft(path, "/")
}

// SignedURL returns a time-limited download URL. Missing objects yield model.ErrNotFound.
func (c *Client) SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error) {
	if _, err := c.api.StatObject(ctx, c.bucket, path, minio.StatObjectOptions{}); err != nil {
		if isNoSuchKey(err) {
			return "", model.ErrNotFound
		}
		return "", fmt.Errorf("failed to stat object: %w", err)
	}

	u, err := c.api.PresignedGetObject(ctx, c.bucket, path, ttl, nil)
	if err != nil {
		return "", fmt.Errorf("failed to presign object: %w", err)
	}
	return u.String(), nil
}

// Remove deletes the objects at paths. Already missing objects are not an error.
func (c *Client) Remove(ctx context.Context, paths ...string) error {
	var errs []error
	for _, p := range paths {
		err := c.api.RemoveObject(ctx, c.bucket, p, minio.RemoveObjectOptions{})
		if err != nil && !isNoSuchKey(err) {
			errs = append(errs, fmt.Errorf("failed to delete object %s: %w", p, err))
		}
	}
	return errors.Join(errs...)
}

func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}
