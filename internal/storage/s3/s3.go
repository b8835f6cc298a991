// Package s3 contains implementation of BlobStorage interface with any s3-compatible storage.
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/sirupsen/logrus"

	"github.com/Decentr-net/veil/internal/storage"
)

// MaxURLExpiry is the longest expiry s3 accepts for presigned urls.
const MaxURLExpiry = 7 * 24 * time.Hour

type s3 struct {
	c *minio.Client
	b string
}

// NewStorage returns s3 implementation of BlobStorage interface.
func NewStorage(client *minio.Client, bucket string) (storage.BlobStorage, error) {
	logrus.WithField("bucket", bucket).Debug("check bucket existence")
	exists, err := client.BucketExists(context.Background(), bucket)
	if err != nil {
		return nil, err
	}

	if !exists {
		logrus.WithField("bucket", bucket).Info("create bucket in s3 storage")
		if err := client.MakeBucket(context.Background(), bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}

	return &s3{
		c: client,
		b: bucket,
	}, nil
}

func (s s3) Ping(ctx context.Context) error {
	_, err := s.c.ListBuckets(ctx)
	if err != nil {
		return errors.New("connection with S3 seems broken") // nolint:goerr113
	}
	return nil
}

// Read returns ReadCloser with blob content from s3 storage.
func (s s3) Read(ctx context.Context, path string) (io.ReadCloser, error) {
	r, err := s.c.GetObject(ctx, s.b, path, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}

	if _, err := r.Stat(); err != nil {
		r.Close() // nolint
		if isNotFound(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get reader stats: %w", err)
	}

	return r, nil
}

// Write puts blob into s3 storage.
func (s s3) Write(ctx context.Context, r io.Reader, size int64, path string, contentType string) error {
	if _, err := s.c.PutObject(ctx, s.b, path, r, size, minio.PutObjectOptions{DisableMultipart: true, ContentType: contentType}); err != nil {
		return fmt.Errorf("failed to put object: %w", err)
	}
	return nil
}

// GetURL returns presigned url of the blob.
func (s s3) GetURL(ctx context.Context, path string, expiry time.Duration) (string, error) {
	if _, err := s.c.StatObject(ctx, s.b, path, minio.StatObjectOptions{}); err != nil {
		if isNotFound(err) {
			return "", storage.ErrNotFound
		}
		return "", fmt.Errorf("failed to stat object: %w", err)
	}

	if expiry <= 0 || expiry > MaxURLExpiry {
		expiry = MaxURLExpiry
	}

	u, err := s.c.PresignedGetObject(ctx, s.b, path, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to presign url: %w", err)
	}

	return u.String(), nil
}

// Delete removes blob. Absent blob is not an error.
func (s s3) Delete(ctx context.Context, path string) error {
	if err := s.c.RemoveObject(ctx, s.b, path, minio.RemoveObjectOptions{}); err != nil {
		if isNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to remove object: %w", err)
	}
	return nil
}

func isNotFound(err error) bool {
	return minio.ToErrorResponse(err).StatusCode == http.StatusNotFound
}
