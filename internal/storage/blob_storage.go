package storage

import (
	"context"
	"io"
	"time"

	"github.com/Decentr-net/veil/internal/health"
)

//go:generate mockgen -destination=./mock/blob_storage.go -package=mock -source=blob_storage.go

// BlobStorage is interface which provides access to avatar variants.
type BlobStorage interface {
	health.Pinger

	Read(ctx context.Context, path string) (io.ReadCloser, error)
	Write(ctx context.Context, data io.Reader, size int64, path string, contentType string) error
	// GetURL returns a fetchable url of the blob valid for expiry.
	GetURL(ctx context.Context, path string, expiry time.Duration) (string, error)
	Delete(ctx context.Context, path string) error
}
