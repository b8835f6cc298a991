// Package cdn resolves blob ids to fetchable urls.
package cdn

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	valid "github.com/asaskevich/govalidator"
	lru "github.com/hashicorp/golang-lru"

	"github.com/Decentr-net/veil/internal/storage"
)

// ErrInvalidBlob is returned for empty blob id.
var ErrInvalidBlob = errors.New("invalid blob id")

const (
	defaultPublicExpiry  = 24 * time.Hour
	defaultPrivateExpiry = 15 * time.Minute
	defaultCacheSize     = 10000
)

// Options are transformation params passed to CDN.
type Options struct {
	Format  string
	Size    uint
	Quality uint
}

func (o Options) values() url.Values {
	v := url.Values{}
	if o.Format != "" {
		v.Set("format", o.Format)
	}
	if o.Size > 0 {
		v.Set("width", strconv.FormatUint(uint64(o.Size), 10))
		v.Set("height", strconv.FormatUint(uint64(o.Size), 10))
	}
	if o.Quality > 0 {
		v.Set("quality", strconv.FormatUint(uint64(o.Quality), 10))
	}
	return v
}

// Config ...
type Config struct {
	// BaseURL of CDN. Public variants are served from storage presigned urls when it's empty.
	BaseURL       string
	PublicExpiry  time.Duration
	PrivateExpiry time.Duration
	CacheSize     int
}

// Resolver maps blob ids to urls.
type Resolver struct {
	blobs storage.BlobStorage
	base  *url.URL

	publicExpiry  time.Duration
	privateExpiry time.Duration

	urls *lru.ARCCache
	now  func() time.Time
}

type presigned struct {
	url     string
	staleAt time.Time
}

// New returns new instance of Resolver.
func New(blobs storage.BlobStorage, cfg Config) (*Resolver, error) {
	r := &Resolver{
		blobs:         blobs,
		publicExpiry:  cfg.PublicExpiry,
		privateExpiry: cfg.PrivateExpiry,
		now:           time.Now,
	}

	if cfg.BaseURL != "" {
		if !valid.IsURL(cfg.BaseURL) {
			return nil, fmt.Errorf("invalid cdn base url %s", cfg.BaseURL) // nolint:goerr113
		}

		u, err := url.Parse(cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse cdn base url: %w", err)
		}
		r.base = u
	}

	if r.publicExpiry <= 0 {
		r.publicExpiry = defaultPublicExpiry
	}
	if r.privateExpiry <= 0 {
		r.privateExpiry = defaultPrivateExpiry
	}

	size := cfg.CacheSize
	if size <= 0 {
		size = defaultCacheSize
	}

	c, err := lru.NewARC(size)
	if err != nil {
		return nil, fmt.Errorf("failed to create url cache: %w", err)
	}
	r.urls = c

	return r, nil
}

// PublicURL returns url of public variant.
func (r *Resolver) PublicURL(ctx context.Context, blobID string, opts Options) (string, error) {
	if blobID == "" {
		return "", ErrInvalidBlob
	}

	if r.base == nil {
		return r.presign(ctx, blobID, r.publicExpiry)
	}

	u := *r.base
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + blobID
	u.RawQuery = opts.values().Encode()

	return u.String(), nil
}

// PrivateURL returns short-lived url of private variant. It's never served through CDN.
func (r *Resolver) PrivateURL(ctx context.Context, blobID string) (string, error) {
	if blobID == "" {
		return "", ErrInvalidBlob
	}

	return r.presign(ctx, blobID, r.privateExpiry)
}

// Forget drops memoized urls of blobs.
func (r *Resolver) Forget(blobIDs ...string) {
	for _, id := range blobIDs {
		r.urls.Remove(key(id, r.publicExpiry))
		r.urls.Remove(key(id, r.privateExpiry))
	}
}

// presign returns memoized url while it has at least half of its lifetime left.
func (r *Resolver) presign(ctx context.Context, blobID string, expiry time.Duration) (string, error) {
	k := key(blobID, expiry)

	if v, ok := r.urls.Get(k); ok {
		if p, ok := v.(presigned); ok && r.now().Before(p.staleAt) {
			return p.url, nil
		}
	}

	s, err := r.blobs.GetURL(ctx, blobID, expiry)
	if err != nil {
		return "", fmt.Errorf("failed to get url: %w", err)
	}

	r.urls.Add(k, presigned{url: s, staleAt: r.now().Add(expiry / 2)})

	return s, nil
}

func key(blobID string, expiry time.Duration) string {
	return blobID + "/" + expiry.String()
}
