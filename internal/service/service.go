// Package service contains business logic of avatar visibility.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Decentr-net/veil/internal/cache"
	"github.com/Decentr-net/veil/internal/cdn"
	"github.com/Decentr-net/veil/internal/entities"
	"github.com/Decentr-net/veil/internal/gateway"
	"github.com/Decentr-net/veil/internal/metrics"
	"github.com/Decentr-net/veil/internal/producer"
	"github.com/Decentr-net/veil/internal/relationship"
	"github.com/Decentr-net/veil/internal/storage"
	"github.com/Decentr-net/veil/internal/telemetry"
)

//go:generate mockgen -destination=./service_mock.go -package=service -source=service.go

var log = logrus.WithField("package", "service")

// nolint
var (
	// ErrValidation is returned on invalid input.
	ErrValidation = errors.New("validation error")
	// ErrNotFound means that requested avatar is not found.
	ErrNotFound = errors.New("not found")
	// ErrStorageFailure is returned when blob or index storage is unreachable.
	ErrStorageFailure = errors.New("storage failure")

	ErrAccessDenied      = gateway.ErrAccessDenied
	ErrEncryptionFailure = gateway.ErrEncryptionFailure
	ErrDecryptionFailure = gateway.ErrDecryptionFailure
)

// ExpiredMessage is an error of resolution result of expired avatar.
const ExpiredMessage = "Avatar has expired"

// Service interface provides service's logic's methods.
type Service interface {
	// ResolveAvatar returns avatar variant observer may see. It never fails, failures degrade to public or placeholder.
	// Empty observer means anonymous view.
	ResolveAvatar(ctx context.Context, subject, observer string) entities.AvatarResult
	// RecordUpload stores both variants of subject's avatar, the private one is encrypted under a new policy.
	RecordUpload(ctx context.Context, p UploadParams) (*entities.AvatarRecord, error)
	// DeleteAvatar removes subject's avatar and deactivates its policy.
	DeleteAvatar(ctx context.Context, subject string) error
	// UpdatePermission grants or revokes observer's access to subject's private variant. It's best effort.
	UpdatePermission(ctx context.Context, subject, observer string, action entities.PermissionAction)
	// ReceivePrivate returns decrypted private variant of subject's avatar.
	ReceivePrivate(ctx context.Context, subject, observer string) ([]byte, error)
}

// UploadParams ...
type UploadParams struct {
	SubjectID string
	Public    []byte
	Private   []byte
	Settings  entities.AvatarSettings
}

// Config ...
type Config struct {
	// StorageTimeout bounds a single index or blob storage call on the read path.
	StorageTimeout time.Duration
	// GatewayTimeout bounds a single encryption gateway call.
	GatewayTimeout time.Duration
	// AllowTemporaryPolicies lets uploads succeed without encryption when the gateway is unavailable.
	AllowTemporaryPolicies bool
	// MaxImageSize is the biggest accepted size of a variant.
	MaxImageSize int
	// CDN are transformation options of public variant urls.
	CDN cdn.Options
}

// DefaultConfig ...
func DefaultConfig() Config {
	return Config{
		StorageTimeout: 2 * time.Second,
		GatewayTimeout: 3 * time.Second,
		MaxImageSize:   gateway.MaxPayloadSize,
	}
}

// Params are service dependencies. Producer, Recorder and Metrics are optional.
type Params struct {
	Index    storage.IndexStorage
	Blobs    storage.BlobStorage
	Gateway  gateway.Gateway
	Resolver *relationship.Resolver
	Cache    *cache.Cache
	CDN      *cdn.Resolver
	Producer producer.Producer
	Recorder telemetry.Recorder
	Metrics  *metrics.Metrics
	Config   Config
}

// service is Service interface implementation.
type service struct {
	idx   storage.IndexStorage
	blobs storage.BlobStorage
	gw    gateway.Gateway
	rel   *relationship.Resolver
	cache *cache.Cache
	cdn   *cdn.Resolver

	producer producer.Producer
	recorder telemetry.Recorder
	metrics  *metrics.Metrics

	cfg Config
	now func() time.Time
}

type nopRecorder struct{}

func (nopRecorder) Record(entities.Event) {}

// New returns new instance of service.
func New(p Params) Service {
	s := &service{
		idx:      p.Index,
		blobs:    p.Blobs,
		gw:       p.Gateway,
		rel:      p.Resolver,
		cache:    p.Cache,
		cdn:      p.CDN,
		producer: p.Producer,
		recorder: p.Recorder,
		metrics:  p.Metrics,
		cfg:      p.Config,
		now:      time.Now,
	}

	if s.rel == nil {
		s.rel = relationship.New(p.Index)
	}
	if s.recorder == nil {
		s.recorder = nopRecorder{}
	}
	if s.cfg.MaxImageSize <= 0 || s.cfg.MaxImageSize > gateway.MaxPayloadSize {
		s.cfg.MaxImageSize = gateway.MaxPayloadSize
	}

	return s
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// getMeta returns avatar record through metadata cache. Nil record means the subject has no avatar.
func (s *service) getMeta(ctx context.Context, subject string) (*entities.AvatarRecord, error) {
	if r, ok := s.cache.GetMeta(subject); ok {
		s.metrics.CacheLookup("meta", true)
		return r, nil
	}
	s.metrics.CacheLookup("meta", false)

	ctx, cancel := withTimeout(ctx, s.cfg.StorageTimeout)
	defer cancel()

	r, err := s.idx.GetAvatar(ctx, subject)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		r = nil
	case err != nil:
		return nil, err
	}

	s.cache.PutMeta(subject, r)

	return r, nil
}
