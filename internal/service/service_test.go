package service

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/Decentr-net/veil/internal/cache"
	"github.com/Decentr-net/veil/internal/cdn"
	"github.com/Decentr-net/veil/internal/entities"
	gatewaymock "github.com/Decentr-net/veil/internal/gateway/mock"
	producermock "github.com/Decentr-net/veil/internal/producer/mock"
	storagemock "github.com/Decentr-net/veil/internal/storage/mock"
)

const (
	alice = "alice"
	bob   = "bob"
	carol = "carol"

	publicBlob  = "alice/1/public"
	privateBlob = "alice/1/private"
	publicURL   = "https://cdn.test/alice/1/public"
	privateURL  = "https://s3.test/alice/1/private?sig"
)

var (
	ctx     = context.Background()
	errTest = errors.New("test")

	now = time.Date(2022, 6, 1, 12, 0, 0, 0, time.UTC)
)

type recorder struct {
	mu     sync.Mutex
	events []entities.Event
}

func (r *recorder) Record(e entities.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, e)
}

func (r *recorder) types() []entities.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]entities.EventType, len(r.events))
	for i, v := range r.events {
		out[i] = v.Type
	}
	return out
}

type env struct {
	idx      *storagemock.MockIndexStorage
	blobs    *storagemock.MockBlobStorage
	gw       *gatewaymock.MockGateway
	producer *producermock.MockProducer
	cache    *cache.Cache
	recorder *recorder

	s *service
}

type option func(p *Params)

func withoutProducer(p *Params) {
	p.Producer = nil
}

func withTemporaryPolicies(p *Params) {
	p.Config.AllowTemporaryPolicies = true
}

func newEnv(t *testing.T, opts ...option) *env {
	ctrl := gomock.NewController(t)

	e := env{
		idx:      storagemock.NewMockIndexStorage(ctrl),
		blobs:    storagemock.NewMockBlobStorage(ctrl),
		gw:       gatewaymock.NewMockGateway(ctrl),
		producer: producermock.NewMockProducer(ctrl),
		cache:    cache.New(cache.DefaultConfig(), nil),
		recorder: &recorder{},
	}

	resolver, err := cdn.New(e.blobs, cdn.Config{BaseURL: "https://cdn.test"})
	require.NoError(t, err)

	p := Params{
		Index:    e.idx,
		Blobs:    e.blobs,
		Gateway:  e.gw,
		Cache:    e.cache,
		CDN:      resolver,
		Producer: e.producer,
		Recorder: e.recorder,
		Config:   DefaultConfig(),
	}
	for _, o := range opts {
		o(&p)
	}

	e.s = New(p).(*service)
	e.s.now = func() time.Time { return now }

	return &e
}

func days(n uint32) *uint32 {
	return &n
}

func record(mod ...func(r *entities.AvatarRecord)) *entities.AvatarRecord {
	uploaded := now.Add(-24 * time.Hour)

	r := entities.AvatarRecord{
		SubjectID:     alice,
		PublicBlobID:  publicBlob,
		PrivateBlobID: privateBlob,
		PolicyID:      "policy",
		PolicyKind:    entities.PolicyKindReal,
		KeyID:         "key",
		UploadedAt:    &uploaded,
		Settings: entities.AvatarSettings{
			Enabled:       true,
			Visibility:    entities.VisibilityMatchesOnly,
			AllowDownload: true,
		},
	}

	for _, f := range mod {
		f(&r)
	}

	return &r
}

func interests(a, b entities.MatchStatus) []*entities.InterestRecord {
	return []*entities.InterestRecord{
		{SourceID: bob, TargetID: alice, MatchStatus: a},
		{SourceID: alice, TargetID: bob, MatchStatus: b},
	}
}

func pngImage(t *testing.T) []byte {
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, imaging.New(2, 2, color.White), imaging.PNG))
	return buf.Bytes()
}
