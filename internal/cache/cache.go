// Package cache provides read-through TTL cache of avatar results and metadata with targeted invalidation.
package cache

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/Decentr-net/veil/internal/entities"
)

var log = logrus.WithField("package", "cache")

// TTLClass selects entry lifetime.
type TTLClass uint8

// nolint
const (
	TTLDefault TTLClass = iota
	TTLPublic
	TTLPrivate
	TTLMetadata
	TTLShort
)

// Anonymous is used as observer part of result keys when observer is absent.
const Anonymous = "anonymous"

const (
	resultPrefix = "result:"
	metaPrefix   = "meta:"
	wildcard     = "*"
)

// Config ...
type Config struct {
	DefaultTTL  time.Duration
	PublicTTL   time.Duration
	PrivateTTL  time.Duration
	MetadataTTL time.Duration
	ShortTTL    time.Duration

	// MaxEntries is a ceiling of entries count. Zero means unlimited.
	MaxEntries int
}

// DefaultConfig returns default cache config.
func DefaultConfig() Config {
	return Config{
		DefaultTTL:  10 * time.Minute,
		PublicTTL:   time.Hour,
		PrivateTTL:  5 * time.Minute,
		MetadataTTL: 15 * time.Minute,
		ShortTTL:    time.Minute,
		MaxEntries:  100000,
	}
}

// Cache is an access cache. Bus is optional.
type Cache struct {
	mu  sync.Mutex
	c   *gocache.Cache
	cfg Config
	bus Bus
}

type metaEntry struct {
	record *entities.AvatarRecord
}

// New returns new instance of Cache.
func New(cfg Config, bus Bus) *Cache {
	return &Cache{
		c:   gocache.New(cfg.DefaultTTL, 0),
		cfg: cfg,
		bus: bus,
	}
}

// ResultKey returns key of resolution result for (subject, observer) pair.
func ResultKey(subject, observer string) string {
	if observer == "" {
		observer = Anonymous
	}
	return resultPrefix + subject + ":" + observer
}

// MetaKey returns key of subject's avatar metadata.
func MetaKey(subject string) string {
	return metaPrefix + subject
}

// SubjectKeys returns keys of all entries where subject is the subject.
func SubjectKeys(subject string) []string {
	return []string{resultPrefix + subject + ":" + wildcard, MetaKey(subject)}
}

// PairKeys returns result keys of both directions of the pair.
func PairKeys(a, b string) []string {
	return []string{ResultKey(a, b), ResultKey(b, a)}
}

func (c *Cache) ttl(class TTLClass) time.Duration {
	var d time.Duration
	switch class {
	case TTLPublic:
		d = c.cfg.PublicTTL
	case TTLPrivate:
		d = c.cfg.PrivateTTL
	case TTLMetadata:
		d = c.cfg.MetadataTTL
	case TTLShort:
		d = c.cfg.ShortTTL
	}

	if d <= 0 {
		d = c.cfg.DefaultTTL
	}
	return d
}

// GetResult returns cached result.
func (c *Cache) GetResult(subject, observer string) (entities.AvatarResult, bool) {
	v, ok := c.c.Get(ResultKey(subject, observer))
	if !ok {
		return entities.AvatarResult{}, false
	}

	r, ok := v.(entities.AvatarResult)
	return r, ok
}

// PutResult caches result for the ttl class.
func (c *Cache) PutResult(subject, observer string, r entities.AvatarResult, class TTLClass) {
	c.put(ResultKey(subject, observer), r, class)
}

// GetMeta returns cached avatar record. Nil record with true means the subject has no avatar.
func (c *Cache) GetMeta(subject string) (*entities.AvatarRecord, bool) {
	v, ok := c.c.Get(MetaKey(subject))
	if !ok {
		return nil, false
	}

	e, ok := v.(metaEntry)
	if !ok {
		return nil, false
	}

	if e.record == nil {
		return nil, true
	}

	r := *e.record
	return &r, true
}

// PutMeta caches avatar record. Nil record is cached as absence of avatar.
func (c *Cache) PutMeta(subject string, r *entities.AvatarRecord) {
	var e metaEntry
	if r != nil {
		v := *r
		e.record = &v
	}

	c.put(MetaKey(subject), e, TTLMetadata)
}

func (c *Cache) put(key string, v interface{}, class TTLClass) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfg.MaxEntries > 0 && c.c.ItemCount() >= c.cfg.MaxEntries {
		if _, exists := c.c.Get(key); !exists {
			c.evict()
		}
	}

	c.c.Set(key, v, c.ttl(class))
}

// evict removes expired entries and, if it's not enough, 10% of entries nearest to expiry.
func (c *Cache) evict() {
	c.c.DeleteExpired()

	if c.c.ItemCount() < c.cfg.MaxEntries {
		return
	}

	items := c.c.Items()

	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool {
		return items[keys[i]].Expiration < items[keys[j]].Expiration
	})

	n := len(keys) / 10
	if n == 0 {
		n = 1
	}

	for _, k := range keys[:n] {
		c.c.Delete(k)
	}

	log.WithField("count", n).Debug("evicted entries nearest to expiry")
}

// Invalidate removes keys locally and publishes them into the bus. Key with trailing * is a prefix.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	c.invalidateLocal(keys)

	if c.bus == nil || len(keys) == 0 {
		return
	}

	if err := c.bus.Publish(ctx, keys...); err != nil {
		log.WithError(err).WithField("keys", keys).Error("failed to publish invalidation")
	}
}

// InvalidateSubject removes all entries where subject is the subject.
func (c *Cache) InvalidateSubject(ctx context.Context, subject string) {
	c.Invalidate(ctx, SubjectKeys(subject)...)
}

// InvalidatePair removes results of both directions of the pair.
func (c *Cache) InvalidatePair(ctx context.Context, a, b string) {
	c.Invalidate(ctx, PairKeys(a, b)...)
}

func (c *Cache) invalidateLocal(keys []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var prefixes []string
	for _, k := range keys {
		if strings.HasSuffix(k, wildcard) {
			prefixes = append(prefixes, strings.TrimSuffix(k, wildcard))
			continue
		}
		c.c.Delete(k)
	}

	if len(prefixes) == 0 {
		return
	}

	for k := range c.c.Items() {
		for _, p := range prefixes {
			if strings.HasPrefix(k, p) {
				c.c.Delete(k)
				break
			}
		}
	}
}

// SweepExpired removes expired entries.
func (c *Cache) SweepExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.c.DeleteExpired()
}

// Len returns entries count including expired but not swept ones.
func (c *Cache) Len() int {
	return c.c.ItemCount()
}

// RunAsync sweeps expired entries every interval until ctx is done.
func (c *Cache) RunAsync(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			c.SweepExpired()
		}
	}
}

// Listen applies invalidations published by other instances until ctx is done.
func (c *Cache) Listen(ctx context.Context) error {
	if c.bus == nil {
		<-ctx.Done()
		return nil
	}

	return c.bus.Subscribe(ctx, func(keys []string) {
		log.WithField("keys", keys).Debug("remote invalidation")
		c.invalidateLocal(keys)
	})
}
