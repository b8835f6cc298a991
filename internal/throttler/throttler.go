// Package throttler provides functionality to let an action happen once per period for a key.
package throttler

import (
	"time"

	"github.com/patrickmn/go-cache"
)

const minCleanupInterval = time.Minute

// Throttler ...
type Throttler interface {
	// Allow returns true if the key wasn't allowed during the last period and marks it as allowed.
	Allow(key string) bool
	// Reset forgets the key.
	Reset(key string)
}

type throttler struct {
	c *cache.Cache
}

// New returns a new instance of Throttler.
func New(period time.Duration) Throttler {
	cleanup := period
	if cleanup < minCleanupInterval {
		cleanup = minCleanupInterval
	}

	return &throttler{
		c: cache.New(period, cleanup),
	}
}

// Allow ...
func (t *throttler) Allow(key string) bool {
	return t.c.Add(key, struct{}{}, cache.DefaultExpiration) == nil
}

// Reset ...
func (t *throttler) Reset(key string) {
	t.c.Delete(key)
}
