package cache

import (
	"context"

	"github.com/Decentr-net/veil/internal/health"
)

//go:generate mockgen -destination=./mock/bus.go -package=mock -source=bus.go

// Bus spreads invalidated keys among service instances.
type Bus interface {
	health.Pinger

	// Publish sends keys to other instances.
	Publish(ctx context.Context, keys ...string) error
	// Subscribe calls f with keys published by other instances until ctx is done.
	Subscribe(ctx context.Context, f func(keys []string)) error
}
