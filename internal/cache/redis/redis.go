// Package redis contains implementation of invalidation bus over redis pub/sub.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/Decentr-net/veil/internal/cache"
)

var log = logrus.WithField("package", "redis")

// DefaultChannel is a channel used for invalidation messages.
const DefaultChannel = "veil:invalidate"

type message struct {
	Origin string   `json:"origin"`
	Keys   []string `json:"keys"`
}

type bus struct {
	c       redis.UniversalClient
	channel string
	origin  string
}

// New returns new instance of bus. Messages published by the instance itself are not delivered to it.
func New(c redis.UniversalClient, channel string) cache.Bus {
	if channel == "" {
		channel = DefaultChannel
	}

	return bus{
		c:       c,
		channel: channel,
		origin:  uuid.New().String(),
	}
}

// Ping is part of health.Pinger interface.
func (b bus) Ping(ctx context.Context) error {
	if err := b.c.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}
	return nil
}

// Publish is part of cache.Bus interface.
func (b bus) Publish(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	data, err := json.Marshal(message{Origin: b.origin, Keys: keys})
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if err := b.c.Publish(ctx, b.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish: %w", err)
	}

	return nil
}

// Subscribe is part of cache.Bus interface.
func (b bus) Subscribe(ctx context.Context, f func(keys []string)) error {
	ps := b.c.Subscribe(ctx, b.channel)
	defer ps.Close() // nolint

	if _, err := ps.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	ch := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return fmt.Errorf("subscription closed") // nolint:goerr113
			}

			var m message
			if err := json.Unmarshal([]byte(msg.Payload), &m); err != nil {
				log.WithError(err).WithField("payload", msg.Payload).Error("failed to unmarshal message")
				continue
			}

			if m.Origin == b.origin || len(m.Keys) == 0 {
				continue
			}

			f(m.Keys)
		}
	}
}
