package main

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/Decentr-net/veil/internal/cache"
	cacheredis "github.com/Decentr-net/veil/internal/cache/redis"
)

type RedisOpts struct {
	RedisAddrs    []string `long:"redis.addr" env:"REDIS_ADDR" env-delim:"," description:"redis addresses, cache invalidations aren't shared between instances when empty"`
	RedisPassword string   `long:"redis.password" env:"REDIS_PASSWORD" description:"redis password"`
	RedisDB       int      `long:"redis.db" env:"REDIS_DB" default:"0" description:"redis database"`
	RedisChannel  string   `long:"redis.channel" env:"REDIS_CHANNEL" default:"veil:invalidate" description:"redis channel for cache invalidations"`
}

// mustGetBus returns nil when redis isn't configured.
func mustGetBus() cache.Bus {
	if len(opts.RedisAddrs) == 0 {
		logrus.Warn("empty redis address, skip invalidation bus initialization")
		return nil
	}

	c := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:    opts.RedisAddrs,
		Password: opts.RedisPassword,
		DB:       opts.RedisDB,
	})

	if err := c.Ping(context.Background()).Err(); err != nil {
		logrus.WithError(err).Fatal("failed to ping redis")
	}

	return cacheredis.New(c, opts.RedisChannel)
}
