package main

import (
	"encoding/hex"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Decentr-net/veil/internal/gateway"
	"github.com/Decentr-net/veil/internal/gateway/remote"
	"github.com/Decentr-net/veil/internal/gateway/sio"
	"github.com/Decentr-net/veil/internal/storage"
	"github.com/Decentr-net/veil/internal/storage/postgres"
)

type GatewayOpts struct {
	GatewayURL        string        `long:"gateway.url" env:"GATEWAY_URL" description:"threshold encryption service url, built-in gateway is used when empty"`
	GatewayTimeout    time.Duration `long:"gateway.timeout" env:"GATEWAY_TIMEOUT" default:"3s" description:"timeout of a single request to encryption service"`
	GatewayAttempts   uint          `long:"gateway.attempts" env:"GATEWAY_ATTEMPTS" default:"3" description:"attempts count of idempotent requests to encryption service"`
	GatewayRetryDelay time.Duration `long:"gateway.retry-delay" env:"GATEWAY_RETRY_DELAY" default:"100ms" description:"delay between attempts"`

	EncryptKey string `long:"encrypt-key" env:"ENCRYPT_KEY" description:"master key in hex which is used by built-in gateway for deriving policy keys"`
}

// mustGetGateway returns gateway and index storage which is nil unless built-in gateway is used.
func mustGetGateway() (gateway.Gateway, storage.IndexStorage) {
	if opts.GatewayURL == "" {
		logrus.Info("empty gateway url, use built-in gateway")

		is := postgres.New(mustGetDB())
		return sio.New(mustExtractEncryptKey(), is, is), is
	}

	gw, err := remote.New(remote.Config{
		BaseURL:  opts.GatewayURL,
		Timeout:  opts.GatewayTimeout,
		Attempts: opts.GatewayAttempts,
		Delay:    opts.GatewayRetryDelay,
	})
	if err != nil {
		logrus.WithError(err).Fatal("failed to create gateway client")
	}

	return gw, nil
}

func mustExtractEncryptKey() [32]byte {
	k, err := hex.DecodeString(opts.EncryptKey)
	if err != nil {
		logrus.WithError(err).Fatal("failed to decode encrypt key")
	}

	if len(k) != 32 {
		logrus.Fatal("encrypt key must be 32 bytes slice")
	}

	r := [32]byte{}
	copy(r[:], k)

	return r
}
