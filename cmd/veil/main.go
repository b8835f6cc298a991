package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jessevdk/go-flags"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Decentr-net/logrus/sentry"

	"github.com/Decentr-net/veil/internal/cache"
	"github.com/Decentr-net/veil/internal/cdn"
	"github.com/Decentr-net/veil/internal/health"
	"github.com/Decentr-net/veil/internal/metrics"
	"github.com/Decentr-net/veil/internal/relationship"
	"github.com/Decentr-net/veil/internal/server"
	"github.com/Decentr-net/veil/internal/service"
	"github.com/Decentr-net/veil/internal/storage/postgres"
	"github.com/Decentr-net/veil/internal/telemetry"
	"github.com/Decentr-net/veil/internal/wallet"
)

// nolint:lll,gochecknoglobals
var opts = struct {
	Host             string        `long:"http.host" env:"HTTP_HOST" default:"localhost" description:"IP to listen on"`
	Port             int           `long:"http.port" env:"HTTP_PORT" default:"8080" description:"port to listen on for insecure connections, defaults to a random value"`
	MaxBodySize      int64         `long:"http.max-body-size" env:"HTTP_MAX_BODY_SIZE" default:"16000000" description:"max request's body size"`
	RequestTimeout   time.Duration `long:"http.request-timeout" env:"HTTP_REQUEST_TIMEOUT" default:"10s" description:"request processing timeout"`
	AllowedOrigins   []string      `long:"http.allowed-origins" env:"HTTP_ALLOWED_ORIGINS" env-delim:"," default:"*" description:"CORS allowed origins"`
	RequireSignature bool          `long:"http.require-signature" env:"HTTP_REQUIRE_SIGNATURE" description:"require signed requests instead of trusting Observer-Address header"`
	WalletPrefix     string        `long:"wallet.prefix" env:"WALLET_PREFIX" default:"decentr" description:"bech32 prefix of wallet addresses"`

	SentryDSN string `long:"sentry.dsn" env:"SENTRY_DSN" description:"sentry dsn"`
	LogLevel  string `long:"log.level" env:"LOG_LEVEL" default:"info" description:"Log level" choice:"debug" choice:"info" choice:"warning" choice:"error"`

	StorageTimeout         time.Duration `long:"service.storage-timeout" env:"SERVICE_STORAGE_TIMEOUT" default:"2s" description:"timeout of a single storage call on resolve path"`
	AllowTemporaryPolicies bool          `long:"service.allow-temporary-policies" env:"SERVICE_ALLOW_TEMPORARY_POLICIES" description:"store private variants unencrypted when encryption service is unavailable"`
	MaxImageSize           int           `long:"service.max-image-size" env:"SERVICE_MAX_IMAGE_SIZE" default:"5242880" description:"max size of an avatar variant"`

	CacheMaxEntries    int           `long:"cache.max-entries" env:"CACHE_MAX_ENTRIES" default:"100000" description:"access cache capacity, 0 means unlimited"`
	CacheSweepInterval time.Duration `long:"cache.sweep-interval" env:"CACHE_SWEEP_INTERVAL" default:"1m" description:"how often expired cache entries are removed"`

	CDNBaseURL       string        `long:"cdn.base-url" env:"CDN_BASE_URL" description:"CDN base url, storage presigned urls are used when empty"`
	CDNPublicExpiry  time.Duration `long:"cdn.public-expiry" env:"CDN_PUBLIC_EXPIRY" default:"24h" description:"lifetime of public variant presigned urls"`
	CDNPrivateExpiry time.Duration `long:"cdn.private-expiry" env:"CDN_PRIVATE_EXPIRY" default:"5m" description:"lifetime of private variant presigned urls"`
	CDNCacheSize     int           `long:"cdn.cache-size" env:"CDN_CACHE_SIZE" default:"10000" description:"count of cached presigned urls"`
	CDNFormat        string        `long:"cdn.format" env:"CDN_FORMAT" default:"webp" description:"format of public variants served by CDN"`
	CDNSize          uint          `long:"cdn.size" env:"CDN_SIZE" default:"256" description:"side size of public variants served by CDN"`
	CDNQuality       uint          `long:"cdn.quality" env:"CDN_QUALITY" default:"80" description:"quality of public variants served by CDN"`

	TelemetryFlushInterval time.Duration `long:"telemetry.flush-interval" env:"TELEMETRY_FLUSH_INTERVAL" default:"5s" description:"how often buffered events are saved"`

	S3Opts
	DBOpts
	SQSOpts
	RedisOpts
	GatewayOpts
}{}

var errTerminated = errors.New("terminated")

func main() {
	parser := flags.NewParser(&opts, flags.Default)
	parser.ShortDescription = "Veil"
	parser.LongDescription = "Veil"

	_, err := parser.Parse()

	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			parser.WriteHelp(os.Stdout)
			os.Exit(0)
		}
		logrus.WithError(err).Warn("error occurred while parsing flags")
	}

	lvl, _ := logrus.ParseLevel(opts.LogLevel) // err will always be nil
	logrus.SetLevel(lvl)

	setupLogger()

	db := mustGetDB()
	is := postgres.New(db)
	bs := mustGetBlobStorage()
	gw := mustGetGateway(is)
	bus := mustGetBus()
	m := metrics.New()

	cacheCfg := cache.DefaultConfig()
	cacheCfg.MaxEntries = opts.CacheMaxEntries
	c := cache.New(cacheCfg, bus)

	resolver, err := cdn.New(bs, cdn.Config{
		BaseURL:       opts.CDNBaseURL,
		PublicExpiry:  opts.CDNPublicExpiry,
		PrivateExpiry: opts.CDNPrivateExpiry,
		CacheSize:     opts.CDNCacheSize,
	})
	if err != nil {
		logrus.WithError(err).Fatal("failed to create cdn resolver")
	}

	recorder := telemetry.New(is, telemetry.DefaultConfig(), m)

	p := mustGetProducer()
	if p != nil && bus == nil {
		logrus.Error("sqs queue is set without redis: results cached before propagator applies a permission task live until their ttl")
	}

	cfg := service.DefaultConfig()
	cfg.StorageTimeout = opts.StorageTimeout
	cfg.GatewayTimeout = opts.GatewayTimeout
	cfg.AllowTemporaryPolicies = opts.AllowTemporaryPolicies
	cfg.MaxImageSize = opts.MaxImageSize
	cfg.CDN = cdn.Options{
		Format:  opts.CDNFormat,
		Size:    opts.CDNSize,
		Quality: opts.CDNQuality,
	}

	s := service.New(service.Params{
		Index:    is,
		Blobs:    bs,
		Gateway:  gw,
		Resolver: relationship.New(is),
		Cache:    c,
		CDN:      resolver,
		Producer: p,
		Recorder: recorder,
		Metrics:  m,
		Config:   cfg,
	})

	r := chi.NewMux()

	server.SetupRouter(s, r, server.Config{
		MaxBodySize:      opts.MaxBodySize,
		Timeout:          opts.RequestTimeout,
		AllowedOrigins:   opts.AllowedOrigins,
		RequireSignature: opts.RequireSignature,
		Prefix:           wallet.Prefix(opts.WalletPrefix),
	})

	checks := []health.Check{
		health.Named("postgres", is),
		health.Named("s3", bs),
		health.Named("gateway", gw),
	}
	if bus != nil {
		checks = append(checks, health.Named("redis", bus))
	}
	health.SetupRouter(r, checks...)
	r.Handle("/metrics", m.Handler())

	srv := http.Server{
		Addr:    fmt.Sprintf("%s:%d", opts.Host, opts.Port),
		Handler: r,
	}

	gr, ctx := errgroup.WithContext(context.Background())
	gr.Go(srv.ListenAndServe)

	gr.Go(func() error {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

		select {
		case s := <-sigs:
			logrus.Infof("terminating by %s signal", s)
		case <-ctx.Done():
		}

		if err := srv.Shutdown(context.Background()); err != nil {
			logrus.WithError(err).Error("failed to gracefully shutdown server")
		}

		return errTerminated
	})

	gr.Go(func() error {
		c.RunAsync(ctx, opts.CacheSweepInterval)
		return nil
	})

	gr.Go(func() error {
		if err := c.Listen(ctx); err != nil && ctx.Err() == nil {
			return fmt.Errorf("invalidation listener stopped: %w", err)
		}
		return nil
	})

	gr.Go(func() error {
		recorder.RunAsync(ctx, opts.TelemetryFlushInterval)
		return nil
	})

	logrus.Info("service started")

	if err := gr.Wait(); err != nil && !errors.Is(err, errTerminated) && !errors.Is(err, http.ErrServerClosed) {
		logrus.WithError(err).Fatal("service unexpectedly closed")
	}
}

func setupLogger() {
	if opts.SentryDSN != "" {
		hook, err := sentry.NewHook(sentry.Options{
			Dsn:              opts.SentryDSN,
			AttachStacktrace: true,
			Release:          health.GetVersion(),
		}, logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel)

		if err != nil {
			logrus.WithError(err).Fatal("failed to init sentry")
		}

		logrus.AddHook(hook)
	} else {
		logrus.Info("empty sentry dsn")
		logrus.Warn("skip sentry initialization")
	}
}
