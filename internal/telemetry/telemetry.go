// Package telemetry buffers access and engagement events and flushes them into the storage.
package telemetry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Decentr-net/veil/internal/entities"
	"github.com/Decentr-net/veil/internal/storage"
	"github.com/Decentr-net/veil/internal/throttler"
)

//go:generate mockgen -destination=./mock/telemetry.go -package=mock -source=telemetry.go

var log = logrus.WithField("package", "telemetry")

const finalFlushTimeout = 5 * time.Second

// Recorder records events. Record never blocks.
type Recorder interface {
	Record(e entities.Event)
}

// Config ...
type Config struct {
	// BufferSize is a capacity of incoming events queue. Events are dropped when it's full.
	BufferSize int
	// BatchSize is the biggest count of events saved at once.
	BatchSize int
	// MaxPending is the biggest count of events retained between failed flushes.
	MaxPending int
	// DedupeWindow is a period in which view events of the same pair are recorded once.
	DedupeWindow time.Duration
}

// DefaultConfig ...
func DefaultConfig() Config {
	return Config{
		BufferSize:   10000,
		BatchSize:    500,
		MaxPending:   50000,
		DedupeWindow: time.Minute,
	}
}

// Buffered is a Recorder which saves events in batches.
type Buffered struct {
	es  storage.EventStorage
	cfg Config

	ch     chan *entities.Event
	dedupe throttler.Throttler

	mu      sync.Mutex
	pending []*entities.Event

	metrics Metrics
	now     func() time.Time
}

// Metrics are optional counters of the recorder.
type Metrics interface {
	EventDropped(reason string)
	EventsSaved(n int)
}

// New returns new instance of Buffered.
func New(es storage.EventStorage, cfg Config, m Metrics) *Buffered {
	d := DefaultConfig()
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = d.BufferSize
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = d.BatchSize
	}
	if cfg.MaxPending <= 0 {
		cfg.MaxPending = d.MaxPending
	}

	b := &Buffered{
		es:      es,
		cfg:     cfg,
		ch:      make(chan *entities.Event, cfg.BufferSize),
		metrics: m,
		now:     time.Now,
	}

	if cfg.DedupeWindow > 0 {
		b.dedupe = throttler.New(cfg.DedupeWindow)
	}

	return b
}

// Record ...
func (b *Buffered) Record(e entities.Event) {
	if e.Type == entities.EventAvatarView && b.dedupe != nil {
		if !b.dedupe.Allow(fmt.Sprintf("%s/%s/%s", e.SubjectID, e.ObserverID, e.Result)) {
			return
		}
	}

	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = b.now()
	}

	select {
	case b.ch <- &e:
	default:
		log.WithField("type", e.Type).Warn("events buffer is full, event dropped")
		b.dropped("buffer_full", 1)
	}
}

// Flush saves all recorded events. Events which are not saved are retained till the next flush.
func (b *Buffered) Flush(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.drain()

	for len(b.pending) > 0 {
		n := len(b.pending)
		if n > b.cfg.BatchSize {
			n = b.cfg.BatchSize
		}

		if err := b.es.SaveEvents(ctx, b.pending[:n]); err != nil {
			b.trim()
			return fmt.Errorf("failed to save events: %w", err)
		}

		if b.metrics != nil {
			b.metrics.EventsSaved(n)
		}

		b.pending = b.pending[n:]
	}

	b.pending = nil

	return nil
}

// Pending returns count of recorded but not saved events.
func (b *Buffered) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.pending) + len(b.ch)
}

// RunAsync flushes events every interval until ctx is done. The last flush is done after ctx is done.
func (b *Buffered) RunAsync(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			fctx, cancel := context.WithTimeout(context.Background(), finalFlushTimeout)
			if err := b.Flush(fctx); err != nil {
				log.WithError(err).WithField("pending", b.Pending()).Error("failed to flush events on shutdown")
			}
			cancel()
			return
		case <-t.C:
			if err := b.Flush(ctx); err != nil {
				log.WithError(err).WithField("pending", b.Pending()).Error("failed to flush events")
			}
		}
	}
}

func (b *Buffered) drain() {
	for {
		select {
		case e := <-b.ch:
			b.pending = append(b.pending, e)
		default:
			return
		}
	}
}

// trim drops the oldest pending events above the limit.
func (b *Buffered) trim() {
	if over := len(b.pending) - b.cfg.MaxPending; over > 0 {
		log.WithField("count", over).Warn("too many pending events, the oldest are dropped")
		b.pending = b.pending[over:]
		b.dropped("pending_overflow", over)
	}
}

func (b *Buffered) dropped(reason string, n int) {
	if b.metrics == nil {
		return
	}
	for i := 0; i < n; i++ {
		b.metrics.EventDropped(reason)
	}
}
