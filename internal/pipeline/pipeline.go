package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/storm-data-shared/retry"
	"github.com/jonboulle/clockwork"
	"github.com/robfig/cron/v3"

	"github.com/couchcryptid/pipeline-leak-watch/internal/domain"
	"github.com/couchcryptid/pipeline-leak-watch/internal/observability"
)

const (
	defaultInitialBackoff = 200 * time.Millisecond
	defaultMaxBackoff     = 5 * time.Second
	defaultMaxAttempts    = 5
)

// SnapshotSource evaluates the fleet on demand.
type SnapshotSource interface {
	Snapshot() domain.RiskSnapshot
}

// AlertLoader writes a snapshot's alerts to the destination.
type AlertLoader interface {
	LoadAlerts(ctx context.Context, alerts []domain.RiskAlert) error
}

// Publisher builds a risk snapshot on a cron schedule and loads its alerts.
type Publisher struct {
	source   SnapshotSource
	loader   AlertLoader
	schedule cron.Schedule
	spec     string
	clock    clockwork.Clock
	logger   *slog.Logger
	metrics  *observability.Metrics
	ready    atomic.Bool

	initialBackoff time.Duration
	maxBackoff     time.Duration
	maxAttempts    int
}

// Option customizes a Publisher.
type Option func(*Publisher)

// WithClock replaces the clock used to wait for schedule ticks.
func WithClock(c clockwork.Clock) Option {
	return func(p *Publisher) { p.clock = c }
}

// WithBackoff sets the retry backoff bounds and the attempts per snapshot.
func WithBackoff(initial, maxBackoff time.Duration, attempts int) Option {
	return func(p *Publisher) {
		p.initialBackoff = initial
		p.maxBackoff = maxBackoff
		p.maxAttempts = attempts
	}
}

// New creates a Publisher for a standard five-field cron spec or descriptor
// such as "@hourly".
func New(source SnapshotSource, loader AlertLoader, spec string, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) (*Publisher, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("parse alert schedule %q: %w", spec, err)
	}
	p := &Publisher{
		source:         source,
		loader:         loader,
		schedule:       schedule,
		spec:           spec,
		clock:          clockwork.NewRealClock(),
		logger:         logger,
		metrics:        metrics,
		initialBackoff: defaultInitialBackoff,
		maxBackoff:     defaultMaxBackoff,
		maxAttempts:    defaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.maxAttempts < 1 {
		p.maxAttempts = 1
	}
	return p, nil
}

// CheckReadiness returns nil once one snapshot has been published.
func (p *Publisher) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no risk snapshot has been published yet")
	}
	return nil
}

// Run publishes once immediately and then at every schedule tick until the
// context is cancelled.
func (p *Publisher) Run(ctx context.Context) error {
	p.logger.Info("alert publisher started", "schedule", p.spec)
	p.metrics.PublisherRunning.Set(1)
	defer p.metrics.PublisherRunning.Set(0)

	for {
		if err := p.PublishOnce(ctx); err != nil && ctx.Err() == nil {
			p.logger.Error("publish snapshot failed", "error", err)
		}

		now := p.clock.Now()
		next := p.schedule.Next(now)
		timer := p.clock.NewTimer(next.Sub(now))

		select {
		case <-ctx.Done():
			timer.Stop()
			p.logger.Info("alert publisher stopping", "reason", ctx.Err())
			return nil
		case <-timer.Chan():
		}
	}
}

// PublishOnce builds a snapshot and loads its alerts, retrying with
// exponential backoff up to the configured number of attempts.
func (p *Publisher) PublishOnce(ctx context.Context) error {
	start := time.Now()
	snap := p.source.Snapshot()
	p.metrics.SnapshotAlerts.Observe(float64(len(snap.Alerts)))

	backoff := p.initialBackoff
	var err error
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		err = p.loader.LoadAlerts(ctx, snap.Alerts)
		if err == nil {
			break
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		p.metrics.PublishErrors.Inc()
		p.logger.Warn("load alerts failed",
			"error", err,
			"snapshot_id", snap.ID,
			"attempt", attempt,
			"alerts", len(snap.Alerts),
		)
		if attempt == p.maxAttempts || !retry.SleepWithContext(ctx, backoff) {
			break
		}
		backoff = retry.NextBackoff(backoff, p.maxBackoff)
	}
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("publish snapshot %s: %w", snap.ID, err)
	}

	p.metrics.AlertsPublished.Add(float64(len(snap.Alerts)))
	p.metrics.PublishDuration.Observe(time.Since(start).Seconds())
	p.ready.Store(true)
	p.logger.Info("risk snapshot published",
		"snapshot_id", snap.ID,
		"alerts", len(snap.Alerts),
		"at_risk", snap.KPIs.AtRisk,
		"threshold", snap.Threshold,
	)
	return nil
}
