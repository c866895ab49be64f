package pipeline_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/pipeline-leak-watch/internal/domain"
	"github.com/couchcryptid/pipeline-leak-watch/internal/observability"
	"github.com/couchcryptid/pipeline-leak-watch/internal/pipeline"
)

// --- mocks ---

type stubSource struct {
	mu    sync.Mutex
	calls int
	snap  domain.RiskSnapshot
}

func (s *stubSource) Snapshot() domain.RiskSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.snap
}

func (s *stubSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type mockLoader struct {
	mu       sync.Mutex
	failures int // fail this many calls before succeeding
	loaded   [][]domain.RiskAlert
	attempts int
}

func (m *mockLoader) LoadAlerts(_ context.Context, alerts []domain.RiskAlert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts++
	if m.attempts <= m.failures {
		return errors.New("broker unavailable")
	}
	m.loaded = append(m.loaded, alerts)
	return nil
}

func (m *mockLoader) loadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.loaded)
}

func testSnapshot() domain.RiskSnapshot {
	at := time.Date(2024, time.April, 26, 15, 10, 0, 0, time.UTC)
	p := domain.PipelineEntity{ID: 3, Name: "Ghawar-02", LeakProb: 0.41}
	return domain.RiskSnapshot{
		ID:          "snap-1",
		GeneratedAt: at,
		Threshold:   0.3,
		KPIs:        domain.KPIStats{Total: 10, AtRisk: 1, Normal: 9},
		Alerts: []domain.RiskAlert{
			{SnapshotID: "snap-1", GeneratedAt: at, Threshold: 0.3, RiskLevel: domain.RiskHigh, Pipeline: p},
		},
	}
}

func fastBackoff() pipeline.Option {
	return pipeline.WithBackoff(time.Millisecond, 2*time.Millisecond, 3)
}

// --- tests ---

func TestNew_InvalidSchedule(t *testing.T) {
	_, err := pipeline.New(&stubSource{}, &mockLoader{}, "not a schedule", slog.Default(), observability.NewMetricsForTesting())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a schedule")
}

func TestPublisher_PublishOnce(t *testing.T) {
	src := &stubSource{snap: testSnapshot()}
	ldr := &mockLoader{}
	metrics := observability.NewMetricsForTesting()

	p, err := pipeline.New(src, ldr, "@hourly", slog.Default(), metrics)
	require.NoError(t, err)
	require.Error(t, p.CheckReadiness(context.Background()))

	require.NoError(t, p.PublishOnce(context.Background()))

	require.Len(t, ldr.loaded, 1)
	assert.Equal(t, src.snap.Alerts, ldr.loaded[0])
	assert.NoError(t, p.CheckReadiness(context.Background()))
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.AlertsPublished), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(metrics.PublishErrors), 0)
}

func TestPublisher_PublishOnce_RetriesThenSucceeds(t *testing.T) {
	src := &stubSource{snap: testSnapshot()}
	ldr := &mockLoader{failures: 2}
	metrics := observability.NewMetricsForTesting()

	p, err := pipeline.New(src, ldr, "@hourly", slog.Default(), metrics, fastBackoff())
	require.NoError(t, err)

	require.NoError(t, p.PublishOnce(context.Background()))
	assert.Equal(t, 3, ldr.attempts)
	assert.Equal(t, 1, ldr.loadCount())
	assert.Equal(t, 1, src.callCount(), "retries reuse the same snapshot")
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.PublishErrors), 0)
	assert.NoError(t, p.CheckReadiness(context.Background()))
}

func TestPublisher_PublishOnce_GivesUp(t *testing.T) {
	ldr := &mockLoader{failures: 100}
	metrics := observability.NewMetricsForTesting()

	p, err := pipeline.New(&stubSource{snap: testSnapshot()}, ldr, "@hourly", slog.Default(), metrics, fastBackoff())
	require.NoError(t, err)

	err = p.PublishOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "snap-1")
	assert.Equal(t, 3, ldr.attempts)
	assert.InDelta(t, 3, testutil.ToFloat64(metrics.PublishErrors), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(metrics.AlertsPublished), 0)
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestPublisher_PublishOnce_ContextCancelledDuringBackoff(t *testing.T) {
	ldr := &mockLoader{failures: 100}
	p, err := pipeline.New(&stubSource{snap: testSnapshot()}, ldr, "@hourly", slog.Default(),
		observability.NewMetricsForTesting(), pipeline.WithBackoff(time.Hour, time.Hour, 5))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err = p.PublishOnce(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, ldr.attempts)
}

func TestPublisher_Run_PublishesOnSchedule(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, time.April, 26, 15, 10, 0, 0, time.UTC))
	src := &stubSource{snap: testSnapshot()}
	ldr := &mockLoader{}
	metrics := observability.NewMetricsForTesting()

	p, err := pipeline.New(src, ldr, "*/5 * * * *", slog.Default(), metrics, pipeline.WithClock(clock))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer waitCancel()

	// Immediate publish, then wait on the 15:15 tick.
	require.NoError(t, clock.BlockUntilContext(waitCtx, 1))
	assert.Equal(t, 1, ldr.loadCount())
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.PublisherRunning), 0)

	clock.Advance(5 * time.Minute)
	require.Eventually(t, func() bool { return ldr.loadCount() == 2 }, 5*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("publisher did not stop after cancellation")
	}
	assert.InDelta(t, 0, testutil.ToFloat64(metrics.PublisherRunning), 0)
}

func TestPublisher_Run_ContextCancellation(t *testing.T) {
	ldr := &mockLoader{}
	p, err := pipeline.New(&stubSource{snap: testSnapshot()}, ldr, "@hourly", slog.Default(), observability.NewMetricsForTesting())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, p.Run(ctx))
}
