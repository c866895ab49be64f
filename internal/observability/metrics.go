package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "leak_watch"

// Metrics holds the Prometheus counters, histograms, and gauges for the leak watch service.
type Metrics struct {
	FleetSize       prometheus.Gauge
	AtRiskPipelines prometheus.Gauge
	Simulations     *prometheus.CounterVec // labels: kind={cascade,whatif}

	// Narrative metrics.
	NarrativeRequests    *prometheus.CounterVec   // labels: kind={diagnose,root_cause,follow_up}, outcome={success,error}
	NarrativeCache       *prometheus.CounterVec   // labels: result={hit,miss}
	NarrativeAPIDuration *prometheus.HistogramVec // labels: kind
	NarrativeEnabled     prometheus.Gauge

	// Alert publishing metrics.
	AlertsPublished  prometheus.Counter
	PublishErrors    prometheus.Counter
	SnapshotAlerts   prometheus.Histogram
	PublishDuration  prometheus.Histogram
	PublisherRunning prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics(true)
	prometheus.MustRegister(
		m.FleetSize,
		m.AtRiskPipelines,
		m.Simulations,
		m.NarrativeRequests,
		m.NarrativeCache,
		m.NarrativeAPIDuration,
		m.NarrativeEnabled,
		m.AlertsPublished,
		m.PublishErrors,
		m.SnapshotAlerts,
		m.PublishDuration,
		m.PublisherRunning,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, so tests can
// build as many as they like.
func NewMetricsForTesting() *Metrics {
	return newMetrics(false)
}

func newMetrics(withHelp bool) *Metrics {
	help := func(s string) string {
		if withHelp {
			return s
		}
		return ""
	}

	return &Metrics{
		FleetSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "fleet_size",
			Help:      help("Number of pipelines in the generated fleet."),
		}),
		AtRiskPipelines: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "at_risk_pipelines",
			Help:      help("Pipelines above the configured risk threshold."),
		}),
		Simulations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "simulations_total",
			Help:      help("Cascade and what-if simulations run, by kind."),
		}, []string{"kind"}),
		NarrativeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "narrative_requests_total",
			Help:      help("Narrative requests by kind and outcome."),
		}, []string{"kind", "outcome"}),
		NarrativeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "narrative_cache_total",
			Help:      help("Narrative cache lookups by result."),
		}, []string{"result"}),
		NarrativeAPIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "narrative_api_duration_seconds",
			Help:      help("Completion API request duration in seconds."),
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"kind"}),
		NarrativeEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "narrative_enabled",
			Help:      help("1 when narrative diagnostics are configured, 0 otherwise."),
		}),
		AlertsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_published_total",
			Help:      help("Risk alerts written to the alert topic."),
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      help("Failed attempts to write a snapshot's alerts."),
		}),
		SnapshotAlerts: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "snapshot_alerts",
			Help:      help("Number of alerts per risk snapshot."),
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
		}),
		PublishDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "publish_duration_seconds",
			Help:      help("Duration of a complete snapshot build and publish cycle."),
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		PublisherRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "publisher_running",
			Help:      help("1 when the alert publisher is active, 0 when shut down."),
		}),
	}
}
