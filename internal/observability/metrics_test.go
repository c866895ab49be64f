package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsForTesting_Independent(t *testing.T) {
	a := NewMetricsForTesting()
	b := NewMetricsForTesting()

	a.AlertsPublished.Add(3)
	a.Simulations.WithLabelValues("cascade").Inc()

	assert.InDelta(t, 3, testutil.ToFloat64(a.AlertsPublished), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(b.AlertsPublished), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(a.Simulations.WithLabelValues("cascade")), 0)
}

func TestMetrics_RegisterInFreshRegistry(t *testing.T) {
	m := NewMetricsForTesting()
	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(m.FleetSize))
	require.NoError(t, reg.Register(m.NarrativeRequests))

	m.FleetSize.Set(100)
	m.NarrativeRequests.WithLabelValues("diagnose", "success").Inc()

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.ElementsMatch(t, []string{"leak_watch_fleet_size", "leak_watch_narrative_requests_total"}, names)
}
