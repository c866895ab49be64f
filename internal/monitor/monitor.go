// Package monitor owns the generated fleet for the process lifetime and
// fronts every analytics operation the API and alert publisher need.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/couchcryptid/pipeline-leak-watch/internal/domain"
	"github.com/couchcryptid/pipeline-leak-watch/internal/observability"
)

// Options configures fleet generation.
type Options struct {
	Seed      int64
	Clusters  []domain.ClusterDef
	Threshold float64
}

// Monitor holds one immutable fleet. All methods are safe for concurrent use.
type Monitor struct {
	seed      int64
	threshold float64
	regions   []string
	fleet     []domain.PipelineEntity
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New generates the fleet described by opts.
func New(opts Options, logger *slog.Logger, metrics *observability.Metrics) (*Monitor, error) {
	fleet, err := domain.GenerateFleet(opts.Seed, opts.Clusters)
	if err != nil {
		return nil, fmt.Errorf("generate fleet: %w", err)
	}

	m := &Monitor{
		seed:      opts.Seed,
		threshold: opts.Threshold,
		regions:   domain.RegionNames(opts.Clusters),
		fleet:     fleet,
		logger:    logger,
		metrics:   metrics,
	}

	kpis := domain.ComputeKPIs(fleet, opts.Threshold)
	metrics.FleetSize.Set(float64(kpis.Total))
	metrics.AtRiskPipelines.Set(float64(kpis.AtRisk))
	logger.Info("fleet generated",
		"seed", opts.Seed,
		"clusters", len(opts.Clusters),
		"pipelines", kpis.Total,
		"at_risk", kpis.AtRisk,
		"threshold", opts.Threshold,
	)
	return m, nil
}

// CheckReadiness reports ready once a non-empty fleet exists.
func (m *Monitor) CheckReadiness(_ context.Context) error {
	if len(m.fleet) == 0 {
		return errors.New("fleet has not been generated")
	}
	return nil
}

// Threshold is the default risk threshold for KPIs and alerts.
func (m *Monitor) Threshold() float64 { return m.threshold }

// Seed is the seed the fleet was generated from.
func (m *Monitor) Seed() int64 { return m.seed }

// Fleet returns a copy of every pipeline in generation order.
func (m *Monitor) Fleet() []domain.PipelineEntity {
	out := make([]domain.PipelineEntity, len(m.fleet))
	copy(out, m.fleet)
	return out
}

// Pipeline resolves one pipeline by id.
func (m *Monitor) Pipeline(id int) (domain.PipelineEntity, error) {
	return domain.FindByID(m.fleet, id)
}

// KPIs summarizes the fleet against threshold.
func (m *Monitor) KPIs(threshold float64) domain.KPIStats {
	return domain.ComputeKPIs(m.fleet, threshold)
}

// AdvancedKPIs returns the operational estimates for threshold.
func (m *Monitor) AdvancedKPIs(threshold float64) domain.AdvancedKPIs {
	return domain.ComputeAdvancedKPIs(m.fleet, threshold)
}

// Regions aggregates risk for each configured cluster.
func (m *Monitor) Regions() []domain.RegionalRisk {
	return domain.ComputeRegionalRisk(m.fleet, m.regions)
}

// Simulate runs a cascade from id. Each origin gets its own sequence seeded
// with seed+id, so repeated requests for the same pipeline agree.
func (m *Monitor) Simulate(id int) (domain.CascadeResult, error) {
	result, err := domain.SimulateCascade(m.fleet, id, domain.NewSequence(m.seed+int64(id)))
	if err != nil {
		return domain.CascadeResult{}, err
	}
	m.metrics.Simulations.WithLabelValues("cascade").Inc()
	m.logger.Debug("cascade simulated",
		"pipeline_id", id,
		"affected", len(result.AffectedIDs),
		"cascading", result.CascadingCount,
	)
	return result, nil
}

// WhatIf re-scores pipeline id with attribute changed by percent.
func (m *Monitor) WhatIf(id int, attribute string, percent float64) (domain.WhatIfResult, error) {
	attr, err := domain.ParseAttribute(attribute)
	if err != nil {
		return domain.WhatIfResult{}, err
	}
	p, err := m.Pipeline(id)
	if err != nil {
		return domain.WhatIfResult{}, err
	}
	result, err := domain.WhatIf(p, attr, percent)
	if err != nil {
		return domain.WhatIfResult{}, err
	}
	m.metrics.Simulations.WithLabelValues("whatif").Inc()
	return result, nil
}

// History returns the synthetic daily trend for pipeline id.
func (m *Monitor) History(id, days int) ([]domain.HistoryPoint, error) {
	p, err := m.Pipeline(id)
	if err != nil {
		return nil, err
	}
	return domain.GenerateHistory(p, days), nil
}

// Snapshot evaluates the fleet at the default threshold under a fresh id.
func (m *Monitor) Snapshot() domain.RiskSnapshot {
	snap := domain.BuildSnapshot(uuid.NewString(), domain.Now().UTC(), m.fleet, m.regions, m.threshold)
	m.metrics.AtRiskPipelines.Set(float64(snap.KPIs.AtRisk))
	return snap
}
