package domain

import "time"

// BuildSnapshot evaluates the fleet against threshold and emits one alert per
// pipeline above it, in fleet order.
func BuildSnapshot(id string, at time.Time, fleet []PipelineEntity, regions []string, threshold float64) RiskSnapshot {
	snap := RiskSnapshot{
		ID:          id,
		GeneratedAt: at,
		Threshold:   threshold,
		KPIs:        ComputeKPIs(fleet, threshold),
		Regions:     ComputeRegionalRisk(fleet, regions),
		Alerts:      []RiskAlert{},
	}
	for _, p := range fleet {
		if p.LeakProb <= threshold {
			continue
		}
		level, _ := RiskLevelFor(p.LeakProb)
		snap.Alerts = append(snap.Alerts, RiskAlert{
			SnapshotID:  id,
			GeneratedAt: at,
			Threshold:   threshold,
			RiskLevel:   level,
			Pipeline:    p,
		})
	}
	return snap
}
