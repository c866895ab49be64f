package domain

import (
	"math"
	"strings"
)

// criticalLeakProb marks a pipeline as critical in regional aggregation,
// independent of the caller's threshold.
const criticalLeakProb = 0.5

// ComputeKPIs counts pipelines strictly above threshold as at risk.
func ComputeKPIs(fleet []PipelineEntity, threshold float64) KPIStats {
	atRisk := 0
	for _, p := range fleet {
		if p.LeakProb > threshold {
			atRisk++
		}
	}
	return KPIStats{
		Total:  len(fleet),
		AtRisk: atRisk,
		Normal: len(fleet) - atRisk,
	}
}

// ComputeRegionalRisk aggregates per region. A pipeline's cluster is its
// name without the trailing "-NN" index; it belongs to a region named after
// that cluster, or to a bare short name equal to the cluster's first word
// ("Ras" covers "Ras Tanura-03"). Regions are independent; an empty region
// reports zeros.
func ComputeRegionalRisk(fleet []PipelineEntity, regions []string) []RegionalRisk {
	out := make([]RegionalRisk, 0, len(regions))
	for _, region := range regions {
		rr := RegionalRisk{Region: region}
		if strings.TrimSpace(region) == "" {
			out = append(out, rr)
			continue
		}

		var sum float64
		for _, p := range fleet {
			if !inRegion(p.Name, region) {
				continue
			}
			rr.PipelineCount++
			sum += p.LeakProb
			if p.LeakProb > criticalLeakProb {
				rr.CriticalCount++
			}
		}
		if rr.PipelineCount > 0 {
			rr.RiskScore = int(roundTo(sum/float64(rr.PipelineCount)*100, 0))
		}
		out = append(out, rr)
	}
	return out
}

func inRegion(name, region string) bool {
	cluster := clusterOf(name)
	return cluster == region || regionShortName(cluster) == region
}

// clusterOf strips the "-NN" index from a generated pipeline name.
func clusterOf(name string) string {
	if i := strings.LastIndexByte(name, '-'); i >= 0 {
		return name[:i]
	}
	return name
}

func regionShortName(region string) string {
	fields := strings.Fields(region)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// ComputeAdvancedKPIs derives the dashboard's operational estimates. The
// pseudo-random term depends only on fleet size and threshold, so the figures
// are stable for a given view.
func ComputeAdvancedKPIs(fleet []PipelineEntity, threshold float64) AdvancedKPIs {
	kpis := ComputeKPIs(fleet, threshold)
	r := sineHash(float64(kpis.Total) + threshold*100)

	var failureRate float64
	if kpis.Total > 0 {
		failureRate = roundTo(float64(kpis.AtRisk)/float64(kpis.Total)*100, 1)
	}

	return AdvancedKPIs{
		MTTRHours:         roundTo(12.5+r*5, 1),
		FailureRate:       failureRate,
		CostImpactUSD:     roundTo(float64(kpis.AtRisk)*125000+r*50000, 0),
		TotalIncidents:    int(math.Floor(float64(kpis.AtRisk) * 1.5)),
		PreventedFailures: int(math.Floor(float64(kpis.Total) * 0.15)),
	}
}

// sineHash maps x to [0, 1) with the fractional part of sin(x)*10000.
func sineHash(x float64) float64 {
	v := math.Sin(x) * 10000
	return v - math.Floor(v)
}
