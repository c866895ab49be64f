package domain

import "math"

const (
	cascadeRadiusDeg     = 0.5 // planar degrees, roughly 50 km
	cascadeMinAffected   = 2
	cascadeSpreadMax     = 5 // affected = floor(r*5) + 2, so 2..6
	cascadeFraction      = 0.6
	cascadeBaseDowntimeH = 24.0
	cascadeSpreadDownH   = 48.0
	cascadeCostPerPipe   = 180000.0
	cascadeCostJitter    = 100000.0
	criticalPathLength   = 3
)

// SimulateCascade estimates which nearby pipelines fail after originID does.
// Candidates are other pipelines within a planar 0.5° of the origin, in fleet
// order. src is drawn three times: subset size, downtime, cost.
func SimulateCascade(fleet []PipelineEntity, originID int, src RandomSource) (CascadeResult, error) {
	origin, err := FindByID(fleet, originID)
	if err != nil {
		return CascadeResult{}, err
	}

	var nearby []PipelineEntity
	for _, p := range fleet {
		if p.ID == origin.ID {
			continue
		}
		if planarDistance(origin, p) < cascadeRadiusDeg {
			nearby = append(nearby, p)
		}
	}

	n := int(math.Floor(src.Float64()*cascadeSpreadMax)) + cascadeMinAffected
	if n > len(nearby) {
		n = len(nearby)
	}
	affected := nearby[:n]

	ids := make([]int, len(affected))
	for i, p := range affected {
		ids[i] = p.ID
	}

	path := []string{origin.Name}
	for i := 0; i < len(affected) && i < criticalPathLength; i++ {
		path = append(path, affected[i].Name)
	}

	downtime := cascadeBaseDowntimeH + src.Float64()*cascadeSpreadDownH
	cost := float64(len(affected))*cascadeCostPerPipe + src.Float64()*cascadeCostJitter

	return CascadeResult{
		OriginID:       origin.ID,
		AffectedIDs:    ids,
		CascadingCount: int(math.Floor(float64(len(affected)) * cascadeFraction)),
		DowntimeHours:  downtime,
		CostUSD:        cost,
		CriticalPath:   path,
	}, nil
}

// planarDistance treats lat/lon as a flat plane. Good enough inside one region.
func planarDistance(a, b PipelineEntity) float64 {
	return math.Hypot(a.Lat-b.Lat, a.Lon-b.Lon)
}
