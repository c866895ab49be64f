package domain

import (
	"fmt"
	"math"
)

const (
	minPressureBar = 30.0
	maxPressureBar = 70.0
	minFlowM3h     = 600.0
	maxFlowM3h     = 1400.0
)

// GenerateFleet builds a reproducible fleet. Entities appear in cluster-table
// order, then index order, with ids starting at 1.
func GenerateFleet(seed int64, clusters []ClusterDef) ([]PipelineEntity, error) {
	if err := ValidateClusters(clusters); err != nil {
		return nil, err
	}

	g := newGeneration(seed, TotalCount(clusters))
	for _, c := range clusters {
		for i := 0; i < c.Count; i++ {
			if err := g.place(c, i); err != nil {
				return nil, fmt.Errorf("generate %s-%02d: %w", c.Name, i, err)
			}
		}
	}
	return g.fleet, nil
}

// generation owns the shared stream and id counter for one GenerateFleet call.
type generation struct {
	seq    *Sequence
	nextID int
	fleet  []PipelineEntity
}

func newGeneration(seed int64, capacity int) *generation {
	return &generation{
		seq:    NewSequence(seed),
		nextID: 1,
		fleet:  make([]PipelineEntity, 0, capacity),
	}
}

// place draws one pipeline. The draw order is part of the reproducibility contract.
func (g *generation) place(c ClusterDef, index int) error {
	angle := g.seq.Next() * 2 * math.Pi
	distance := g.seq.Next() * c.Radius

	lat := c.Lat + distance*math.Cos(angle)
	lon := c.Lon + distance*math.Sin(angle)

	pressure := g.seq.Range(minPressureBar, maxPressureBar)
	flow := g.seq.Range(minFlowM3h, maxFlowM3h)

	leakProb, err := ScoreWithNoise(pressure, flow, g.seq)
	if err != nil {
		return err
	}

	g.fleet = append(g.fleet, PipelineEntity{
		ID:          g.nextID,
		Name:        fmt.Sprintf("%s-%02d", c.Name, index),
		Lat:         roundTo(lat, 4),
		Lon:         roundTo(lon, 4),
		PressureBar: roundTo(pressure, 1),
		FlowM3h:     roundTo(flow, 1),
		LeakProb:    roundTo(leakProb, 3),
	})
	g.nextID++
	return nil
}

// FindByID returns the entity with the given id.
func FindByID(fleet []PipelineEntity, id int) (PipelineEntity, error) {
	// Generated fleets are id-ordered from 1; fall back to a scan otherwise.
	if id >= 1 && id <= len(fleet) && fleet[id-1].ID == id {
		return fleet[id-1], nil
	}
	for _, p := range fleet {
		if p.ID == id {
			return p, nil
		}
	}
	return PipelineEntity{}, fmt.Errorf("%w: id %d", ErrPipelineNotFound, id)
}
