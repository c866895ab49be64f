package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/pipeline-leak-watch/internal/config"
	"github.com/couchcryptid/pipeline-leak-watch/internal/domain"
)

const defaultSeed = 42

// fleetFlags selects which fleet a command works on.
type fleetFlags struct {
	seed     int64
	clusters string
}

func (f *fleetFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.Int64Var(&f.seed, "seed", defaultSeed, "fleet generation seed")
	fs.StringVar(&f.clusters, "clusters", "", "cluster table file (YAML, or JSON by extension); default is the reference table")
}

func (f *fleetFlags) clusterTable() ([]domain.ClusterDef, error) {
	if f.clusters == "" {
		return domain.DefaultClusters(), nil
	}
	return config.LoadClusters(f.clusters)
}

func (f *fleetFlags) generate() ([]domain.PipelineEntity, []domain.ClusterDef, error) {
	clusters, err := f.clusterTable()
	if err != nil {
		return nil, nil, err
	}
	fleet, err := domain.GenerateFleet(f.seed, clusters)
	if err != nil {
		return nil, nil, err
	}
	return fleet, clusters, nil
}

// fixture is the on-disk form of a generated fleet.
type fixture struct {
	Seed      int64                   `json:"seed"`
	Clusters  []domain.ClusterDef     `json:"clusters"`
	Pipelines []domain.PipelineEntity `json:"pipelines"`
}

func loadFixture(path string) (fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fixture{}, fmt.Errorf("read fixture: %w", err)
	}
	var fx fixture
	if err := json.Unmarshal(data, &fx); err != nil {
		return fixture{}, fmt.Errorf("parse fixture: %w", err)
	}
	return fx, nil
}
