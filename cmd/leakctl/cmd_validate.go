package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/pipeline-leak-watch/internal/domain"
)

// scoreTolerance bounds |leakProb - ScorePure| for a generated entity: the
// noise amplitude plus rounding of the stored readings and probability.
const scoreTolerance = 0.055

var errValidationFailed = errors.New("validation failed")

// phase tracks pass/fail for one group of checks.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func newValidateCmd() *cobra.Command {
	var (
		fleet       fleetFlags
		fixturePath string
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a fleet fixture against a fresh generation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fx, err := loadFixture(fixturePath)
			if err != nil {
				return err
			}

			// Flags override what the fixture recorded.
			seed := fx.Seed
			if cmd.Flags().Changed("seed") {
				seed = fleet.seed
			}
			clusters := fx.Clusters
			if fleet.clusters != "" || len(clusters) == 0 {
				if clusters, err = fleet.clusterTable(); err != nil {
					return err
				}
			}

			return runValidation(cmd.OutOrStdout(), fx.Pipelines, seed, clusters)
		},
	}

	fleet.register(cmd)
	cmd.Flags().StringVar(&fixturePath, "fixture", "", "fixture written by 'leakctl generate' (required)")
	_ = cmd.MarkFlagRequired("fixture")
	return cmd
}

func runValidation(out io.Writer, pipelines []domain.PipelineEntity, seed int64, clusters []domain.ClusterDef) error {
	fmt.Fprintln(out, "=== Fleet Fixture Validation ===")

	expected, err := domain.GenerateFleet(seed, clusters)
	if err != nil {
		return fmt.Errorf("regenerate fleet: %w", err)
	}

	phases := []*phase{
		validateStructure(pipelines, clusters),
		validateReproducibility(pipelines, expected),
		validateScoring(pipelines),
		validateAggregates(pipelines, clusters),
	}

	fmt.Fprintln(out)
	allPassed := true
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = fmt.Sprintf("FAIL (%d errors)", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-40s %s\n", p.name, status)
	}
	fmt.Fprintf(out, "\nPipelines: %d in fixture, %d expected (seed %d)\n", len(pipelines), len(expected), seed)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}

	if !allPassed {
		fmt.Fprintln(out, "\nValidation FAILED.")
		return errValidationFailed
	}
	fmt.Fprintln(out, "\nAll validations passed.")
	return nil
}

// validateStructure checks ids, names, and value ranges without regenerating.
func validateStructure(pipelines []domain.PipelineEntity, clusters []domain.ClusterDef) *phase {
	p := &phase{name: "Phase 1: Structure"}

	names := make(map[string]struct{}, len(pipelines))
	for i, e := range pipelines {
		if e.ID != i+1 {
			p.errorf("entry %d: id %d, want %d", i, e.ID, i+1)
		}
		if _, dup := names[e.Name]; dup {
			p.errorf("id %d: duplicate name %q", e.ID, e.Name)
		}
		names[e.Name] = struct{}{}
		if !hasClusterPrefix(e.Name, clusters) {
			p.errorf("id %d: name %q matches no cluster", e.ID, e.Name)
		}
		if e.PressureBar < 30 || e.PressureBar > 70 {
			p.errorf("id %d: pressure %g bar outside [30, 70]", e.ID, e.PressureBar)
		}
		if e.FlowM3h < 600 || e.FlowM3h > 1400 {
			p.errorf("id %d: flow %g m3/h outside [600, 1400]", e.ID, e.FlowM3h)
		}
		if e.LeakProb < 0 || e.LeakProb > 1 {
			p.errorf("id %d: leakProb %g outside [0, 1]", e.ID, e.LeakProb)
		}
	}
	return p
}

func hasClusterPrefix(name string, clusters []domain.ClusterDef) bool {
	for _, c := range clusters {
		if strings.HasPrefix(name, c.Name+"-") {
			return true
		}
	}
	return false
}

// validateReproducibility compares the fixture entity by entity with a fresh run.
func validateReproducibility(pipelines, expected []domain.PipelineEntity) *phase {
	p := &phase{name: "Phase 2: Reproducibility"}

	if len(pipelines) != len(expected) {
		p.errorf("count: fixture has %d pipelines, generation has %d", len(pipelines), len(expected))
	}
	for i := range min(len(pipelines), len(expected)) {
		if diff := cmp.Diff(expected[i], pipelines[i]); diff != "" {
			p.errorf("id %d (-generated +fixture):\n%s", expected[i].ID, diff)
		}
	}
	return p
}

// validateScoring checks each stored probability sits within the noise band
// around the noiseless score of its stored readings.
func validateScoring(pipelines []domain.PipelineEntity) *phase {
	p := &phase{name: "Phase 3: Scoring"}

	for _, e := range pipelines {
		pure, err := domain.ScorePure(e.PressureBar, e.FlowM3h)
		if err != nil {
			p.errorf("id %d: %v", e.ID, err)
			continue
		}
		if d := math.Abs(e.LeakProb - pure); d > scoreTolerance {
			p.errorf("id %d: leakProb %g is %.3f from noiseless score %.3f", e.ID, e.LeakProb, d, pure)
		}
	}
	return p
}

// validateAggregates checks KPI and regional totals agree with the fixture size.
func validateAggregates(pipelines []domain.PipelineEntity, clusters []domain.ClusterDef) *phase {
	p := &phase{name: "Phase 4: Aggregates"}

	for _, th := range []float64{0.2, 0.3, 0.5} {
		k := domain.ComputeKPIs(pipelines, th)
		if k.AtRisk+k.Normal != k.Total || k.Total != len(pipelines) {
			p.errorf("threshold %.1f: atRisk %d + normal %d != total %d", th, k.AtRisk, k.Normal, k.Total)
		}
	}

	var counted int
	for _, r := range domain.ComputeRegionalRisk(pipelines, domain.RegionNames(clusters)) {
		counted += r.PipelineCount
		if r.RiskScore < 0 || r.RiskScore > 100 {
			p.errorf("region %s: risk score %d outside [0, 100]", r.Region, r.RiskScore)
		}
	}
	if counted != len(pipelines) {
		p.errorf("regions cover %d pipelines, fixture has %d", counted, len(pipelines))
	}
	return p
}
