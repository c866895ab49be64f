package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/pipeline-leak-watch/internal/domain"
)

func newRegionsCmd() *cobra.Command {
	var (
		fleet     fleetFlags
		markdown  bool
		threshold float64
	)

	cmd := &cobra.Command{
		Use:   "regions",
		Short: "Print per-region risk for a fleet",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if threshold < 0 || threshold > 1 {
				return fmt.Errorf("--threshold must be between 0 and 1, got %g", threshold)
			}
			pipelines, clusters, err := fleet.generate()
			if err != nil {
				return err
			}

			regions := domain.ComputeRegionalRisk(pipelines, domain.RegionNames(clusters))
			kpis := domain.ComputeKPIs(pipelines, threshold)

			t := newTable(markdown)
			t.header("Region", "Risk Score", "Pipelines", "Critical")
			t.alignRight(2, 3, 4)
			var critical int
			for _, r := range regions {
				t.row(r.Region, r.RiskScore, r.PipelineCount, r.CriticalCount)
				critical += r.CriticalCount
			}
			t.footer("Total", "", kpis.Total, critical)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, t.String())
			fmt.Fprintf(out, "\nseed %d: %d of %d pipelines above %.2f\n", fleet.seed, kpis.AtRisk, kpis.Total, threshold)
			return nil
		},
	}

	fleet.register(cmd)
	cmd.Flags().BoolVar(&markdown, "markdown", false, "render a Markdown table")
	cmd.Flags().Float64Var(&threshold, "threshold", 0.5, "at-risk threshold for the summary line")
	return cmd
}
