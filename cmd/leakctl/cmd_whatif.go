package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/pipeline-leak-watch/internal/domain"
)

func newWhatIfCmd() *cobra.Command {
	var (
		fleet     fleetFlags
		id        int
		attribute string
		change    float64
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "whatif",
		Short: "Re-score one pipeline with a changed reading",
		RunE: func(cmd *cobra.Command, _ []string) error {
			attr, err := domain.ParseAttribute(attribute)
			if err != nil {
				return err
			}
			pipelines, _, err := fleet.generate()
			if err != nil {
				return err
			}
			p, err := domain.FindByID(pipelines, id)
			if err != nil {
				return err
			}
			result, err := domain.WhatIf(p, attr, change)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}

			current := p.PressureBar
			if attr == domain.AttributeFlow {
				current = p.FlowM3h
			}
			level, _ := domain.RiskLevelFor(p.LeakProb)

			t := newTable(false)
			t.header("", "Current", "Scenario")
			t.row(string(attr), current, result.NewValue)
			t.row("Leak probability", p.LeakProb, result.NewLeakProb)
			t.row("Risk level", level, result.RiskLevel)
			fmt.Fprintf(out, "%s (id %d), %s %+g%%\n", p.Name, p.ID, attr, change)
			fmt.Fprintln(out, t.String())
			fmt.Fprintln(out, result.Recommendation)
			return nil
		},
	}

	fleet.register(cmd)
	f := cmd.Flags()
	f.IntVar(&id, "id", 0, "pipeline id (required)")
	f.StringVar(&attribute, "attribute", "", "reading to change: pressure or flow (required)")
	f.Float64Var(&change, "change", 0, "percent change, e.g. 20 or -15")
	f.BoolVar(&asJSON, "json", false, "print the result as JSON")

	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("attribute")
	return cmd
}
