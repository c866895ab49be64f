package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newGenerateCmd() *cobra.Command {
	var (
		fleet fleetFlags
		out   string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a fleet and write it as a JSON fixture",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pipelines, clusters, err := fleet.generate()
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(fixture{
				Seed:      fleet.seed,
				Clusters:  clusters,
				Pipelines: pipelines,
			}, "", "  ")
			if err != nil {
				return fmt.Errorf("encode fixture: %w", err)
			}
			data = append(data, '\n')

			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write fixture: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d pipelines (seed %d) to %s\n", len(pipelines), fleet.seed, out)
			return nil
		},
	}

	fleet.register(cmd)
	cmd.Flags().StringVar(&out, "out", "", "output path (default stdout)")
	return cmd
}
