// Command leakctl works with simulated pipeline fleets from the shell
// without starting the service.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "leakctl",
		Short: "Inspect deterministic pipeline fleets",
		Long: "leakctl generates seeded pipeline fleets, validates saved fixtures,\n" +
			"prints regional risk, and runs what-if scenarios.",
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		Version: version,
	}

	root.AddCommand(newGenerateCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newRegionsCmd())
	root.AddCommand(newWhatIfCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
