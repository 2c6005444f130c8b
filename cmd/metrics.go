package cmd

import (
	"github.com/spf13/cobra"

	"traitmut.dev/pkg/traitmut/internal/domain"
	m "traitmut.dev/pkg/traitmut/internal/model"
)

var metricsInputFlag string

// metricsCmd represents the metrics command.
var metricsCmd = newMetricsCmd()

func newMetricsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Print dependency-graph and choice-space metrics as JSON",
		Long: `Parse a Rust file and print one JSON line with the size of its trait
dependency graph and the number of sites and choices each mutation mode has.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return workflow.Metrics(cmd.Context(), domain.MetricsArgs{Input: m.Path(metricsInputFlag)})
		},
	}

	cmd.Flags().StringVarP(&metricsInputFlag, inputFlagName, "i", "", "input Rust file")
	cobra.CheckErr(cmd.MarkFlagRequired(inputFlagName))

	return cmd
}

func init() {
	rootCmd.AddCommand(metricsCmd)
}
