package cmd

import (
	"github.com/spf13/cobra"

	"traitmut.dev/pkg/traitmut/internal/domain"
	m "traitmut.dev/pkg/traitmut/internal/model"
)

var graphInputFlag string

// graphCmd represents the graph command.
var graphCmd = newGraphCmd()

func newGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Print the trait dependency graph as JSON",
		Long: `Parse a Rust file and print the traits, types, implementation edges,
supertrait edges and associated types the mutation modes draw from.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return workflow.Graph(cmd.Context(), domain.GraphArgs{Input: m.Path(graphInputFlag)})
		},
	}

	cmd.Flags().StringVarP(&graphInputFlag, inputFlagName, "i", "", "input Rust file")
	cobra.CheckErr(cmd.MarkFlagRequired(inputFlagName))

	return cmd
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
