package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"traitmut.dev/pkg/traitmut/internal/domain"
	m "traitmut.dev/pkg/traitmut/internal/model"
)

var inspectInputFlag string
var inspectModeFlag string
var inspectFormatFlag string

// inspectCmd represents the inspect command.
var inspectCmd = newInspectCmd()

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "List the mutation sites of a Rust file",
		Long: `List every site a mutation mode can edit, in traversal order, with the
candidates resolved for each site. Nothing is mutated.

Formats: pretty (paged on a terminal), json, table.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mode, err := parseMode(inspectModeFlag)
			if err != nil {
				return err
			}

			return workflow.Inspect(cmd.Context(), domain.InspectArgs{
				Input:  m.Path(inspectInputFlag),
				Mode:   mode,
				Format: viper.GetString(inspectFormatKey),
			})
		},
	}

	cmd.Flags().StringVarP(&inspectInputFlag, inputFlagName, "i", "", "input Rust file")
	cobra.CheckErr(cmd.MarkFlagRequired(inputFlagName))
	cmd.Flags().StringVarP(&inspectModeFlag, modeFlagName, "m", string(m.ModeConstraintInjection), "mutation mode whose sites are listed")
	cmd.Flags().StringVar(&inspectFormatFlag, formatFlagName, viper.GetString(inspectFormatKey), "output format: pretty, json or table")
	bindFlagToConfig(cmd.Flags().Lookup(formatFlagName), inspectFormatKey)

	return cmd
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
