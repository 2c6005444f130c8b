package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"traitmut.dev/pkg/traitmut/internal/domain"
	m "traitmut.dev/pkg/traitmut/internal/model"
)

var mutateInputFlag string
var mutateOutputFlag string
var mutateModeFlag string
var mutateIndexFlag int
var mutateChoiceIndexFlag int
var mutateConstraintIndexFlag int
var mutateSeedFlag int64
var mutateEmitChoiceFlag bool
var mutateDiffFlag bool

const mutateLongDescription = `Apply one structural mutation to a Rust source file.

The file is parsed, one site is chosen (or forced with --index), one
candidate inside that site is chosen (or forced with --choice-index), and the
result is written to --output (stdout when omitted). A file that does not
parse is passed through unchanged.

` + modesHelp

// mutateCmd represents the mutate command.
var mutateCmd = newMutateCmd()

func newMutateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mutate",
		Short: "Mutate a single Rust file",
		Long:  mutateLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mode, err := parseMode(mutateModeFlag)
			if err != nil {
				return err
			}

			sel, err := selectionFromFlags(cmd, mode)
			if err != nil {
				return err
			}

			args := domain.MutateArgs{
				Input:      m.Path(mutateInputFlag),
				Output:     m.Path(mutateOutputFlag),
				Mode:       mode,
				Selection:  sel,
				EmitChoice: mutateEmitChoiceFlag,
				Diff:       mutateDiffFlag,
			}

			if viper.IsSet(mutateSeedKey) {
				seed := viper.GetInt64(mutateSeedKey)
				args.Seed = &seed
			}

			return workflow.Mutate(cmd.Context(), args)
		},
	}

	configureMutateFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(mutateCmd)
}

func configureMutateFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&mutateInputFlag, inputFlagName, "i", "", "input Rust file")
	cobra.CheckErr(cmd.MarkFlagRequired(inputFlagName))
	cmd.Flags().StringVarP(&mutateOutputFlag, outputFlagName, "o", "", "output file (stdout when empty or -)")
	cmd.Flags().StringVarP(&mutateModeFlag, modeFlagName, "m", string(m.ModeRandom), "mutation mode")

	cmd.Flags().IntVar(&mutateIndexFlag, indexFlagName, unsetIndex, "force the site index")
	cmd.Flags().IntVar(&mutateChoiceIndexFlag, choiceIndexFlagName, unsetIndex, "force the candidate index")
	cmd.Flags().IntVar(&mutateConstraintIndexFlag, constraintIndexName, unsetIndex, "alias of --choice-index for constraint_injection")
	cmd.MarkFlagsMutuallyExclusive(choiceIndexFlagName, constraintIndexName)

	cmd.Flags().Int64Var(&mutateSeedFlag, seedFlagName, 0, "seed for the random choices")
	bindFlagToConfig(cmd.Flags().Lookup(seedFlagName), mutateSeedKey)

	cmd.Flags().BoolVar(&mutateEmitChoiceFlag, emitChoiceFlagName, false, "print the MUTATION_CHOICE line on stderr")
	cmd.Flags().BoolVar(&mutateDiffFlag, diffFlagName, false, "print a unified diff of the mutation")
}

// selectionFromFlags builds the forced indices from the flags the user set.
func selectionFromFlags(cmd *cobra.Command, mode m.Mode) (m.Selection, error) {
	var sel m.Selection

	if cmd.Flags().Changed(indexFlagName) {
		site := mutateIndexFlag
		sel.Site = &site
	}

	switch {
	case cmd.Flags().Changed(choiceIndexFlagName):
		choice := mutateChoiceIndexFlag
		sel.Choice = &choice
	case cmd.Flags().Changed(constraintIndexName):
		if mode != m.ModeConstraintInjection {
			return m.Selection{}, fmt.Errorf("--%s requires --%s %s", constraintIndexName, modeFlagName, m.ModeConstraintInjection)
		}

		choice := mutateConstraintIndexFlag
		sel.Choice = &choice
	}

	return sel, nil
}
