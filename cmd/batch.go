package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"traitmut.dev/pkg/traitmut/internal/domain"
	m "traitmut.dev/pkg/traitmut/internal/model"
)

var batchOutputFlag string
var batchCountFlag int
var batchParallelFlag int
var batchSeedFlag int64
var batchFormatFlag string
var batchModeFlag string
var excludePatterns []string

// batchCmd represents the batch command.
var batchCmd = newBatchCmd()

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch [paths...]",
		Short: "Generate mutants for a corpus of Rust seeds",
		Long:  batchLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := parseMode(batchModeFlag)
			if err != nil {
				return err
			}

			return workflow.Batch(cmd.Context(), domain.BatchArgs{
				Paths:   parsePaths(args),
				Exclude: viper.GetStringSlice(excludeConfigKey),
				Output:  m.Path(viper.GetString(outputConfigKey)),
				Count:   viper.GetInt(batchCountKey),
				Threads: viper.GetInt(batchParallelKey),
				Mode:    mode,
				Seed:    viper.GetInt64(batchSeedKey),
				Format:  viper.GetString(batchFormatKey),
			})
		},
	}

	configureBatchFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(batchCmd)
}

func configureBatchFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&batchOutputFlag, outputFlagName, "o", viper.GetString(outputConfigKey), "output directory for mutants and reports")
	bindFlagToConfig(cmd.Flags().Lookup(outputFlagName), outputConfigKey)

	cmd.Flags().IntVarP(&batchCountFlag, countFlagName, "n", viper.GetInt(batchCountKey), "mutations generated per seed")
	bindFlagToConfig(cmd.Flags().Lookup(countFlagName), batchCountKey)

	cmd.Flags().IntVarP(&batchParallelFlag, parallelFlagName, "p", viper.GetInt(batchParallelKey), "number of parallel workers")
	bindFlagToConfig(cmd.Flags().Lookup(parallelFlagName), batchParallelKey)

	cmd.Flags().Int64Var(&batchSeedFlag, seedFlagName, viper.GetInt64(batchSeedKey), "base seed; job k uses seed+k")
	bindFlagToConfig(cmd.Flags().Lookup(seedFlagName), batchSeedKey)

	cmd.Flags().StringVar(&batchFormatFlag, formatFlagName, viper.GetString(batchFormatKey), "report format: yaml or json")
	bindFlagToConfig(cmd.Flags().Lookup(formatFlagName), batchFormatKey)

	cmd.Flags().StringArrayVarP(&excludePatterns, excludeFlagName, "x", viper.GetStringSlice(excludeConfigKey), "exclude files matching regex (can be repeated)")
	bindFlagToConfig(cmd.Flags().Lookup(excludeFlagName), excludeConfigKey)

	cmd.Flags().StringVarP(&batchModeFlag, modeFlagName, "m", string(m.ModeRandom), "mutation mode")
}
