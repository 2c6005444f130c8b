// Package cmd provides the root command and CLI setup for traitmut.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"traitmut.dev/pkg/traitmut/internal/adapter"
	"traitmut.dev/pkg/traitmut/internal/controller"
	"traitmut.dev/pkg/traitmut/internal/domain"
	m "traitmut.dev/pkg/traitmut/internal/model"
)

var rustFileAdapter adapter.RustFileAdapter
var fsAdapter adapter.SourceFSAdapter
var reportStore adapter.ReportStore
var mutagen domain.Mutagen
var workflow domain.Workflow
var ui controller.UI

// verboseFlag switches the log file to debug level.
var verboseFlag bool

// logFileFlag overrides the log file location.
var logFileFlag string

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	rustFileAdapter = adapter.NewLocalRustFileAdapter(
		adapter.WithMaxFileSize(viper.GetInt64(parserMaxFileSizeKey)),
	)
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	reportStore = adapter.NewLocalReportStore(fsAdapter)
	mutagen = domain.NewMutagen(rustFileAdapter, domain.NewStrategyPool(strategyWeights()))
	workflow = domain.NewWorkflow(
		fsAdapter,
		reportStore,
		ui,
		mutagen,
	)
}

const pathPatternsHelp = `Supports Go-style path patterns:
  - ./...          recursively scan current directory
  - ./seeds/...    recursively scan the seeds directory
  - ./a ./b        scan multiple directories
  - ./a/lib.rs     a single seed file`

const modesHelp = `Modes:
  - constraint_injection   add one trait bound or where predicate
  - projection_rewrite     replace a type with an equivalent <T as Trait>::Assoc
  - random                 pick a mode using the configured strategy weights`

const rootLongDescription = `Traitmut is a structural mutator for Rust sources that stress the trait
system: it extracts the trait/type/impl dependency graph of a file and uses
it to inject plausible trait bounds or to rewrite types into equivalent
associated-type projections.

` + modesHelp

const batchLongDescription = `Generate mutants for every Rust seed under the given paths
(default: current directory) and write them with a YAML or JSON report.

` + pathPatternsHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "traitmut",
		Short: "Structural trait-system mutator for Rust",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		SilenceUsage: true,
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "log at debug level")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)

	cmd.PersistentFlags().StringVar(&logFileFlag, logFileFlagName, viper.GetString(logFilenameKey), "log file path")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(logFileFlagName), logFilenameKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}

func parseMode(value string) (m.Mode, error) {
	mode, err := m.ParseMode(value)
	if err != nil {
		return "", fmt.Errorf("invalid --%s: %w", modeFlagName, err)
	}

	return mode, nil
}
