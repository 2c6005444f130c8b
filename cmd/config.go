package cmd

import (
	"errors"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"traitmut.dev/pkg/traitmut/internal/adapter"
	"traitmut.dev/pkg/traitmut/internal/controller"
	m "traitmut.dev/pkg/traitmut/internal/model"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "traitmut"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	inputFlagName       = "input"
	outputFlagName      = "output"
	modeFlagName        = "mode"
	seedFlagName        = "seed"
	indexFlagName       = "index"
	choiceIndexFlagName = "choice-index"
	constraintIndexName = "constraint-index"
	emitChoiceFlagName  = "emit-choice"
	diffFlagName        = "diff"
	formatFlagName      = "format"
	excludeFlagName     = "exclude"
	countFlagName       = "count"
	parallelFlagName    = "parallel"
	verboseFlagName     = "verbose"
	logFileFlagName     = "log-file"

	outputConfigKey      = "output"
	mutateSeedKey        = "mutate.seed"
	batchCountKey        = "batch.count"
	batchParallelKey     = "batch.parallel"
	batchFormatKey       = "batch.format"
	batchSeedKey         = "batch.seed"
	excludeConfigKey     = "paths.exclude"
	parserMaxFileSizeKey = "parser.max_file_size"
	inspectFormatKey     = "inspect.format"
	weightConstraintKey  = "strategy.weights.constraint_injection"
	weightProjectionKey  = "strategy.weights.projection_rewrite"

	defaultOutputDir      = ".traitmut-out"
	defaultBatchCount     = 10
	defaultBatchParallel  = 1
	defaultBatchFormat    = adapter.ReportFormatYAML
	defaultBatchSeed      = 0
	defaultInspectFormat  = controller.FormatPretty
	defaultStrategyWeight = 1
	defaultMaxFileSize    = adapter.DefaultMaxFileSize

	envPrefix = "TRAITMUT"

	unsetIndex = -1

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".traitmut.log"
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var globalLogger *slog.Logger

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(outputConfigKey, defaultOutputDir)
	viper.SetDefault(batchCountKey, defaultBatchCount)
	viper.SetDefault(batchParallelKey, defaultBatchParallel)
	viper.SetDefault(batchFormatKey, defaultBatchFormat)
	viper.SetDefault(batchSeedKey, defaultBatchSeed)
	viper.SetDefault(excludeConfigKey, []string{})
	viper.SetDefault(parserMaxFileSizeKey, defaultMaxFileSize)
	viper.SetDefault(inspectFormatKey, defaultInspectFormat)
	viper.SetDefault(weightConstraintKey, defaultStrategyWeight)
	viper.SetDefault(weightProjectionKey, defaultStrategyWeight)

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return
		}

		return
	}
}

// strategyWeights reads the per-mode weights used by random mode.
func strategyWeights() map[m.Mode]int {
	return map[m.Mode]int{
		m.ModeConstraintInjection: viper.GetInt(weightConstraintKey),
		m.ModeProjectionRewrite:   viper.GetInt(weightProjectionKey),
	}
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Allow numeric slog levels as well (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger configures the global slog logger.
//
// By default it logs at Info; if verbose is true it logs at Debug.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}
