package cmd

import (
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "traitmut.dev/pkg/traitmut/internal/model"
)

func TestConfigConstants(t *testing.T) {
	assert.Equal(t, "traitmut", configBaseName)
	assert.Equal(t, "traitmut.yaml", configFileName)
	assert.Equal(t, ".", configFolderPath)
	assert.Equal(t, "output", outputFlagName)
	assert.Equal(t, "exclude", excludeFlagName)
	assert.Equal(t, "parallel", parallelFlagName)
	assert.Equal(t, "batch.parallel", batchParallelKey)
	assert.Equal(t, "paths.exclude", excludeConfigKey)
	assert.Equal(t, ".traitmut-out", defaultOutputDir)
	assert.Equal(t, 10, defaultBatchCount)
	assert.Equal(t, 1, defaultBatchParallel)
	assert.Equal(t, "yaml", defaultBatchFormat)
	assert.Equal(t, "pretty", defaultInspectFormat)
	assert.Equal(t, "TRAITMUT", envPrefix)
}

func TestConfigVersionConstants(t *testing.T) {
	assert.Equal(t, "version", configVersionKey)
	assert.Equal(t, 1, currentConfigVersion)
}

func TestConfigDefaults(t *testing.T) {
	assert.Equal(t, defaultBatchCount, viper.GetInt(batchCountKey))
	assert.Equal(t, int64(defaultMaxFileSize), viper.GetInt64(parserMaxFileSizeKey))
	assert.Equal(t, defaultLogFilename, viper.GetString(logFilenameKey))
}

func TestStrategyWeights(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		weights := strategyWeights()
		assert.Equal(t, map[m.Mode]int{
			m.ModeConstraintInjection: 1,
			m.ModeProjectionRewrite:   1,
		}, weights)
	})

	t.Run("env override", func(t *testing.T) {
		t.Setenv("TRAITMUT_STRATEGY_WEIGHTS_PROJECTION_REWRITE", "7")

		weights := strategyWeights()
		assert.Equal(t, 7, weights[m.ModeProjectionRewrite])
		assert.Equal(t, 1, weights[m.ModeConstraintInjection])
	})
}

func TestParseSlogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelWarn},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{" warning ", slog.LevelWarn},
		{"error", slog.LevelError},
		{"-4", slog.LevelDebug},
		{"loud", slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseSlogLevel(tt.in, slog.LevelWarn))
		})
	}
}

func TestConfigureLogger(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	logPath := filepath.Join(t.TempDir(), "traitmut.log")

	configureLogger(logPath, true)
	require.NotNil(t, globalLogger)
	assert.Same(t, globalLogger, slog.Default())
	assert.True(t, globalLogger.Enabled(t.Context(), slog.LevelDebug))

	configureLogger(logPath, false)
	assert.False(t, globalLogger.Enabled(t.Context(), slog.LevelDebug))
	assert.True(t, globalLogger.Enabled(t.Context(), slog.LevelInfo))
}
