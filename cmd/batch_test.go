package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"traitmut.dev/pkg/traitmut/internal/domain"
	m "traitmut.dev/pkg/traitmut/internal/model"
)

func executeBatch(t *testing.T, args ...string) error {
	t.Helper()

	cmd := newRootCmd()
	cmd.AddCommand(newBatchCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"batch"}, args...))

	return cmd.Execute()
}

func TestBatchCmd_Defaults(t *testing.T) {
	mockWorkflow := withMockWorkflow(t)

	mockWorkflow.On("Batch", mock.Anything, mock.MatchedBy(func(args domain.BatchArgs) bool {
		return len(args.Paths) == 0 &&
			len(args.Exclude) == 0 &&
			args.Output == m.Path(".traitmut-out") &&
			args.Count == 10 &&
			args.Threads == 1 &&
			args.Mode == m.ModeRandom &&
			args.Seed == 0 &&
			args.Format == "yaml"
	})).Return(nil)

	require.NoError(t, executeBatch(t))
}

func TestBatchCmd_Flags(t *testing.T) {
	mockWorkflow := withMockWorkflow(t)

	mockWorkflow.On("Batch", mock.Anything, mock.MatchedBy(func(args domain.BatchArgs) bool {
		return args.Output == m.Path("out") &&
			args.Count == 3 &&
			args.Threads == 4 &&
			args.Mode == m.ModeConstraintInjection &&
			args.Seed == 99 &&
			args.Format == "json"
	})).Return(nil)

	err := executeBatch(t,
		"-n", "3", "-p", "4", "-o", "out", "--seed", "99",
		"--format", "json", "-m", "constraint_injection", "./seeds/...",
	)
	require.NoError(t, err)
}

func TestBatchCmd_MultiplePaths(t *testing.T) {
	mockWorkflow := withMockWorkflow(t)

	mockWorkflow.On("Batch", mock.Anything, mock.MatchedBy(func(args domain.BatchArgs) bool {
		return len(args.Paths) == 3 &&
			args.Paths[0] == m.Path("./seeds") &&
			args.Paths[1] == m.Path("./corpus/...") &&
			args.Paths[2] == m.Path("lib.rs")
	})).Return(nil)

	require.NoError(t, executeBatch(t, "./seeds", "./corpus/...", "lib.rs"))
}

func TestBatchCmd_WithExcludePatterns(t *testing.T) {
	mockWorkflow := withMockWorkflow(t)

	mockWorkflow.On("Batch", mock.Anything, mock.MatchedBy(func(args domain.BatchArgs) bool {
		return len(args.Exclude) == 2 &&
			args.Exclude[0] == "^generated_" &&
			args.Exclude[1] == "_test\\.rs$"
	})).Return(nil)

	require.NoError(t, executeBatch(t, "-x", "^generated_", "-x", "_test\\.rs$", "./..."))
}

func TestBatchCmd_UnknownMode(t *testing.T) {
	withMockWorkflow(t)

	require.ErrorIs(t, executeBatch(t, "-m", "bogus"), m.ErrUnknownMode)
}
