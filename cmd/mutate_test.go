package cmd

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"traitmut.dev/pkg/traitmut/internal/domain"
	domainmocks "traitmut.dev/pkg/traitmut/internal/domain/mocks"
	m "traitmut.dev/pkg/traitmut/internal/model"
)

func withMockWorkflow(t *testing.T) *domainmocks.MockWorkflow {
	t.Helper()

	mockWorkflow := domainmocks.NewMockWorkflow(t)

	originalWorkflow := workflow
	workflow = mockWorkflow
	t.Cleanup(func() { workflow = originalWorkflow })

	return mockWorkflow
}

func executeMutate(t *testing.T, args ...string) error {
	t.Helper()

	cmd := newRootCmd()
	cmd.AddCommand(newMutateCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"mutate"}, args...))

	return cmd.Execute()
}

func TestMutateCmd_Defaults(t *testing.T) {
	mockWorkflow := withMockWorkflow(t)

	mockWorkflow.On("Mutate", mock.Anything, mock.MatchedBy(func(args domain.MutateArgs) bool {
		return args.Input == m.Path("in.rs") &&
			args.Output == "" &&
			args.Mode == m.ModeRandom &&
			args.Selection.Site == nil &&
			args.Selection.Choice == nil &&
			args.Seed == nil &&
			!args.EmitChoice &&
			!args.Diff
	})).Return(nil)

	require.NoError(t, executeMutate(t, "-i", "in.rs"))
}

func TestMutateCmd_ForcedIndices(t *testing.T) {
	mockWorkflow := withMockWorkflow(t)

	mockWorkflow.On("Mutate", mock.Anything, mock.MatchedBy(func(args domain.MutateArgs) bool {
		return args.Mode == m.ModeProjectionRewrite &&
			args.Output == m.Path("out.rs") &&
			args.Selection.Site != nil && *args.Selection.Site == 2 &&
			args.Selection.Choice != nil && *args.Selection.Choice == 0 &&
			args.Seed != nil && *args.Seed == 42 &&
			args.EmitChoice &&
			args.Diff
	})).Return(nil)

	err := executeMutate(t,
		"-i", "in.rs", "-o", "out.rs", "-m", "projection_rewrite",
		"--index", "2", "--choice-index", "0", "--seed", "42",
		"--emit-choice", "--diff",
	)
	require.NoError(t, err)
}

func TestMutateCmd_NegativeIndexIsForwarded(t *testing.T) {
	mockWorkflow := withMockWorkflow(t)

	mockWorkflow.On("Mutate", mock.Anything, mock.MatchedBy(func(args domain.MutateArgs) bool {
		return args.Selection.Site != nil && *args.Selection.Site == -1 && args.Selection.Choice == nil
	})).Return(nil)

	require.NoError(t, executeMutate(t, "-i", "in.rs", "--index=-1"))
}

func TestMutateCmd_ConstraintIndexAlias(t *testing.T) {
	t.Run("constraint mode", func(t *testing.T) {
		mockWorkflow := withMockWorkflow(t)

		mockWorkflow.On("Mutate", mock.Anything, mock.MatchedBy(func(args domain.MutateArgs) bool {
			return args.Mode == m.ModeConstraintInjection &&
				args.Selection.Choice != nil && *args.Selection.Choice == 5
		})).Return(nil)

		err := executeMutate(t, "-i", "in.rs", "-m", "constraint_injection", "--constraint-index", "5")
		require.NoError(t, err)
	})

	t.Run("other mode", func(t *testing.T) {
		withMockWorkflow(t)

		err := executeMutate(t, "-i", "in.rs", "-m", "projection_rewrite", "--constraint-index", "5")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--constraint-index")
	})

	t.Run("both flags", func(t *testing.T) {
		withMockWorkflow(t)

		err := executeMutate(t, "-i", "in.rs", "-m", "constraint_injection",
			"--constraint-index", "5", "--choice-index", "1")
		require.Error(t, err)
	})
}

func TestMutateCmd_Errors(t *testing.T) {
	t.Run("missing input", func(t *testing.T) {
		withMockWorkflow(t)

		require.Error(t, executeMutate(t))
	})

	t.Run("unknown mode", func(t *testing.T) {
		withMockWorkflow(t)

		err := executeMutate(t, "-i", "in.rs", "-m", "swap")
		require.ErrorIs(t, err, m.ErrUnknownMode)
	})

	t.Run("workflow error", func(t *testing.T) {
		mockWorkflow := withMockWorkflow(t)
		mockWorkflow.On("Mutate", mock.Anything, mock.Anything).Return(errors.New("boom"))

		err := executeMutate(t, "-i", "in.rs")
		require.EqualError(t, err, "boom")
	})
}
