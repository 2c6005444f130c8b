package mutagens

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"traitmut.dev/pkg/traitmut/internal/adapter"
	"traitmut.dev/pkg/traitmut/internal/ast"
)

func examplePath(name string) string {
	return filepath.Join("..", "..", "..", "examples", name, "lib.rs")
}

func parseExample(t *testing.T, name string) *ast.File {
	t.Helper()

	src, err := os.ReadFile(examplePath(name))
	require.NoError(t, err)

	return parseSource(t, string(src))
}

func parseSource(t *testing.T, src string) *ast.File {
	t.Helper()

	file, err := adapter.NewLocalRustFileAdapter().Parse(context.Background(), []byte(src))
	require.NoError(t, err)

	return file
}

func printFile(t *testing.T, file *ast.File) string {
	t.Helper()

	out, err := ast.Print(file)
	require.NoError(t, err)

	return string(out)
}

func intPtr(i int) *int {
	return &i
}
