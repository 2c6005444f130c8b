package domain

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"traitmut.dev/pkg/traitmut/internal/adapter"
	m "traitmut.dev/pkg/traitmut/internal/model"
)

func examplePath(name string) m.Path {
	return m.Path(filepath.Join("..", "..", "examples", name, "lib.rs"))
}

func readExample(t *testing.T, name string) []byte {
	t.Helper()

	src, err := os.ReadFile(string(examplePath(name)))
	require.NoError(t, err)

	return src
}

func newTestMutagen() Mutagen {
	return NewMutagen(adapter.NewLocalRustFileAdapter(), NewStrategyPool(nil))
}

func writeSeed(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
