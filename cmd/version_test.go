package cmd

import (
	"bytes"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd_Output(t *testing.T) {
	cmd := newVersionCmd()

	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
	assert.Regexp(t, `^traitmut \S+\n`, out.String())
}

func TestVersionLines(t *testing.T) {
	t.Run("no build info", func(t *testing.T) {
		assert.Equal(t, []string{"traitmut unknown"}, versionLines(nil))
	})

	t.Run("development build", func(t *testing.T) {
		info := &debug.BuildInfo{GoVersion: "go1.25.1", Main: debug.Module{Version: "(devel)"}}

		assert.Equal(t, []string{"traitmut unknown", "built with go1.25.1"}, versionLines(info))
	})

	t.Run("tagged build with revision", func(t *testing.T) {
		info := &debug.BuildInfo{
			GoVersion: "go1.25.1",
			Main:      debug.Module{Version: "v0.3.0"},
			Settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "4f2a9c1"},
				{Key: "vcs.modified", Value: "true"},
			},
		}

		assert.Equal(t, []string{"traitmut v0.3.0", "revision 4f2a9c1-dirty", "built with go1.25.1"}, versionLines(info))
	})
}
