package controller

import (
	"bytes"
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pagerContent(lines int) string {
	var b strings.Builder
	for range lines {
		b.WriteString("line\n")
	}

	return b.String()
}

func TestSitePagerModel(t *testing.T) {
	t.Run("no pagination without a terminal size", func(t *testing.T) {
		model := newSitePagerModel("3 site(s)", pagerContent(100), styles{})
		assert.False(t, model.needsPagination())
	})

	t.Run("short content fits", func(t *testing.T) {
		model := newSitePagerModel("1 site(s)", pagerContent(5), styles{}).resize(80, 24)
		assert.False(t, model.needsPagination())
	})

	t.Run("long content pages", func(t *testing.T) {
		model := newSitePagerModel("9 site(s)", pagerContent(100), styles{}).resize(80, 24)
		assert.True(t, model.needsPagination())
		assert.Equal(t, 20, model.viewport.Height)
	})

	t.Run("window resize updates the viewport", func(t *testing.T) {
		model := newSitePagerModel("x", pagerContent(100), styles{})

		updated, cmd := model.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
		assert.Nil(t, cmd)

		spm := updated.(sitePagerModel)
		assert.True(t, spm.ready)
		assert.Equal(t, 26, spm.viewport.Height)

		updated, _ = spm.Update(tea.WindowSizeMsg{Width: 100, Height: 10})
		assert.Equal(t, 6, updated.(sitePagerModel).viewport.Height)
	})

	t.Run("scroll keys move the viewport", func(t *testing.T) {
		model := newSitePagerModel("x", pagerContent(100), styles{}).resize(80, 24)

		updated, _ := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
		assert.Equal(t, 1, updated.(sitePagerModel).viewport.YOffset)

		updated, _ = updated.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")})
		assert.Equal(t, 0, updated.(sitePagerModel).viewport.YOffset)

		updated, _ = updated.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("G")})
		assert.True(t, updated.(sitePagerModel).viewport.AtBottom())

		updated, _ = updated.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("g")})
		assert.True(t, updated.(sitePagerModel).viewport.AtTop())
	})

	t.Run("quit keys", func(t *testing.T) {
		for _, msg := range []tea.KeyMsg{
			{Type: tea.KeyRunes, Runes: []rune("q")},
			{Type: tea.KeyEsc},
			{Type: tea.KeyCtrlC},
		} {
			model := newSitePagerModel("x", pagerContent(3), styles{}).resize(80, 24)

			updated, cmd := model.Update(msg)
			require.NotNil(t, cmd)
			assert.True(t, updated.(sitePagerModel).quitting)
			assert.Empty(t, updated.View())
		}
	})

	t.Run("view shows header and footer", func(t *testing.T) {
		model := newSitePagerModel("2 site(s)", pagerContent(3), styles{}).resize(80, 24)

		view := model.View()
		assert.True(t, strings.HasPrefix(view, "traitmut: 2 site(s)\n\n"))
		assert.Contains(t, view, "q quit")
	})
}

func TestTUI_DisplaySites(t *testing.T) {
	t.Run("small list on a non-terminal writer prints directly", func(t *testing.T) {
		var out bytes.Buffer

		cmd := &cobra.Command{}
		cmd.SetOut(&out)

		ui := NewTUI(NewSimpleUI(cmd))
		require.NoError(t, ui.DisplaySites(context.Background(), sampleSites(), FormatPretty))
		assert.Contains(t, out.String(), "#1 [where] impl Tr for S")
	})

	t.Run("other formats delegate to the simple UI", func(t *testing.T) {
		var out bytes.Buffer

		cmd := &cobra.Command{}
		cmd.SetOut(&out)

		ui := NewTUI(NewSimpleUI(cmd))
		require.NoError(t, ui.DisplaySites(context.Background(), sampleSites(), FormatJSON))
		assert.True(t, strings.HasPrefix(out.String(), "[{"))
	})
}
