package adapter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "traitmut.dev/pkg/traitmut/internal/model"
)

func sampleReport() m.BatchReport {
	return m.BatchReport{
		RunID:     "0b7a6f5e-6c1e-4c1b-9d7e-3f6f1f1e2a10",
		StartedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Duration:  "1.5s",
		RNGSeed:   7,
		Seeds: []m.SeedReport{
			{
				Seed:      m.File{Path: "seeds/lib.rs", ShortPath: "lib.rs", Hash: "abc"},
				Score:     3,
				Generated: 2,
				Mutations: []m.Mutation{
					{
						ID:      "m1",
						Seed:    "seeds/lib.rs",
						Hash:    "def",
						RNGSeed: 7,
						Outcome: m.Outcome{Mode: m.ModeConstraintInjection, Mutated: true, SiteCount: 2, ChoiceCount: 3},
					},
				},
			},
		},
	}
}

func TestLocalReportStore_SaveAndLoadReport(t *testing.T) {
	for _, format := range []string{ReportFormatYAML, ReportFormatJSON} {
		t.Run(format+" report round trips", func(t *testing.T) {
			store := NewLocalReportStore(NewLocalSourceFSAdapter())
			dir := t.TempDir()

			path, err := store.SaveReport(m.Path(dir), sampleReport(), format)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, "report."+format), string(path))

			got, err := store.LoadReport(path)
			require.NoError(t, err)

			want := sampleReport()
			assert.Equal(t, want.RunID, got.RunID)
			assert.True(t, want.StartedAt.Equal(got.StartedAt))
			require.Len(t, got.Seeds, 1)
			assert.Equal(t, want.Seeds[0].Seed, got.Seeds[0].Seed)
			require.Len(t, got.Seeds[0].Mutations, 1)
			assert.Equal(t, want.Seeds[0].Mutations[0].Outcome, got.Seeds[0].Mutations[0].Outcome)
		})
	}

	t.Run("empty format defaults to yaml", func(t *testing.T) {
		store := NewLocalReportStore(NewLocalSourceFSAdapter())

		path, err := store.SaveReport(m.Path(t.TempDir()), sampleReport(), "")
		require.NoError(t, err)
		assert.Equal(t, ".yaml", filepath.Ext(string(path)))
	})

	t.Run("unknown format is rejected", func(t *testing.T) {
		store := NewLocalReportStore(NewLocalSourceFSAdapter())

		_, err := store.SaveReport(m.Path(t.TempDir()), sampleReport(), "toml")
		require.ErrorIs(t, err, ErrUnknownFormat)

		_, err = store.LoadReport(m.Path(filepath.Join(t.TempDir(), "report.txt")))
		require.Error(t, err)
	})
}

func TestLocalReportStore_SaveMutation(t *testing.T) {
	store := NewLocalReportStore(NewLocalSourceFSAdapter())
	dir := t.TempDir()

	path, err := store.SaveMutation(m.Path(dir), m.Mutation{
		ID:      "42",
		Seed:    "seeds/basic/lib.rs",
		Content: []byte("trait Tr1: Tr2 {}\n"),
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "mutants", "lib-42.rs"), string(path))

	data, err := os.ReadFile(string(path))
	require.NoError(t, err)
	assert.Equal(t, "trait Tr1: Tr2 {}\n", string(data))
}
