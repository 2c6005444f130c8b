package adapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	m "traitmut.dev/pkg/traitmut/internal/model"
)

// Report formats understood by ReportStore.
const (
	ReportFormatYAML = "yaml"
	ReportFormatJSON = "json"

	reportBaseName = "report"
	mutantsDir     = "mutants"
)

// ErrUnknownFormat is returned for a report format other than yaml or json.
var ErrUnknownFormat = errors.New("unknown report format")

// ReportStore persists batch results.
type ReportStore interface {
	// SaveMutation writes the mutant's content under dir and returns its path.
	SaveMutation(dir m.Path, mutation m.Mutation) (m.Path, error)

	// SaveReport writes report.<format> under dir and returns its path.
	SaveReport(dir m.Path, report m.BatchReport, format string) (m.Path, error)

	// LoadReport reads a report written by SaveReport.
	LoadReport(path m.Path) (m.BatchReport, error)
}

// LocalReportStore implements ReportStore on the local disk.
type LocalReportStore struct {
	fs SourceFSAdapter
}

// NewLocalReportStore constructs a LocalReportStore writing through fs.
func NewLocalReportStore(fs SourceFSAdapter) *LocalReportStore {
	return &LocalReportStore{fs: fs}
}

// SaveMutation writes mutation.Content to dir/mutants/<seed>-<id>.rs.
func (s *LocalReportStore) SaveMutation(dir m.Path, mutation m.Mutation) (m.Path, error) {
	seed := strings.TrimSuffix(filepath.Base(string(mutation.Seed)), filepath.Ext(string(mutation.Seed)))
	path := s.fs.JoinPath(string(dir), mutantsDir, seed+"-"+mutation.ID+".rs")

	if err := s.fs.WriteFile(path, mutation.Content, 0o600); err != nil {
		return "", fmt.Errorf("write mutant %s: %w", path, err)
	}

	slog.Debug("saved mutant", "path", path, "seed", mutation.Seed, "mode", mutation.Outcome.Mode)

	return path, nil
}

// SaveReport encodes report as yaml or json.
func (s *LocalReportStore) SaveReport(dir m.Path, report m.BatchReport, format string) (m.Path, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ReportFormatYAML
	}

	var (
		data []byte
		err  error
	)

	switch format {
	case ReportFormatYAML:
		data, err = yaml.Marshal(report)
	case ReportFormatJSON:
		data, err = json.MarshalIndent(report, "", "  ")
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}

	path := s.fs.JoinPath(string(dir), reportBaseName+"."+format)
	if err := s.fs.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write report %s: %w", path, err)
	}

	slog.Info("saved report", "path", path, "run_id", report.RunID, "seeds", len(report.Seeds))

	return path, nil
}

// LoadReport decodes a report, picking the format from the file extension.
func (s *LocalReportStore) LoadReport(path m.Path) (m.BatchReport, error) {
	var report m.BatchReport

	data, err := s.fs.ReadFile(path)
	if err != nil {
		return report, fmt.Errorf("read report %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(string(path))) {
	case ".json":
		err = json.Unmarshal(data, &report)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &report)
	default:
		return report, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}

	if err != nil {
		return report, fmt.Errorf("decode report %s: %w", path, err)
	}

	return report, nil
}

var _ ReportStore = (*LocalReportStore)(nil)
