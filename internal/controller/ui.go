// Package controller provides output adapters for displaying mutation results.
package controller

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	m "traitmut.dev/pkg/traitmut/internal/model"
)

// Site list formats accepted by DisplaySites.
const (
	FormatPretty = "pretty"
	FormatJSON   = "json"
	FormatTable  = "table"
)

// ErrUnknownFormat is returned for an unsupported site list format.
var ErrUnknownFormat = errors.New("unknown output format")

// UI defines the interface for presenting workflow results. Program output
// (mutants, JSON, site lists) goes to stdout; status lines go to stderr.
type UI interface {
	DisplayOutcome(ctx context.Context, result m.MutationResult, emitChoice bool) error
	DisplaySource(ctx context.Context, content []byte) error
	DisplayMetrics(ctx context.Context, metrics m.Metrics) error
	DisplayGraph(ctx context.Context, graph m.DependencyGraph) error
	DisplaySites(ctx context.Context, sites []m.SiteDebug, format string) error
	DisplayDiff(ctx context.Context, name string, before, after []byte) error
	DisplayBatchSummary(ctx context.Context, report m.BatchReport, reportPath m.Path) error
}

// NewUI returns the UI for cmd. On a terminal, kinds are colored and long
// pretty site lists open in a scrollable pager.
func NewUI(cmd *cobra.Command, tty bool) UI {
	simple := NewSimpleUI(cmd, WithStyles(tty))
	if !tty {
		return simple
	}

	return NewTUI(simple)
}

// IsTTY reports whether f is attached to a terminal.
func IsTTY(f *os.File) bool {
	if f == nil {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}
