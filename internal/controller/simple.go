package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	m "traitmut.dev/pkg/traitmut/internal/model"
)

const (
	msgMutated     = "Mutation successful."
	msgNotMutated  = "No mutation performed."
	msgTokenOutput = "printer failed; falling back to token-based output"
)

// SimpleUI implements UI using the cobra command's output streams.
type SimpleUI struct {
	cmd    *cobra.Command
	styles styles
}

// SimpleUIOption configures a SimpleUI.
type SimpleUIOption func(*SimpleUI)

// WithStyles enables lipgloss styling of site kinds and headings.
func WithStyles(enabled bool) SimpleUIOption {
	return func(s *SimpleUI) {
		s.styles = newStyles(enabled)
	}
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command, opts ...SimpleUIOption) *SimpleUI {
	s := &SimpleUI{cmd: cmd}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// DisplayOutcome prints the status of one mutation attempt to stderr,
// preceded by the MUTATION_CHOICE line when emitChoice is set.
func (s *SimpleUI) DisplayOutcome(ctx context.Context, result m.MutationResult, emitChoice bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if result.ParseError != nil {
		s.eprintf("Parse failed: %v\n", result.ParseError)
		s.eprintf("%s\n", msgNotMutated)

		return nil
	}

	if emitChoice {
		s.eprintf("%s\n", ChoiceLine(result.Outcome))
	}

	if result.Fallback {
		s.eprintf("%s\n", msgTokenOutput)
	}

	if result.Outcome.Mutated {
		s.eprintf("%s\n", msgMutated)
	} else {
		s.eprintf("%s\n", msgNotMutated)
	}

	return nil
}

// ChoiceLine renders the machine-parsable record of an outcome.
func ChoiceLine(o m.Outcome) string {
	mutated := 0
	if o.Mutated {
		mutated = 1
	}

	return fmt.Sprintf("MUTATION_CHOICE mode=%s count=%d index=%d mutated=%d choice_count=%d choice_index=%d local_index=%d local_count=%d",
		o.Mode, o.SiteCount, o.SiteIndex, mutated, o.ChoiceCount, o.ChoiceIndex, o.LocalIndex, o.LocalCount)
}

// DisplaySource writes content to stdout unchanged.
func (s *SimpleUI) DisplaySource(ctx context.Context, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := s.cmd.OutOrStdout().Write(content)

	return err
}

// DisplayMetrics prints metrics as a single JSON line.
func (s *SimpleUI) DisplayMetrics(ctx context.Context, metrics m.Metrics) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(metrics)
	if err != nil {
		return fmt.Errorf("encode metrics: %w", err)
	}

	s.printf("%s\n", data)

	return nil
}

// DisplayGraph prints the dependency graph as indented JSON.
func (s *SimpleUI) DisplayGraph(ctx context.Context, graph m.DependencyGraph) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(graph, "", "  ")
	if err != nil {
		return fmt.Errorf("encode graph: %w", err)
	}

	s.printf("%s\n", data)

	return nil
}

// DisplaySites prints a site list in the requested format.
func (s *SimpleUI) DisplaySites(ctx context.Context, sites []m.SiteDebug, format string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	switch strings.ToLower(format) {
	case "", FormatPretty:
		s.printf("%s", s.renderSitesPretty(sites))
	case FormatJSON:
		if sites == nil {
			sites = []m.SiteDebug{}
		}

		data, err := json.Marshal(sites)
		if err != nil {
			return fmt.Errorf("encode sites: %w", err)
		}

		s.printf("%s\n", data)
	case FormatTable:
		s.printf("%s", renderSitesTable(sites))
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	return nil
}

func (s *SimpleUI) renderSitesPretty(sites []m.SiteDebug) string {
	var b strings.Builder

	for _, site := range sites {
		writeSite(&b, s.styles, site)
	}

	return b.String()
}

func writeSite(b *strings.Builder, st styles, site m.SiteDebug) {
	fmt.Fprintf(b, "#%d [%s] %s\n", site.Index, st.kind(site.Kind), site.Label)
	fmt.Fprintf(b, "  candidates: %d\n", len(site.Candidates))

	for _, c := range site.Candidates {
		fmt.Fprintf(b, "    - %s\n", c)
	}

	b.WriteString("\n")
}

func renderSitesTable(sites []m.SiteDebug) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"#", "Kind", "Label", "Candidates"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER,
	})

	total := 0

	for _, site := range sites {
		table.Append([]string{
			fmt.Sprintf("%d", site.Index),
			string(site.Kind),
			site.Label,
			fmt.Sprintf("%d", len(site.Candidates)),
		})

		total += len(site.Candidates)
	}

	table.SetFooter([]string{"", "", fmt.Sprintf("Total Sites %d", len(sites)), fmt.Sprintf("%d", total)})
	table.Render()

	return tableBuffer.String()
}

// DisplayDiff prints a unified diff between the input and the mutant.
func (s *SimpleUI) DisplayDiff(ctx context.Context, name string, before, after []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	text, err := UnifiedDiff(name, before, after)
	if err != nil {
		return err
	}

	if text == "" {
		s.eprintf("%s\n", s.styles.dim("no changes"))
		return nil
	}

	s.printf("%s", text)

	return nil
}

// UnifiedDiff renders a unified diff of before and after with three lines
// of context. Equal inputs yield an empty string.
func UnifiedDiff(name string, before, after []byte) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: "a/" + name,
		ToFile:   "b/" + name,
		Context:  3,
	}

	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("diff %s: %w", name, err)
	}

	return text, nil
}

// DisplayBatchSummary prints one row per seed plus totals.
func (s *SimpleUI) DisplayBatchSummary(ctx context.Context, report m.BatchReport, reportPath m.Path) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("%s\n", s.styles.heading(fmt.Sprintf("Run %s (seed %d, %s)", report.RunID, report.RNGSeed, report.Duration)))
	s.printf("\n%s", renderBatchTable(report))

	if reportPath != "" {
		s.printf("Report: %s\n", reportPath)
	}

	return nil
}

func renderBatchTable(report m.BatchReport) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Seed", "Score", "Generated", "Unique", "Mutated"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
	})

	var generated, unique, mutated int

	for _, seed := range report.Seeds {
		name := string(seed.Seed.ShortPath)
		if name == "" {
			name = string(seed.Seed.Path)
		}

		if seed.Error != "" {
			name += " (" + seed.Error + ")"
		}

		table.Append([]string{
			name,
			fmt.Sprintf("%d", seed.Score),
			fmt.Sprintf("%d", seed.Generated),
			fmt.Sprintf("%d", seed.Unique()),
			fmt.Sprintf("%d", seed.Mutated()),
		})

		generated += seed.Generated
		unique += seed.Unique()
		mutated += seed.Mutated()
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Seeds %d", len(report.Seeds)),
		"",
		fmt.Sprintf("%d", generated),
		fmt.Sprintf("%d", unique),
		fmt.Sprintf("%d", mutated),
	})
	table.Render()

	return tableBuffer.String()
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

func (s *SimpleUI) eprintf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.ErrOrStderr(), format, args...)
}

func (s *SimpleUI) out() io.Writer {
	return s.cmd.OutOrStdout()
}
