package controller

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	m "traitmut.dev/pkg/traitmut/internal/model"
)

// TUI is a SimpleUI whose pretty site lists open in a pager when they do
// not fit on the terminal.
type TUI struct {
	*SimpleUI
}

// NewTUI creates a new TUI on top of simple.
func NewTUI(simple *SimpleUI) *TUI {
	return &TUI{SimpleUI: simple}
}

// DisplaySites shows pretty lists through the pager; other formats are
// printed as plain text.
func (p *TUI) DisplaySites(ctx context.Context, sites []m.SiteDebug, format string) error {
	if format != "" && !strings.EqualFold(format, FormatPretty) {
		return p.SimpleUI.DisplaySites(ctx, sites, format)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	content := p.renderSitesPretty(sites)
	model := newSitePagerModel(fmt.Sprintf("%d site(s)", len(sites)), content, p.styles)

	output := p.out()

	// Get initial terminal size
	if f, ok := output.(*os.File); ok {
		width, height, err := term.GetSize(int(f.Fd()))
		if err == nil {
			model = model.resize(width, height)
		}
	}

	// If list is small, just print and exit
	if !model.needsPagination() {
		_, err := fmt.Fprint(output, content)
		return err
	}

	program := tea.NewProgram(model, tea.WithOutput(output), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return err
	}

	return nil
}

const (
	pagerHeaderHeight = 2
	pagerFooterHeight = 2
)

// sitePagerModel is the Bubble Tea model that scrolls a rendered site list.
type sitePagerModel struct {
	title    string
	content  string
	lines    int
	styles   styles
	viewport viewport.Model
	height   int
	width    int
	ready    bool
	quitting bool
}

func newSitePagerModel(title, content string, st styles) sitePagerModel {
	return sitePagerModel{
		title:   title,
		content: content,
		lines:   strings.Count(content, "\n"),
		styles:  st,
	}
}

func (spm sitePagerModel) Init() tea.Cmd {
	return nil
}

func (spm sitePagerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return spm.resize(msg.Width, msg.Height), nil

	case tea.KeyMsg:
		return spm.handleKeyPress(msg)
	}

	var cmd tea.Cmd

	spm.viewport, cmd = spm.viewport.Update(msg)

	return spm, cmd
}

//nolint:exhaustive // Key handling requires multiple cases for UI navigation
func (spm sitePagerModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		spm.quitting = true
		return spm, tea.Quit
	default:
		// Handle other key types in the string switch below
	}

	switch msg.String() {
	case "q":
		spm.quitting = true
		return spm, tea.Quit
	case "down", "j":
		spm.viewport.LineDown(1)
	case "up", "k":
		spm.viewport.LineUp(1)
	case "d", "pgdown":
		spm.viewport.HalfViewDown()
	case "u", "pgup":
		spm.viewport.HalfViewUp()
	case "g", "home":
		spm.viewport.GotoTop()
	case "G", "end":
		spm.viewport.GotoBottom()
	}

	return spm, nil
}

// resize fits the viewport between the header and the footer.
func (spm sitePagerModel) resize(width, height int) sitePagerModel {
	spm.width = width
	spm.height = height

	viewportHeight := max(1, height-pagerHeaderHeight-pagerFooterHeight)

	if !spm.ready {
		spm.viewport = viewport.New(width, viewportHeight)
		spm.viewport.YPosition = pagerHeaderHeight
		spm.viewport.SetContent(spm.content)
		spm.ready = true
	} else {
		spm.viewport.Width = width
		spm.viewport.Height = viewportHeight
	}

	return spm
}

// needsPagination returns true if the list is too large to fit on screen.
func (spm sitePagerModel) needsPagination() bool {
	if spm.height == 0 || spm.lines == 0 {
		return false
	}

	return spm.lines > spm.height-pagerHeaderHeight-pagerFooterHeight
}

func (spm sitePagerModel) View() string {
	if spm.quitting {
		return ""
	}

	if !spm.ready {
		return spm.content
	}

	var b strings.Builder

	b.WriteString(spm.styles.heading("traitmut: "+spm.title) + "\n\n")
	b.WriteString(spm.viewport.View())
	b.WriteString("\n")
	b.WriteString(spm.styles.dim(fmt.Sprintf("%3.f%%  j/k scroll • d/u half page • g/G top/bottom • q quit",
		spm.viewport.ScrollPercent()*100)))

	return b.String()
}
