package controller

import (
	"github.com/charmbracelet/lipgloss"

	m "traitmut.dev/pkg/traitmut/internal/model"
)

// styles colors site kinds and headings. The zero value renders plain text.
type styles struct {
	enabled bool
	kinds   map[m.SiteKind]lipgloss.Style
	title   lipgloss.Style
	faint   lipgloss.Style
}

func newStyles(enabled bool) styles {
	return styles{
		enabled: enabled,
		kinds: map[m.SiteKind]lipgloss.Style{
			m.SiteSupertrait:   lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
			m.SiteWhere:        lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
			m.SiteGenericBound: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
			m.SiteAssocBound:   lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
			m.SiteRewrite:      lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		},
		title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7")),
		faint: lipgloss.NewStyle().Faint(true),
	}
}

func (s styles) kind(k m.SiteKind) string {
	if !s.enabled {
		return string(k)
	}

	if style, ok := s.kinds[k]; ok {
		return style.Render(string(k))
	}

	return string(k)
}

func (s styles) heading(text string) string {
	if !s.enabled {
		return text
	}

	return s.title.Render(text)
}

func (s styles) dim(text string) string {
	if !s.enabled {
		return text
	}

	return s.faint.Render(text)
}
