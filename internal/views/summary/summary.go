// Package summary renders the terminal campaign summary as markdown.
package summary

import (
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/call-blitz/tui/internal/theme"
)

// Model holds the summary overlay state.
type Model struct {
	Width int

	text string
}

// New creates a summary model.
func New() Model {
	return Model{}
}

// SetText updates the summary markdown.
func (m *Model) SetText(text string) {
	m.text = text
}

// View renders the summary. The backend writes the summary as markdown, so
// it goes through glamour; if rendering fails the raw text is still shown.
func (m Model) View() string {
	width := m.Width
	if width < 40 {
		width = 40
	}

	body := m.text
	if body == "" {
		body = "No summary yet."
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-8),
	)
	if err == nil {
		if rendered, rerr := r.Render(body); rerr == nil {
			body = rendered
		}
	}

	title := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorBright).Render("Summary")
	return lipgloss.NewStyle().
		Width(width).
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.ColorBorder).
		Render(title + "\n" + body)
}
