// Package transcript renders the live transcript log for one call in a
// scrollable viewport.
package transcript

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/call-blitz/tui/internal/session"
	"github.com/call-blitz/tui/internal/theme"
)

// Model holds the transcript overlay state.
type Model struct {
	Title string

	vp    viewport.Model
	ready bool
}

// New creates a transcript model.
func New() Model {
	return Model{}
}

// SetSize resizes the viewport.
func (m *Model) SetSize(width, height int) {
	if width < 40 {
		width = 40
	}
	if height < 5 {
		height = 5
	}
	if !m.ready {
		m.vp = viewport.New(width-4, height-4)
		m.ready = true
	} else {
		m.vp.Width = width - 4
		m.vp.Height = height - 4
	}
}

// SetLines replaces the transcript content and scrolls to the bottom, since
// the newest fragment is what the user is following.
func (m *Model) SetLines(title string, lines []session.TranscriptLine) {
	m.Title = title
	var b strings.Builder
	for _, l := range lines {
		speaker := lipgloss.NewStyle().
			Foreground(theme.SpeakerColor(l.Speaker)).
			Bold(true).
			Render(fmt.Sprintf("%-6s", string(l.Speaker)))
		b.WriteString(speaker + " " + l.Text + "\n")
	}
	if b.Len() == 0 {
		b.WriteString(theme.StyleDimmed.Render("No transcript yet."))
	}
	if m.ready {
		m.vp.SetContent(b.String())
		m.vp.GotoBottom()
	}
}

// Update forwards scroll keys to the viewport.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

// View renders the transcript overlay.
func (m Model) View() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorBright).
		Render("Transcript - " + m.Title)
	body := ""
	if m.ready {
		body = m.vp.View()
	}
	return lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.ColorBorder).
		Render(title + "\n\n" + body)
}
