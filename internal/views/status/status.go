// Package status renders the status bar: connection state, session phase,
// backend progress message and the campaign completion bar.
package status

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/call-blitz/tui/internal/session"
	"github.com/call-blitz/tui/internal/theme"
	"github.com/call-blitz/tui/internal/view"
)

// Model holds the status bar state.
type Model struct {
	Width   int
	Spinner string // current spinner frame while the campaign is live

	snap session.Snapshot
	bar  progress.Model
}

// New creates a status bar model.
func New() Model {
	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	bar.Width = 24
	return Model{bar: bar}
}

// SetSnapshot updates the displayed snapshot.
func (m *Model) SetSnapshot(snap session.Snapshot) {
	m.snap = snap
}

// View renders the status bar.
func (m Model) View() string {
	width := m.Width
	if width < 40 {
		width = 40
	}

	var connStr string
	if m.snap.Connected {
		connStr = lipgloss.NewStyle().Foreground(theme.ColorHealthy).Render("● Connected")
	} else {
		connStr = lipgloss.NewStyle().Foreground(theme.ColorDimmed).Render("○ Offline")
	}

	phase := view.PhaseLabel(m.snap.Phase)
	if m.Spinner != "" && !m.snap.Phase.Terminal() && m.snap.Phase != session.PhaseIdle {
		phase = m.Spinner + " " + phase
	}
	phaseStr := theme.StyleBright.Render(phase)

	done := 0
	for _, e := range m.snap.Entities {
		if e.Status.Terminal() {
			done++
		}
	}
	counts := theme.StyleDimmed.Render(fmt.Sprintf("%d/%d calls done", done, len(m.snap.Entities)))
	barStr := m.bar.ViewAs(view.Completion(m.snap))

	sep := lipgloss.NewStyle().Foreground(theme.ColorBorder).Render(" | ")
	content := connStr + sep + phaseStr + sep + counts + sep + barStr
	if m.snap.Message != "" {
		content += sep + theme.StyleDimmed.Render(m.snap.Message)
	}
	if m.snap.Err != "" {
		content += sep + theme.StyleError.Render(m.snap.Err)
	}

	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(theme.ColorBorder).
		Render(content)
}
