// Package board renders the per-business call list: one row per tracked
// call with its live status, result or failure reason, and a marker on the
// best outcome so far.
package board

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/call-blitz/tui/internal/session"
	"github.com/call-blitz/tui/internal/theme"
	"github.com/call-blitz/tui/internal/view"
)

const (
	colName   = 26
	colPhone  = 16
	colStatus = 12
)

// Model holds the board state.
type Model struct {
	Width    int
	Selected int

	entities []session.CallEntity
	best     int
}

// New creates a board model.
func New() Model {
	return Model{best: -1}
}

// SetSnapshot updates the rendered entities and the best-outcome index
// (-1 for none).
func (m *Model) SetSnapshot(snap session.Snapshot, best int) {
	m.entities = snap.Entities
	m.best = best
	if m.Selected >= len(m.entities) {
		m.Selected = 0
	}
}

// Len returns the number of rows.
func (m Model) Len() int { return len(m.entities) }

// Entity returns the entity at index i.
func (m Model) Entity(i int) (session.CallEntity, bool) {
	if i < 0 || i >= len(m.entities) {
		return session.CallEntity{}, false
	}
	return m.entities[i], true
}

// View renders the call list.
func (m Model) View() string {
	width := m.Width
	if width < 60 {
		width = 60
	}

	if len(m.entities) == 0 {
		return lipgloss.NewStyle().
			Width(width).
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.ColorBorder).
			Render(theme.StyleDimmed.Render("No calls yet - describe what you need and press enter."))
	}

	var rows []string
	for i, e := range m.entities {
		rows = append(rows, m.renderRow(i, e, width))
	}

	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.ColorBorder).
		Render(strings.Join(rows, "\n"))
}

func (m Model) renderRow(i int, e session.CallEntity, width int) string {
	statusColor := theme.StatusColor(e.Status)
	dot := lipgloss.NewStyle().Foreground(statusColor).Render("●")

	name := pad(e.Business, colName)
	if i == m.best {
		name = theme.StyleBest.Render("★ " + pad(e.Business, colName-2))
	} else {
		name = theme.StyleBright.Render(name)
	}

	phone := theme.StyleDimmed.Render(pad(e.Phone, colPhone))
	label := lipgloss.NewStyle().Foreground(statusColor).Render(pad(view.StatusLabel(e.Status), colStatus))

	detail := ""
	switch {
	case e.Result != "":
		detail = theme.StyleBright.Render(truncate(e.Result, width-colName-colPhone-colStatus-10))
	case e.Error != "":
		detail = theme.StyleError.Render(truncate(e.Error, width-colName-colPhone-colStatus-10))
	case e.Address != "":
		detail = theme.StyleDimmed.Render(truncate(e.Address, width-colName-colPhone-colStatus-10))
	}

	row := fmt.Sprintf("%s %s %s %s %s", dot, name, phone, label, detail)
	if i == m.Selected {
		return lipgloss.NewStyle().Background(lipgloss.Color("#1f2937")).Render(row)
	}
	return row
}

// pad and truncate slice by runes: result strings carry currency symbols,
// and a byte cut could split one.
func pad(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n-1]) + "…"
	}
	return s + strings.Repeat(" ", n-len(r))
}

func truncate(s string, n int) string {
	if n <= 1 {
		return ""
	}
	r := []rune(s)
	if len(r) > n {
		return string(r[:n-1]) + "…"
	}
	return s
}
