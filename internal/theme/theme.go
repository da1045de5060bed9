// Package theme provides the Lip Gloss color palette and reusable styles
// for the Blitz TUI. It is a leaf package with no internal imports to avoid
// import cycles.
package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/call-blitz/tui/internal/session"
)

// Call status colors.
var (
	ColorPending   = lipgloss.Color("#6b7280")
	ColorRinging   = lipgloss.Color("#d97706")
	ColorConnected = lipgloss.Color("#3b82f6")
	ColorComplete  = lipgloss.Color("#16a34a")
	ColorFailed    = lipgloss.Color("#dc2626")
	ColorNoAnswer  = lipgloss.Color("#854d0e")
	ColorBusy      = lipgloss.Color("#b45309")
)

// Transcript speaker colors.
var (
	ColorSpeakerAI     = lipgloss.Color("#a855f7")
	ColorSpeakerHuman  = lipgloss.Color("#06b6d4")
	ColorSpeakerSystem = lipgloss.Color("#9ca3af")
	ColorSpeakerError  = lipgloss.Color("#dc2626")
)

// UI chrome colors.
var (
	ColorBorder  = lipgloss.Color("#4b5563")
	ColorDimmed  = lipgloss.Color("#6b7280")
	ColorBright  = lipgloss.Color("#f9fafb")
	ColorAccent  = lipgloss.Color("#f59e0b") // best-outcome highlight
	ColorHealthy = lipgloss.Color("#22c55e")
	ColorDanger  = lipgloss.Color("#dc2626")
)

// Shared styles.
var (
	StyleDimmed = lipgloss.NewStyle().Foreground(ColorDimmed)
	StyleBright = lipgloss.NewStyle().Foreground(ColorBright)
	StyleBest   = lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	StyleError  = lipgloss.NewStyle().Foreground(ColorDanger)
)

// StatusColor returns the color for a call status (refinements collapse to
// the connected color).
func StatusColor(s session.CallStatus) lipgloss.Color {
	switch s.Collapse() {
	case session.Pending:
		return ColorPending
	case session.Ringing:
		return ColorRinging
	case session.Connected:
		return ColorConnected
	case session.Complete:
		return ColorComplete
	case session.Failed:
		return ColorFailed
	case session.NoAnswer:
		return ColorNoAnswer
	case session.Busy:
		return ColorBusy
	default:
		return ColorDimmed
	}
}

// SpeakerColor returns the color for a transcript speaker.
func SpeakerColor(s session.Speaker) lipgloss.Color {
	switch s {
	case session.SpeakerAI:
		return ColorSpeakerAI
	case session.SpeakerHuman:
		return ColorSpeakerHuman
	case session.SpeakerError:
		return ColorSpeakerError
	default:
		return ColorSpeakerSystem
	}
}
