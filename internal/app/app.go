// Package app wires the stream, the reconciler and the sub-views into the
// root Bubble Tea model.
package app

import (
	"context"
	"sort"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/call-blitz/tui/internal/client"
	"github.com/call-blitz/tui/internal/session"
	"github.com/call-blitz/tui/internal/theme"
	"github.com/call-blitz/tui/internal/view"
	"github.com/call-blitz/tui/internal/views/board"
	"github.com/call-blitz/tui/internal/views/status"
	"github.com/call-blitz/tui/internal/views/summary"
	"github.com/call-blitz/tui/internal/views/transcript"
)

// Overlay identifies which modal is active.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayTranscript
	OverlaySummary
)

// --- messages ---

// campaignStartedMsg carries the backend's reply to a campaign request.
type campaignStartedMsg struct {
	resp *client.ChatResponse
	err  error
}

// frameMsg delivers one stream frame to the update loop. It carries the
// channel it was read from so frames from a superseded subscription can be
// told apart from the live one.
type frameMsg struct {
	frame session.Frame
	ch    <-chan session.Frame
}

// streamDoneMsg signals that a frame channel has closed.
type streamDoneMsg struct {
	ch <-chan session.Frame
}

// Model is the root Bubble Tea model.
type Model struct {
	api    *client.API
	stream *client.Stream
	rec    *session.Reconciler
	log    *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc

	keys   KeyMap
	width  int
	height int

	snap     session.Snapshot
	frames   <-chan session.Frame
	override string // user-pinned best outcome identity, "" = computed
	startErr string

	input      textinput.Model
	spin       spinner.Model
	board      board.Model
	statusBar  status.Model
	transcript transcript.Model
	summary    summary.Model
	overlay    Overlay
}

// New creates the root model.
func New(api *client.API, stream *client.Stream, log *zap.Logger) Model {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())

	input := textinput.New()
	input.Placeholder = "What do you need? e.g. \"find me an emergency plumber in Shoreditch\""
	input.CharLimit = 500
	input.Focus()

	rec := session.NewReconciler()

	return Model{
		api:        api,
		stream:     stream,
		rec:        rec,
		log:        log,
		ctx:        ctx,
		cancel:     cancel,
		keys:       DefaultKeyMap(),
		snap:       rec.Snapshot(),
		input:      input,
		spin:       spinner.New(spinner.WithSpinner(spinner.Dot)),
		board:      board.New(),
		statusBar:  status.New(),
		transcript: transcript.New(),
		summary:    summary.New(),
	}
}

// Init starts the cursor blink and spinner.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spin.Tick)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.statusBar.Width = msg.Width
		m.board.Width = msg.Width
		m.summary.Width = msg.Width
		m.input.Width = msg.Width - 6
		m.transcript.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		m.statusBar.Spinner = m.spin.View()
		return m, cmd

	case campaignStartedMsg:
		if msg.err != nil {
			m.log.Warn("campaign start failed", zap.Error(msg.err))
			m.startErr = msg.err.Error()
			return m, nil
		}
		m.startErr = ""
		m.override = ""
		m.log.Info("campaign started", zap.String("session_id", msg.resp.SessionID))
		// Open closes any previous subscription first, so a stale session
		// can never write into the new one.
		m.snap = m.rec.Reset()
		m.frames = m.stream.Open(m.ctx, msg.resp.SessionID)
		m.refresh()
		return m, waitFrame(m.frames)

	case frameMsg:
		// A wait command issued against a previous subscription can still
		// deliver after reset or re-open; frames buffered on the old channel
		// must never reach the fresh reconciler.
		if msg.ch != m.frames {
			return m, nil
		}
		m.snap = m.rec.Apply(msg.frame)
		if m.snap.Phase.Terminal() {
			m.stream.Close()
		}
		m.refresh()
		return m, waitFrame(m.frames)

	case streamDoneMsg:
		if msg.ch != m.frames {
			return m, nil
		}
		m.frames = nil
		return m, nil
	}

	if m.overlay == OverlayTranscript {
		var cmd tea.Cmd
		m.transcript, cmd = m.transcript.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Ctrl+C quits no matter what has focus.
	if msg.String() == "ctrl+c" {
		m.teardown()
		return m, tea.Quit
	}

	if m.overlay != OverlayNone {
		if key.Matches(msg, m.keys.Escape) {
			m.overlay = OverlayNone
			return m, nil
		}
		if m.overlay == OverlayTranscript {
			var cmd tea.Cmd
			m.transcript, cmd = m.transcript.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if m.input.Focused() {
		switch {
		case key.Matches(msg, m.keys.Enter):
			text := m.input.Value()
			if text == "" || m.api == nil {
				return m, nil
			}
			m.input.Blur()
			return m, m.startCampaign(text)
		case key.Matches(msg, m.keys.Escape):
			m.input.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.teardown()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Prompt):
		m.input.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Down):
		if n := m.board.Len(); n > 0 {
			m.board.Selected = (m.board.Selected + 1) % n
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if n := m.board.Len(); n > 0 {
			m.board.Selected = (m.board.Selected - 1 + n) % n
		}
		return m, nil

	case key.Matches(msg, m.keys.Transcript):
		m.transcript.SetLines("all calls", m.mergedTranscript())
		m.overlay = OverlayTranscript
		return m, nil

	case key.Matches(msg, m.keys.Summary):
		m.summary.SetText(m.snap.Summary)
		m.overlay = OverlaySummary
		return m, nil

	case key.Matches(msg, m.keys.MarkBest):
		if e, ok := m.board.Entity(m.board.Selected); ok {
			id := e.Phone
			if id == "" {
				id = e.Business
			}
			if m.override == id {
				m.override = "" // toggle back to computed detection
			} else {
				m.override = id
			}
			m.refresh()
		}
		return m, nil

	case key.Matches(msg, m.keys.Reset):
		m.stream.Close()
		m.frames = nil
		m.snap = m.rec.Reset()
		m.override = ""
		m.startErr = ""
		m.input.Focus()
		m.refresh()
		return m, textinput.Blink
	}

	return m, nil
}

// refresh pushes the current snapshot into the sub-views.
func (m *Model) refresh() {
	m.statusBar.SetSnapshot(m.snap)
	m.board.SetSnapshot(m.snap, view.Best(m.snap, m.override))
	if m.overlay == OverlayTranscript {
		m.transcript.SetLines("all calls", m.mergedTranscript())
	}
}

// mergedTranscript flattens the per-call transcript logs into one list,
// grouped per call id with a system header between groups.
func (m Model) mergedTranscript() []session.TranscriptLine {
	ids := make([]string, 0, len(m.snap.Transcripts))
	for id := range m.snap.Transcripts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var lines []session.TranscriptLine
	for _, id := range ids {
		lines = append(lines, session.TranscriptLine{
			Speaker: session.SpeakerSystem,
			Text:    "--- call " + id + " ---",
		})
		lines = append(lines, m.snap.Transcripts[id]...)
	}
	return lines
}

func (m *Model) teardown() {
	m.stream.Close()
	m.cancel()
}

// View renders the full UI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	title := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorAccent).
		Padding(0, 1).Render("BLITZ")

	var middle string
	switch m.overlay {
	case OverlayTranscript:
		middle = m.transcript.View()
	case OverlaySummary:
		middle = m.summary.View()
	default:
		middle = m.board.View()
	}

	promptBox := lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 1).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.ColorBorder).
		Render(m.input.View())

	sections := []string{title, m.statusBar.View(), middle, promptBox}
	if m.startErr != "" {
		sections = append(sections, theme.StyleError.Render("  "+m.startErr))
	}
	sections = append(sections, m.helpLine())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) helpLine() string {
	help := "enter start · i prompt · j/k select · t transcript · s summary · b mark best · r reset · q quit"
	return theme.StyleDimmed.Padding(0, 1).Render(help)
}

// --- commands ---

func (m Model) startCampaign(text string) tea.Cmd {
	api := m.api
	ctx := m.ctx
	return func() tea.Msg {
		resp, err := api.StartCampaign(ctx, text, nil)
		return campaignStartedMsg{resp: resp, err: err}
	}
}

// waitFrame returns a command that delivers the next stream frame, tagged
// with its source channel. It is re-issued after every frame so the update
// loop sees each one.
func waitFrame(ch <-chan session.Frame) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		f, ok := <-ch
		if !ok {
			return streamDoneMsg{ch: ch}
		}
		return frameMsg{frame: f, ch: ch}
	}
}
