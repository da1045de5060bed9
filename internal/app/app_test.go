package app

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/call-blitz/tui/internal/client"
	"github.com/call-blitz/tui/internal/session"
)

func newTestModel() Model {
	m := New(nil, client.NewStream("http://127.0.0.1:1", "/api/stream", nil), nil)
	mm, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return mm.(Model)
}

func apply(t *testing.T, m Model, frames ...session.Frame) Model {
	t.Helper()
	for _, f := range frames {
		mm, _ := m.Update(frameMsg{frame: f})
		m = mm.(Model)
	}
	return m
}

func discovery() session.Frame {
	return session.SessionStart{
		SessionID: "sess-1",
		Status:    session.PhaseCalling,
		Businesses: []session.Candidate{
			{Name: "Apex Plumbing", Phone: "+441"},
			{Name: "Budget Drains", Phone: "+442"},
		},
	}
}

func TestViewShowsBusinesses(t *testing.T) {
	m := apply(t, newTestModel(), session.TransportOpen{}, discovery())

	v := m.View()
	if !strings.Contains(v, "Apex Plumbing") {
		t.Error("view should list Apex Plumbing")
	}
	if !strings.Contains(v, "Budget Drains") {
		t.Error("view should list Budget Drains")
	}
	if !strings.Contains(v, "Connected") {
		t.Error("view should show connection state")
	}
	if !strings.Contains(v, "Waiting...") {
		t.Error("pending calls should render the waiting label")
	}
}

func TestViewMarksBestOutcome(t *testing.T) {
	m := apply(t, newTestModel(),
		discovery(),
		session.CallResult{Business: "Apex Plumbing", Result: "Available for £150"},
		session.CallResult{Business: "Budget Drains", Result: "Available for £75"},
	)

	v := m.View()
	if !strings.Contains(v, "★ Budget Drains") {
		t.Errorf("cheapest completed call should carry the best marker:\n%s", v)
	}
}

func TestViewShowsFailure(t *testing.T) {
	m := apply(t, newTestModel(),
		discovery(),
		session.CallFailed{Business: "Budget Drains"},
	)

	v := m.View()
	if !strings.Contains(v, "No answer") {
		t.Error("failed call should show its error")
	}
}

func TestTerminalPhaseShownAfterComplete(t *testing.T) {
	m := apply(t, newTestModel(),
		discovery(),
		session.SessionComplete{Summary: "1 of 2 available"},
	)

	v := m.View()
	if !strings.Contains(v, "Complete") {
		t.Error("status bar should show the complete phase")
	}
}

func TestStaleFrameDroppedAfterReset(t *testing.T) {
	m := apply(t, newTestModel(), discovery())

	// A wait command pending on the old subscription outlives the reset;
	// its frame is buffered and delivers afterwards.
	old := make(chan session.Frame, 1)
	m.frames = old
	old <- session.SessionStart{
		SessionID:  "old-session",
		Status:     session.PhaseCalling,
		Businesses: []session.Candidate{{Name: "Ghost Plumbing", Phone: "+449"}},
	}
	pending := waitFrame(old)

	m.input.Blur()
	mm, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = mm.(Model)

	mm, cmd := m.Update(pending())
	m = mm.(Model)
	if cmd != nil {
		t.Error("stale frame should not re-arm the wait loop")
	}
	if m.snap.SessionID != "" {
		t.Errorf("session id = %q, want empty after reset", m.snap.SessionID)
	}
	if len(m.snap.Entities) != 0 {
		t.Errorf("stale frame mutated post-reset state: %+v", m.snap.Entities)
	}
}

func TestStaleStreamDoneIgnored(t *testing.T) {
	m := newTestModel()
	live := make(chan session.Frame)
	m.frames = live

	mm, _ := m.Update(streamDoneMsg{ch: make(chan session.Frame)})
	m = mm.(Model)
	if m.frames == nil {
		t.Error("close of a superseded channel should not clear the live one")
	}
}

func TestStreamDoneClearsChannel(t *testing.T) {
	m := newTestModel()
	mm, cmd := m.Update(streamDoneMsg{})
	m = mm.(Model)
	if cmd != nil {
		t.Error("streamDoneMsg should not schedule another wait")
	}
	if m.frames != nil {
		t.Error("frame channel should be cleared")
	}
}

func TestMarkBestOverrideToggle(t *testing.T) {
	m := apply(t, newTestModel(),
		discovery(),
		session.CallResult{Business: "Apex Plumbing", Result: "£10"},
		session.CallResult{Business: "Budget Drains", Result: "£500"},
	)
	m.input.Blur()
	m.board.Selected = 1

	mm, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'b'}})
	m = mm.(Model)
	if !strings.Contains(m.View(), "★ Budget Drains") {
		t.Error("override should pin the selected entity as best")
	}

	mm, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'b'}})
	m = mm.(Model)
	if !strings.Contains(m.View(), "★ Apex Plumbing") {
		t.Error("second press should fall back to computed detection")
	}
}

func TestResetKeyClearsSession(t *testing.T) {
	m := apply(t, newTestModel(),
		discovery(),
		session.SessionComplete{Summary: "done"},
	)
	m.input.Blur()

	mm, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = mm.(Model)

	if m.snap.Phase != session.PhaseIdle {
		t.Errorf("phase after reset = %q, want idle", m.snap.Phase)
	}
	if len(m.snap.Entities) != 0 {
		t.Error("entities should be cleared on reset")
	}
	if !strings.Contains(m.View(), "No calls yet") {
		t.Error("board should be empty after reset")
	}
}
