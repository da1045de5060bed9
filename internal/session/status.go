// Package session holds the client-side state machine for one Blitz calling
// campaign: the call lifecycle and session phase enums, the typed frames
// delivered by the stream, and the reconciler that folds frames into an
// immutable snapshot of per-business call progress.
package session

// CallStatus is the lifecycle state of a single outbound call. Values match
// the backend wire protocol verbatim.
type CallStatus string

const (
	Pending   CallStatus = "pending"
	Ringing   CallStatus = "ringing"
	Connected CallStatus = "connected"
	Speaking  CallStatus = "speaking"  // refinement of connected
	Recording CallStatus = "recording" // refinement of connected
	Complete  CallStatus = "complete"
	NoAnswer  CallStatus = "no_answer"
	Busy      CallStatus = "busy"
	Failed    CallStatus = "failed"
)

// Terminal reports whether the call can no longer change state.
func (s CallStatus) Terminal() bool {
	switch s {
	case Complete, NoAnswer, Busy, Failed:
		return true
	}
	return false
}

// Collapse folds transport refinements into the state shown to users.
// The backend reports speaking/recording while the AI is mid-conversation;
// both are still just "on the call" from the outside.
func (s CallStatus) Collapse() CallStatus {
	if s == Speaking || s == Recording {
		return Connected
	}
	return s
}

// Phase is the overall state of a calling campaign.
type Phase string

const (
	PhaseIdle      Phase = "idle" // pre-session, nothing subscribed
	PhaseSearching Phase = "searching"
	PhaseCalling   Phase = "calling"
	PhaseComplete  Phase = "complete"
	PhaseError     Phase = "error"
)

// Terminal reports whether the campaign has ended. No entity mutation is
// accepted once a terminal phase is reached; Reset is the only way out.
func (p Phase) Terminal() bool {
	return p == PhaseComplete || p == PhaseError
}

// Speaker identifies who produced a transcript line.
type Speaker string

const (
	SpeakerAI     Speaker = "ai"
	SpeakerHuman  Speaker = "human"
	SpeakerSystem Speaker = "system"
	SpeakerError  Speaker = "error"
)
