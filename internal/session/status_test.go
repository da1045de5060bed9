package session

import "testing"

func TestCallStatusTerminal(t *testing.T) {
	tests := []struct {
		status CallStatus
		want   bool
	}{
		{Pending, false},
		{Ringing, false},
		{Connected, false},
		{Speaking, false},
		{Recording, false},
		{Complete, true},
		{NoAnswer, true},
		{Busy, true},
		{Failed, true},
	}

	for _, tt := range tests {
		if got := tt.status.Terminal(); got != tt.want {
			t.Errorf("%q.Terminal() = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestCallStatusCollapse(t *testing.T) {
	tests := []struct {
		status CallStatus
		want   CallStatus
	}{
		{Speaking, Connected},
		{Recording, Connected},
		{Connected, Connected},
		{Ringing, Ringing},
		{Complete, Complete},
	}

	for _, tt := range tests {
		if got := tt.status.Collapse(); got != tt.want {
			t.Errorf("%q.Collapse() = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestPhaseTerminal(t *testing.T) {
	tests := []struct {
		phase Phase
		want  bool
	}{
		{PhaseIdle, false},
		{PhaseSearching, false},
		{PhaseCalling, false},
		{PhaseComplete, true},
		{PhaseError, true},
	}

	for _, tt := range tests {
		if got := tt.phase.Terminal(); got != tt.want {
			t.Errorf("%q.Terminal() = %v, want %v", tt.phase, got, tt.want)
		}
	}
}
