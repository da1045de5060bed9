// Package view computes presentation-ready facts from a session snapshot.
// Everything here is a pure function: no state, no side effects, safe to
// call on every render.
package view

import (
	"regexp"
	"strconv"

	"github.com/call-blitz/tui/internal/session"
)

// priceRe matches a currency symbol immediately followed by a decimal
// number, e.g. "£85" or "£85.50". First match per string wins. This is a
// deliberate heuristic over free-text results, not a financial parser; use
// the Best override to bypass it once the backend supplies structured prices.
var priceRe = regexp.MustCompile(`[£$€](\d+(?:\.\d+)?)`)

// ExtractPrice pulls the first currency-prefixed number out of a free-text
// call result. The second return is false when no price token is present.
func ExtractPrice(result string) (float64, bool) {
	m := priceRe.FindStringSubmatch(result)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Completion returns the fraction of tracked calls that have reached a
// terminal state, in [0, 1]. Zero entities means zero progress.
func Completion(snap session.Snapshot) float64 {
	if len(snap.Entities) == 0 {
		return 0
	}
	done := 0
	for _, e := range snap.Entities {
		if e.Status.Terminal() {
			done++
		}
	}
	return float64(done) / float64(len(snap.Entities))
}

// Best returns the index of the best outcome among completed calls, or -1.
//
// An explicit override (the phone or business name of an entity) always wins.
// Otherwise the completed entity with the lowest extracted price wins; if no
// completed result carries a parseable price, the first completed entity in
// discovery order is chosen.
func Best(snap session.Snapshot, override string) int {
	if override != "" {
		for i, e := range snap.Entities {
			if (e.Phone != "" && e.Phone == override) || e.Business == override {
				return i
			}
		}
	}

	best := -1
	bestPrice := 0.0
	firstComplete := -1
	for i, e := range snap.Entities {
		if e.Status != session.Complete {
			continue
		}
		if firstComplete < 0 {
			firstComplete = i
		}
		if e.Result == "" {
			continue
		}
		price, ok := ExtractPrice(e.Result)
		if !ok {
			continue
		}
		if best < 0 || price < bestPrice {
			best = i
			bestPrice = price
		}
	}
	if best >= 0 {
		return best
	}
	return firstComplete
}

var statusLabels = map[session.CallStatus]string{
	session.Pending:   "Waiting...",
	session.Ringing:   "Ringing...",
	session.Connected: "On call...",
	session.Complete:  "Done",
	session.Failed:    "Failed",
	session.NoAnswer:  "No answer",
	session.Busy:      "Busy",
}

// StatusLabel maps a call status to its human-readable label. Transport
// refinements collapse to the connected label.
func StatusLabel(s session.CallStatus) string {
	if l, ok := statusLabels[s.Collapse()]; ok {
		return l
	}
	return string(s)
}

var phaseLabels = map[session.Phase]string{
	session.PhaseIdle:      "Idle",
	session.PhaseSearching: "Searching...",
	session.PhaseCalling:   "Calling...",
	session.PhaseComplete:  "Complete",
	session.PhaseError:     "Error",
}

// PhaseLabel maps a session phase to its human-readable label.
func PhaseLabel(p session.Phase) string {
	if l, ok := phaseLabels[p]; ok {
		return l
	}
	return string(p)
}
