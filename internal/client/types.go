// Package client talks to the Blitz backend: a REST client for starting
// campaigns and a server-sent-events stream for live call updates. Wire
// types mirror the backend protocol without importing backend code.
package client

import (
	"encoding/json"

	"github.com/call-blitz/tui/internal/session"
)

// SSE event names emitted by the stream endpoint.
const (
	EventSessionStart    = "session_start"
	EventStatus          = "status"
	EventCallStarted     = "call_started"
	EventCallConnected   = "call_connected"
	EventCallResult      = "call_result"
	EventCallFailed      = "call_failed"
	EventTranscript      = "transcript"
	EventSessionComplete = "session_complete"
	EventError           = "error"
)

// BusinessPayload is one discovered business. Only name/phone identity is
// reliable; the rest depends on what the discovery source returned.
type BusinessPayload struct {
	ID        string   `json:"id,omitempty"`
	Name      string   `json:"name"`
	Phone     string   `json:"phone,omitempty"`
	Address   string   `json:"address,omitempty"`
	Rating    *float64 `json:"rating,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Website   string   `json:"website,omitempty"`
	PlaceID   string   `json:"place_id,omitempty"`
}

type sessionStartPayload struct {
	SessionID  string            `json:"session_id,omitempty"`
	Status     string            `json:"status"`
	Businesses []BusinessPayload `json:"businesses"`
}

type statusPayload struct {
	Status     string            `json:"status"`
	Message    string            `json:"message,omitempty"`
	Businesses []BusinessPayload `json:"businesses,omitempty"`
}

type callStartedPayload struct {
	Business string `json:"business,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Status   string `json:"status,omitempty"`
}

type callConnectedPayload struct {
	Business string `json:"business,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Status   string `json:"status,omitempty"`
}

type callResultPayload struct {
	Business string `json:"business,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Status   string `json:"status,omitempty"`
	Result   string `json:"result"`
}

type callFailedPayload struct {
	Business string `json:"business,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Error    string `json:"error,omitempty"`
}

type transcriptPayload struct {
	CallID    string `json:"call_id"`
	Speaker   string `json:"speaker"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp,omitempty"`
}

type outcomePayload struct {
	Business string `json:"business"`
	Phone    string `json:"phone,omitempty"`
	Status   string `json:"status,omitempty"`
	Result   string `json:"result,omitempty"`
	Error    string `json:"error,omitempty"`
}

type sessionCompletePayload struct {
	Summary string           `json:"summary,omitempty"`
	Results []outcomePayload `json:"results,omitempty"`
}

type errorPayload struct {
	Message string `json:"message,omitempty"`
}

// --- REST payloads ---

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message   string          `json:"message"`
	SessionID string          `json:"session_id,omitempty"`
	Location  *session.LatLng `json:"location,omitempty"`
}

// ChatResponse is the reply to POST /api/chat. The session id scopes the
// event stream for the campaign it started.
type ChatResponse struct {
	SessionID string `json:"session_id"`
	Agent     string `json:"agent"`
	Status    string `json:"status"`
	Message   string `json:"message"`
	StreamURL string `json:"stream_url,omitempty"`
}

// SessionResponse is the reply to GET /api/session/{id}, a one-shot read of
// the current campaign state.
type SessionResponse struct {
	SessionID  string            `json:"session_id"`
	Status     string            `json:"status"`
	Businesses []BusinessPayload `json:"businesses"`
	Calls      []outcomePayload  `json:"calls"`
	Summary    string            `json:"summary,omitempty"`
}

func (b BusinessPayload) candidate() session.Candidate {
	c := session.Candidate{
		ID:      b.ID,
		Name:    b.Name,
		Phone:   b.Phone,
		Address: b.Address,
		Rating:  b.Rating,
		Website: b.Website,
	}
	if b.Latitude != nil && b.Longitude != nil {
		c.Location = &session.LatLng{Lat: *b.Latitude, Lng: *b.Longitude}
	}
	return c
}

func candidates(bs []BusinessPayload) []session.Candidate {
	if bs == nil {
		return nil
	}
	out := make([]session.Candidate, len(bs))
	for i, b := range bs {
		out[i] = b.candidate()
	}
	return out
}

func outcomes(rs []outcomePayload) []session.CallOutcome {
	out := make([]session.CallOutcome, len(rs))
	for i, o := range rs {
		out[i] = session.CallOutcome{
			Business: o.Business,
			Phone:    o.Phone,
			Status:   session.CallStatus(o.Status),
			Result:   o.Result,
			Error:    o.Error,
		}
	}
	return out
}

// decodeFrame turns a named SSE event into a typed session frame. Unknown
// event names are skipped; a payload that fails to parse degrades to the
// application-error frame with the fallback message rather than crashing the
// stream.
func decodeFrame(event string, data []byte) (session.Frame, bool) {
	switch event {
	case EventSessionStart:
		var p sessionStartPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return session.SessionError{}, true
		}
		return session.SessionStart{
			SessionID:  p.SessionID,
			Status:     session.Phase(p.Status),
			Businesses: candidates(p.Businesses),
		}, true

	case EventStatus:
		var p statusPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return session.SessionError{}, true
		}
		return session.StatusUpdate{
			Status:     session.Phase(p.Status),
			Message:    p.Message,
			Businesses: candidates(p.Businesses),
		}, true

	case EventCallStarted:
		var p callStartedPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return session.SessionError{}, true
		}
		return session.CallStarted{Business: p.Business, Phone: p.Phone}, true

	case EventCallConnected:
		var p callConnectedPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return session.SessionError{}, true
		}
		return session.CallConnected{Business: p.Business, Phone: p.Phone}, true

	case EventCallResult:
		var p callResultPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return session.SessionError{}, true
		}
		return session.CallResult{Business: p.Business, Phone: p.Phone, Result: p.Result}, true

	case EventCallFailed:
		var p callFailedPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return session.SessionError{}, true
		}
		return session.CallFailed{Business: p.Business, Phone: p.Phone, Error: p.Error}, true

	case EventTranscript:
		var p transcriptPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return session.SessionError{}, true
		}
		return session.Transcript{
			CallID: p.CallID,
			Line: session.TranscriptLine{
				Speaker:   session.Speaker(p.Speaker),
				Text:      p.Text,
				Timestamp: p.Timestamp,
			},
		}, true

	case EventSessionComplete:
		var p sessionCompletePayload
		if err := json.Unmarshal(data, &p); err != nil {
			return session.SessionError{}, true
		}
		return session.SessionComplete{Summary: p.Summary, Results: outcomes(p.Results)}, true

	case EventError:
		var p errorPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return session.SessionError{}, true
		}
		return session.SessionError{Message: p.Message}, true
	}

	return nil, false
}
