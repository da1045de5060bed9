package session

// Frame is one decoded message from the session stream, including the two
// transport lifecycle signals. The set of variants is closed: the reconciler
// switches over all of them and anything else is a programming error.
type Frame interface {
	frame()
}

// TransportOpen signals that the stream connection is established.
type TransportOpen struct{}

// TransportError signals a low-level stream failure, including the EOF the
// server produces when it ends the stream after a terminal frame. Distinct
// from SessionError, which is an application-level failure.
type TransportError struct {
	Err error
}

// SessionStart carries the initial session state and candidate set.
type SessionStart struct {
	SessionID  string
	Status     Phase
	Businesses []Candidate
}

// StatusUpdate is a generic phase change. When Businesses is non-nil it is an
// authoritative re-statement of the candidate set and replaces all entities.
type StatusUpdate struct {
	Status     Phase
	Message    string
	Businesses []Candidate
}

// CallStarted reports that a call began ringing.
type CallStarted struct {
	Business string
	Phone    string
}

// CallConnected reports that a call was answered.
type CallConnected struct {
	Business string
	Phone    string
}

// CallResult reports a successfully completed call.
type CallResult struct {
	Business string
	Phone    string
	Result   string
}

// CallFailed reports a call that ended without a result.
type CallFailed struct {
	Business string
	Phone    string
	Error    string
}

// Transcript appends one live transcript fragment to a call's log.
type Transcript struct {
	CallID string
	Line   TranscriptLine
}

// SessionComplete ends the campaign with a summary and a terminal results
// list reconciled against the known entities.
type SessionComplete struct {
	Summary string
	Results []CallOutcome
}

// SessionError ends the campaign with an application-level error.
type SessionError struct {
	Message string
}

func (TransportOpen) frame()   {}
func (TransportError) frame()  {}
func (SessionStart) frame()    {}
func (StatusUpdate) frame()    {}
func (CallStarted) frame()     {}
func (CallConnected) frame()   {}
func (CallResult) frame()      {}
func (CallFailed) frame()      {}
func (Transcript) frame()      {}
func (SessionComplete) frame() {}
func (SessionError) frame()    {}
