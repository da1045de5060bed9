package session

import "sync"

// Fallback strings surfaced through Snapshot.Err / CallEntity.Error.
const (
	msgConnectionLost = "Connection lost"
	msgNoAnswer       = "No answer"
	msgUnknownError   = "Unknown error"
)

// Snapshot is the reconciler's full exposed state at an instant. It is a
// deep copy: consumers may hold it across later Apply calls and compare by
// value for change detection.
type Snapshot struct {
	Connected   bool
	Phase       Phase
	SessionID   string
	Message     string // latest human-readable progress line from the backend
	Entities    []CallEntity
	Transcripts map[string][]TranscriptLine // call id -> transcript log
	Summary     string
	Err         string
}

// Reconciler folds stream frames into the canonical campaign state. One
// reconciler tracks one session; it is safe for the transport goroutine and
// a reader to touch it concurrently, though in practice all frames arrive
// through a single consumer loop.
type Reconciler struct {
	mu          sync.Mutex
	connected   bool
	phase       Phase
	sessionID   string
	message     string
	entities    []CallEntity
	transcripts map[string][]TranscriptLine
	summary     string
	err         string
}

// NewReconciler returns a reconciler in the initial idle state.
func NewReconciler() *Reconciler {
	r := &Reconciler{}
	r.init()
	return r
}

func (r *Reconciler) init() {
	r.connected = false
	r.phase = PhaseIdle
	r.sessionID = ""
	r.message = ""
	r.entities = nil
	r.transcripts = make(map[string][]TranscriptLine)
	r.summary = ""
	r.err = ""
}

// Reset returns the reconciler to its exact initial state. It is the only
// way to reuse a reconciler for a new session id.
func (r *Reconciler) Reset() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.init()
	return r.snapshot()
}

// Snapshot returns the current state without applying a frame.
func (r *Reconciler) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot()
}

// Apply merges one frame into the campaign state and returns the resulting
// snapshot. Frames referencing unknown entities are dropped; frames arriving
// after a terminal phase mutate nothing beyond the connection flag.
func (r *Reconciler) Apply(f Frame) Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch f := f.(type) {
	case TransportOpen:
		r.connected = true

	case TransportError:
		r.connected = false
		// A trailing disconnect after session_complete/error is how the
		// server ends every stream; only report it mid-session.
		if !r.phase.Terminal() {
			r.err = msgConnectionLost
		}

	case SessionStart:
		if r.phase.Terminal() {
			break
		}
		if f.SessionID != "" {
			r.sessionID = f.SessionID
		}
		r.applyStatus(f.Status, "", f.Businesses)

	case StatusUpdate:
		if r.phase.Terminal() {
			break
		}
		r.applyStatus(f.Status, f.Message, f.Businesses)

	case CallStarted:
		if r.phase.Terminal() {
			break
		}
		if e := r.find(f.Phone, f.Business); e != nil {
			e.Status = Ringing
		}

	case CallConnected:
		if r.phase.Terminal() {
			break
		}
		if e := r.find(f.Phone, f.Business); e != nil {
			e.Status = Connected
		}

	case CallResult:
		if r.phase.Terminal() {
			break
		}
		if e := r.find(f.Phone, f.Business); e != nil {
			e.Status = Complete
			e.Result = f.Result
		}

	case CallFailed:
		if r.phase.Terminal() {
			break
		}
		if e := r.find(f.Phone, f.Business); e != nil {
			e.Status = Failed
			if f.Error != "" {
				e.Error = f.Error
			} else {
				e.Error = msgNoAnswer
			}
		}

	case Transcript:
		if r.phase.Terminal() {
			break
		}
		r.transcripts[f.CallID] = append(r.transcripts[f.CallID], f.Line)

	case SessionComplete:
		if r.phase.Terminal() {
			break
		}
		r.phase = PhaseComplete
		r.summary = f.Summary
		for _, o := range f.Results {
			e := r.find(o.Phone, o.Business)
			if e == nil {
				continue
			}
			// The terminal payload is sparser than discovery: merge only
			// what it carries so address/rating/phone never regress.
			if o.Status != "" {
				e.Status = o.Status
			}
			if o.Result != "" {
				e.Result = o.Result
			}
			if o.Error != "" {
				e.Error = o.Error
			}
		}

	case SessionError:
		if r.phase.Terminal() {
			break
		}
		r.phase = PhaseError
		if f.Message != "" {
			r.err = f.Message
		} else {
			r.err = msgUnknownError
		}
	}

	return r.snapshot()
}

// applyStatus handles the shared body of session_start and status frames.
// A businesses list is a full authoritative replace of the candidate set,
// not a merge; it also invalidates call ids from any previous set.
func (r *Reconciler) applyStatus(status Phase, message string, businesses []Candidate) {
	if status != "" {
		r.phase = status
	}
	if message != "" {
		r.message = message
	}
	if businesses == nil {
		return
	}
	r.entities = make([]CallEntity, 0, len(businesses))
	for _, b := range businesses {
		r.entities = append(r.entities, CallEntity{
			Business: b.Name,
			Phone:    b.Phone,
			Address:  b.Address,
			Rating:   b.Rating,
			Location: b.Location,
			Website:  b.Website,
			Status:   Pending,
		})
	}
	r.transcripts = make(map[string][]TranscriptLine)
}

// find matches an entity by phone first, then by exact business name. Phone
// wins because the backend may reformat a business label between frames,
// while a phone number is stable whenever it is present at all.
func (r *Reconciler) find(phone, business string) *CallEntity {
	if phone != "" {
		for i := range r.entities {
			if r.entities[i].Phone != "" && r.entities[i].Phone == phone {
				return &r.entities[i]
			}
		}
	}
	if business != "" {
		for i := range r.entities {
			if r.entities[i].Business == business {
				return &r.entities[i]
			}
		}
	}
	return nil
}

func (r *Reconciler) snapshot() Snapshot {
	s := Snapshot{
		Connected:   r.connected,
		Phase:       r.phase,
		SessionID:   r.sessionID,
		Message:     r.message,
		Summary:     r.summary,
		Err:         r.err,
		Transcripts: make(map[string][]TranscriptLine, len(r.transcripts)),
	}
	if len(r.entities) > 0 {
		s.Entities = make([]CallEntity, len(r.entities))
		for i, e := range r.entities {
			s.Entities[i] = e.clone()
		}
	}
	for id, lines := range r.transcripts {
		cp := make([]TranscriptLine, len(lines))
		copy(cp, lines)
		s.Transcripts[id] = cp
	}
	return s
}
