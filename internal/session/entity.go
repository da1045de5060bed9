package session

// LatLng is a geographic point attached to a discovered business.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Candidate is one business from the discovery payload. Only the identity
// fields are guaranteed; everything else is best-effort metadata and may be
// absent depending on the discovery source.
type Candidate struct {
	ID       string
	Name     string
	Phone    string
	Address  string
	Rating   *float64
	Location *LatLng
	Website  string
}

// CallEntity is one tracked call attempt within a campaign. Identity is the
// phone number when present, otherwise the business name. Entities are
// created only from discovery payloads and persist in their last-known state
// for the life of the session.
type CallEntity struct {
	Business string
	Phone    string
	Address  string
	Rating   *float64
	Location *LatLng
	Website  string
	Status   CallStatus
	Result   string // free-text outcome, may embed a quoted price
	Error    string // failure reason; mutually exclusive with Result
}

// clone returns a copy with pointer fields duplicated so the copy can outlive
// further reconciler mutation.
func (e CallEntity) clone() CallEntity {
	if e.Rating != nil {
		r := *e.Rating
		e.Rating = &r
	}
	if e.Location != nil {
		l := *e.Location
		e.Location = &l
	}
	return e
}

// TranscriptLine is one live transcript fragment for a call.
type TranscriptLine struct {
	Speaker   Speaker
	Text      string
	Timestamp string
}

// CallOutcome is one row of the terminal results list. It is typically
// sparser than the discovery payload: only identity plus the outcome fields
// the backend still knows at summary time.
type CallOutcome struct {
	Business string
	Phone    string
	Status   CallStatus
	Result   string
	Error    string
}
