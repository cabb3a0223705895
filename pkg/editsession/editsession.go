// Package editsession manages the lifecycle of one in-progress edit or
// create operation against a record. A session owns a draft copy of
// the record's fields; the source record is never aliased, so an
// abandoned session leaves no trace. A submit in flight blocks
// concurrent submits of the same session, which closes the
// double-click double-write hole the old admin clients had.
package editsession

import (
	"context"
	"errors"
	"sync"
)

// State is the session lifecycle state.
type State string

const (
	StateClosed     State = "closed"
	StateEditing    State = "editing"
	StateSubmitting State = "submitting"
)

var (
	ErrNotEditing      = errors.New("edit session is not open for editing")
	ErrSubmitInFlight  = errors.New("edit session submit already in flight")
	ErrAlreadyOpen     = errors.New("edit session is already open")
	ErrNothingToSubmit = errors.New("edit session has no draft to submit")
)

// Record is the opaque field mapping a session edits.
type Record map[string]interface{}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Submitter persists a draft and returns the authoritative record as
// stored, typically the server response body.
type Submitter func(ctx context.Context, draft Record) (Record, error)

// Session is one edit/create flow. All methods are safe for
// concurrent use.
type Session struct {
	mu      sync.Mutex
	state   State
	draft   Record
	lastErr error
}

// New returns a closed session.
func New() *Session {
	return &Session{state: StateClosed}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastError returns the error from the most recent failed submit, or
// nil. It is cleared by a successful submit, Cancel, or a new Open.
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Open seeds the draft from an existing record (edit) or from nil
// (create, empty template) and moves the session to editing. The
// given record is copied, never retained.
func (s *Session) Open(record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateClosed {
		return ErrAlreadyOpen
	}
	if record == nil {
		s.draft = Record{}
	} else {
		s.draft = record.Clone()
	}
	s.state = StateEditing
	s.lastErr = nil
	return nil
}

// UpdateField sets one field on the draft. Only legal while editing.
func (s *Session) UpdateField(name string, value interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateEditing {
		return ErrNotEditing
	}
	s.draft[name] = value
	return nil
}

// Field reads one draft field.
func (s *Session) Field(name string) (interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.draft[name]
	return v, ok
}

// Draft returns a copy of the current draft.
func (s *Session) Draft() Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Clone()
}

// Submit sends the draft through the submitter. On success the session
// closes and the stored record is returned. On failure the session
// returns to editing with the error retained, so the caller can fix
// the draft and retry.
func (s *Session) Submit(ctx context.Context, submit Submitter) (Record, error) {
	s.mu.Lock()
	switch s.state {
	case StateSubmitting:
		s.mu.Unlock()
		return nil, ErrSubmitInFlight
	case StateEditing:
	default:
		s.mu.Unlock()
		return nil, ErrNothingToSubmit
	}
	s.state = StateSubmitting
	draft := s.draft.Clone()
	s.mu.Unlock()

	stored, err := submit(ctx, draft)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = StateEditing
		s.lastErr = err
		return nil, err
	}
	s.state = StateClosed
	s.draft = nil
	s.lastErr = nil
	return stored, nil
}

// Cancel discards the draft and closes the session.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateSubmitting {
		return
	}
	s.state = StateClosed
	s.draft = nil
	s.lastErr = nil
}
