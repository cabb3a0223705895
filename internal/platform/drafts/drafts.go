package drafts

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/caregrid/admin-api/pkg/editsession"
)

var (
	// ErrUnknownResource is returned when a draft is requested for a resource
	// type that was never registered.
	ErrUnknownResource = errors.New("unknown draft resource")
	// ErrNoDraft is returned when no open draft exists for the given key.
	ErrNoDraft = errors.New("no open draft")
)

// Loader fetches the current record for a resource so a draft can start from it.
type Loader func(ctx context.Context, id string) (editsession.Record, error)

// Resource describes how drafts of one resource type are loaded and persisted.
type Resource struct {
	Load   Loader
	Submit editsession.Submitter
}

// Manager tracks open edit sessions per resource type and record id. Sessions
// are server-side state, so a client can stage field changes across requests
// and either submit or discard them.
type Manager struct {
	mu        sync.Mutex
	resources map[string]Resource
	sessions  map[string]*editsession.Session
}

func NewManager() *Manager {
	return &Manager{
		resources: make(map[string]Resource),
		sessions:  make(map[string]*editsession.Session),
	}
}

// Register makes a resource type available for drafting. Registering the same
// name twice replaces the earlier definition.
func (m *Manager) Register(name string, res Resource) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resources[name] = res
}

func sessionKey(resource, id string) string {
	return resource + "/" + id
}

// Open loads the current record and starts a draft for it. Opening a record
// that already has a draft returns the existing draft unchanged.
func (m *Manager) Open(ctx context.Context, resource, id string) (editsession.Record, error) {
	m.mu.Lock()
	res, ok := m.resources[resource]
	if !ok {
		m.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrUnknownResource, resource)
	}
	key := sessionKey(resource, id)
	if sess, exists := m.sessions[key]; exists {
		m.mu.Unlock()
		return sess.Draft(), nil
	}
	m.mu.Unlock()

	record, err := res.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load %s %s: %w", resource, id, err)
	}

	sess := editsession.New()
	if err := sess.Open(record); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// A concurrent Open may have won the race; keep the first session.
	if existing, exists := m.sessions[key]; exists {
		return existing.Draft(), nil
	}
	m.sessions[key] = sess
	return sess.Draft(), nil
}

// Update stages field changes on an open draft.
func (m *Manager) Update(resource, id string, fields editsession.Record) (editsession.Record, error) {
	sess, err := m.session(resource, id)
	if err != nil {
		return nil, err
	}
	for k, v := range fields {
		if err := sess.UpdateField(k, v); err != nil {
			return nil, err
		}
	}
	return sess.Draft(), nil
}

// Draft returns the staged record for an open draft.
func (m *Manager) Draft(resource, id string) (editsession.Record, error) {
	sess, err := m.session(resource, id)
	if err != nil {
		return nil, err
	}
	draft := sess.Draft()
	if draft == nil {
		return nil, ErrNoDraft
	}
	return draft, nil
}

// Submit persists the draft through the resource's submitter. On success the
// session is closed and removed; on failure it stays open for another attempt.
func (m *Manager) Submit(ctx context.Context, resource, id string) (editsession.Record, error) {
	m.mu.Lock()
	res, ok := m.resources[resource]
	m.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownResource, resource)
	}

	sess, err := m.session(resource, id)
	if err != nil {
		return nil, err
	}
	saved, err := sess.Submit(ctx, res.Submit)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	delete(m.sessions, sessionKey(resource, id))
	m.mu.Unlock()
	return saved, nil
}

// Cancel discards an open draft without persisting anything.
func (m *Manager) Cancel(resource, id string) error {
	sess, err := m.session(resource, id)
	if err != nil {
		return err
	}
	sess.Cancel()

	m.mu.Lock()
	delete(m.sessions, sessionKey(resource, id))
	m.mu.Unlock()
	return nil
}

func (m *Manager) session(resource, id string) (*editsession.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.resources[resource]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownResource, resource)
	}
	sess, ok := m.sessions[sessionKey(resource, id)]
	if !ok {
		return nil, ErrNoDraft
	}
	return sess, nil
}
