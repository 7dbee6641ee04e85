package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Manager is the registry of live exam sessions, keyed by
// (student, exam). It enforces the one-attempt rule before a session is
// created and evicts sessions once their clock stops.
type Manager struct {
	catalog Catalog
	store   AttemptStore
	opts    Options
	log     zerolog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
	closed   bool
}

// NewManager creates an empty session registry.
func NewManager(catalog Catalog, store AttemptStore, log zerolog.Logger, opts Options) *Manager {
	return &Manager{
		catalog:  catalog,
		store:    store,
		opts:     opts,
		log:      log.With().Str("component", "session_manager").Logger(),
		sessions: make(map[string]*Session),
	}
}

func sessionKey(studentID, examID uuid.UUID) string {
	return studentID.String() + "/" + examID.String()
}

// Start begins an exam session for a student, or returns the existing
// live session so a reloaded client rejoins instead of restarting the
// clock. Students who already have a stored attempt get
// ErrAlreadyAttempted; a missing exam surfaces ErrExamNotFound.
func (m *Manager) Start(ctx context.Context, studentID, examID uuid.UUID) (*Session, error) {
	key := sessionKey(studentID, examID)

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, fmt.Errorf("session manager is shut down")
	}
	if existing, ok := m.sessions[key]; ok {
		m.mu.Unlock()
		switch existing.State() {
		case StateSubmitted:
			return nil, ErrAlreadyAttempted
		case StateAborted:
			m.remove(key, existing)
		default:
			return existing, nil
		}
	} else {
		m.mu.Unlock()
	}

	attempted, err := m.store.HasAttempt(ctx, studentID, examID)
	if err != nil {
		return nil, fmt.Errorf("check attempt: %w", err)
	}
	if attempted {
		return nil, ErrAlreadyAttempted
	}

	sess := New(studentID, examID, m.catalog, m.store, m.log, m.opts)

	m.mu.Lock()
	if existing, ok := m.sessions[key]; ok {
		// Lost the race to a concurrent start; use the winner.
		m.mu.Unlock()
		return existing, nil
	}
	m.sessions[key] = sess
	m.mu.Unlock()

	if err := sess.Start(ctx); err != nil {
		m.remove(key, sess)
		return nil, err
	}

	go func() {
		<-sess.Done()
		m.remove(key, sess)
	}()

	return sess, nil
}

// Get returns the live session for a (student, exam) pair, if any.
func (m *Manager) Get(studentID, examID uuid.UUID) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[sessionKey(studentID, examID)]
	return sess, ok
}

// remove evicts a session only if it is still the registered one for its
// key, so a replacement session is never dropped by a stale eviction.
func (m *Manager) remove(key string, sess *Session) {
	m.mu.Lock()
	if current, ok := m.sessions[key]; ok && current == sess {
		delete(m.sessions, key)
	}
	m.mu.Unlock()
}

// Close stops every live session's clock. Called on server shutdown.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
	m.log.Info().Int("count", len(sessions)).Msg("Session manager closed")
}
