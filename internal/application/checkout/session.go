package checkout

import (
	"sync"
	"time"

	domain "github.com/Zhima-Mochi/pos-checkout/internal/domain/order"
	pkgerrors "github.com/Zhima-Mochi/pos-checkout/internal/pkg/errors"
)

// Session is one terminal's order draft. All access to the finalizer goes through
// the session lock.
type Session struct {
	ID       string
	OpenedAt time.Time

	mu        sync.Mutex
	finalizer *domain.Finalizer
}

// Do runs fn with exclusive access to the session's finalizer.
func (s *Session) Do(fn func(f *domain.Finalizer) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.finalizer)
}

// SessionStore indexes open sessions by id.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*Session)}
}

func (s *SessionStore) Open(id string, f *domain.Finalizer, at time.Time) *Session {
	sess := &Session{ID: id, OpenedAt: at, finalizer: f}
	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()
	return sess
}

func (s *SessionStore) Get(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, ErrSessionNotFound, "session not found").
			WithDetails(map[string]string{"session_id": id})
	}
	return sess, nil
}

// Remove detaches the session; callers still holding it may finish their call.
func (s *SessionStore) Remove(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, ErrSessionNotFound, "session not found").
			WithDetails(map[string]string{"session_id": id})
	}
	delete(s.sessions, id)
	return sess, nil
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
