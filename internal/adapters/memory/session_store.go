// Package memory provides an in-process session store for SESSION_STORE=memory.
// Sessions live as long as the process; a restart logs every client out.
package memory

import (
	"context"
	"errors"
	"sync"

	domainauth "github.com/target/attractions-admin/internal/domain/auth"
	"github.com/target/attractions-admin/internal/ports"
)

var _ ports.SessionStore = (*SessionStore)(nil)

// ErrNotFound is returned when a scope holds no session.
var ErrNotFound = ports.ErrSessionNotFound

// SessionStore keeps each scope's token and user together in one entry, so a
// torn pair cannot exist. Stored and returned sessions are deep copies.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domainauth.Session
}

// NewSessionStore creates an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]domainauth.Session)}
}

// Get returns the session for scope or ErrNotFound.
func (s *SessionStore) Get(_ context.Context, scope string) (domainauth.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[scope]
	if !ok {
		return domainauth.Session{}, ErrNotFound
	}
	return sess.Clone(), nil
}

// Set stores a complete session for scope.
func (s *SessionStore) Set(_ context.Context, scope string, sess domainauth.Session) error {
	if scope == "" {
		return errors.New("session scope cannot be empty")
	}
	if !sess.Complete() {
		return ports.ErrIncompleteSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[scope] = sess.Clone()
	return nil
}

// Clear removes scope's session. Clearing an unknown scope is not an error.
func (s *SessionStore) Clear(_ context.Context, scope string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, scope)
	return nil
}

// Scopes lists the scopes holding a session.
func (s *SessionStore) Scopes(context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.sessions))
	for scope := range s.sessions {
		out = append(out, scope)
	}
	return out, nil
}
