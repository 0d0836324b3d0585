package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen. The
// production in-process store lives in internal/adapters/memory.

import (
	"context"
	"errors"
	"sync"

	domainauth "github.com/target/attractions-admin/internal/domain/auth"
	"github.com/target/attractions-admin/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.SessionStore  = (*MemorySessionStore)(nil)
	_ ports.Authenticator = (*StubAuthenticator)(nil)
)

// ErrNotFound is returned when a scope holds no complete session.
var ErrNotFound = ports.ErrSessionNotFound

type storedPair struct {
	token string
	user  *domainauth.User
}

// MemorySessionStore is an in-memory session store safe for concurrent use.
// Unlike the durable backends it can hold a torn pair (see PutRaw) so callers
// can exercise recovery from partial state.
type MemorySessionStore struct {
	mu     sync.Mutex
	pairs  map[string]storedPair
	sets   int
	clears int
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{pairs: make(map[string]storedPair)}
}

func (m *MemorySessionStore) Get(_ context.Context, scope string) (domainauth.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.pairs[scope]
	if !ok || p.token == "" || p.user == nil {
		return domainauth.Session{}, ErrNotFound
	}
	return domainauth.Session{Token: p.token, User: p.user}.Clone(), nil
}

func (m *MemorySessionStore) Set(_ context.Context, scope string, sess domainauth.Session) error {
	if scope == "" {
		return errors.New("session scope cannot be empty")
	}
	if !sess.Complete() {
		return ports.ErrIncompleteSession
	}
	cp := sess.Clone()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.pairs[scope] = storedPair{token: cp.Token, user: cp.User}
	m.sets++
	return nil
}

func (m *MemorySessionStore) Clear(_ context.Context, scope string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pairs, scope)
	m.clears++
	return nil
}

// PutRaw stores token and user as given, including a torn pair where one is empty.
func (m *MemorySessionStore) PutRaw(scope, token string, user *domainauth.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pairs[scope] = storedPair{token: token, user: user}
}

// Raw returns exactly what is stored for scope, torn or not.
func (m *MemorySessionStore) Raw(scope string) (token string, user *domainauth.User, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.pairs[scope]
	return p.token, p.user, ok
}

// Scopes lists every scope with stored state.
func (m *MemorySessionStore) Scopes(context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.pairs))
	for scope := range m.pairs {
		out = append(out, scope)
	}
	return out, nil
}

// SetCalls reports how many successful Set calls the store has seen.
func (m *MemorySessionStore) SetCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sets
}

// ClearCalls reports how many Clear calls the store has seen.
func (m *MemorySessionStore) ClearCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clears
}

// StubAuthenticator answers Authenticate with a fixed response or a custom function.
type StubAuthenticator struct {
	AuthenticateFunc func(ctx context.Context, creds domainauth.Credentials) (ports.LoginResponse, error)
	Response         ports.LoginResponse
	Err              error

	mu    sync.Mutex
	calls []domainauth.Credentials
}

func (s *StubAuthenticator) Authenticate(ctx context.Context, creds domainauth.Credentials) (ports.LoginResponse, error) {
	s.mu.Lock()
	s.calls = append(s.calls, creds)
	s.mu.Unlock()

	if s.AuthenticateFunc != nil {
		return s.AuthenticateFunc(ctx, creds)
	}
	return s.Response, s.Err
}

// Calls returns the credentials Authenticate was called with, in order.
func (s *StubAuthenticator) Calls() []domainauth.Credentials {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domainauth.Credentials(nil), s.calls...)
}
