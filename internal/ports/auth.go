package ports

// Package ports defines interfaces (hexagonal ports) for session, authentication and backend behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"errors"

	domainauth "github.com/target/attractions-admin/internal/domain/auth"
)

// SessionStore is the durable copy of each client's session.
// A scope identifies one client (one browser); it plays the part of a storage origin.
//
// Get must never return a torn pair: if either the token or the user is missing
// the store reports the session as absent.
type SessionStore interface {
	Get(ctx context.Context, scope string) (domainauth.Session, error)
	Set(ctx context.Context, scope string, sess domainauth.Session) error
	Clear(ctx context.Context, scope string) error
}

// LoginResponse is what an authentication endpoint returned, before any shape validation.
// Either field may be empty; deciding what counts as success is the caller's job.
type LoginResponse struct {
	AccessToken string
	User        *domainauth.User
}

// Authenticator exchanges credentials for a token and user profile against a remote endpoint.
type Authenticator interface {
	Authenticate(ctx context.Context, creds domainauth.Credentials) (LoginResponse, error)
}

// ErrSessionNotFound is returned by SessionStore.Get when a scope holds no complete session.
var ErrSessionNotFound = errors.New("session not found")

// ErrIncompleteSession is returned by SessionStore.Set when the token or user is missing.
var ErrIncompleteSession = errors.New("session requires both access token and user")

// SessionPurger deletes sessions whose expiry has passed.
// Backends that expire entries natively (Redis) do not implement it.
type SessionPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}
