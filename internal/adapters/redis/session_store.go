package redis

// Package redis provides Redis-based adapters for the attractions admin dashboard.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	domainauth "github.com/target/attractions-admin/internal/domain/auth"
	"github.com/target/attractions-admin/internal/ports"
)

const (
	tokenSuffix = ":access_token"
	userSuffix  = ":user"
)

var _ ports.SessionStore = (*SessionStore)(nil)

// SessionStore is a Redis-based session store for production use.
// Each client scope owns two keys, one for the access token and one for the
// serialized user profile. They are always written and removed together.
type SessionStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewSessionStore creates a new Redis-based session store.
func NewSessionStore(client redis.UniversalClient) *SessionStore {
	return NewSessionStoreWithPrefix(client, "dashboard:")
}

// NewSessionStoreWithPrefix creates a Redis session store with a custom key prefix.
func NewSessionStoreWithPrefix(client redis.UniversalClient, prefix string) *SessionStore {
	return &SessionStore{
		client: client,
		prefix: prefix,
	}
}

// WithTTL returns a copy of the store that expires entries after ttl.
// A zero ttl keeps entries until they are cleared.
func (s *SessionStore) WithTTL(ttl time.Duration) *SessionStore {
	cp := *s
	if ttl < 0 {
		ttl = 0
	}
	cp.ttl = ttl
	return &cp
}

func (s *SessionStore) tokenKey(scope string) string { return s.prefix + scope + tokenSuffix }
func (s *SessionStore) userKey(scope string) string  { return s.prefix + scope + userSuffix }

// Get returns the session for scope, or ErrNotFound when either key is missing
// or the stored profile cannot be decoded.
func (s *SessionStore) Get(ctx context.Context, scope string) (domainauth.Session, error) {
	if scope == "" {
		return domainauth.Session{}, ErrNotFound
	}

	vals, err := s.client.MGet(ctx, s.tokenKey(scope), s.userKey(scope)).Result()
	if err != nil {
		return domainauth.Session{}, fmt.Errorf("redis mget: %w", err)
	}

	token, tokenOK := stringValue(vals, 0)
	rawUser, userOK := stringValue(vals, 1)
	if !tokenOK || !userOK || token == "" {
		return domainauth.Session{}, ErrNotFound
	}

	var user domainauth.User
	if unmarshalErr := json.Unmarshal([]byte(rawUser), &user); unmarshalErr != nil {
		return domainauth.Session{}, ErrNotFound
	}

	return domainauth.Session{Token: token, User: &user}, nil
}

// Set writes both keys in a single MULTI/EXEC transaction.
func (s *SessionStore) Set(ctx context.Context, scope string, sess domainauth.Session) error {
	if scope == "" {
		return errors.New("session scope cannot be empty")
	}
	if !sess.Complete() {
		return ErrIncompleteSession
	}

	data, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.tokenKey(scope), sess.Token, s.ttl)
		pipe.Set(ctx, s.userKey(scope), data, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

// Clear removes both keys. Clearing an empty scope is not an error.
func (s *SessionStore) Clear(ctx context.Context, scope string) error {
	if scope == "" {
		return nil // Nothing to delete
	}
	return s.client.Del(ctx, s.tokenKey(scope), s.userKey(scope)).Err()
}

// Scopes lists client scopes that currently hold an access token.
// Intended for admin tooling; it walks the keyspace with SCAN.
func (s *SessionStore) Scopes(ctx context.Context) ([]string, error) {
	var (
		cursor uint64
		scopes []string
	)
	pattern := s.prefix + "*" + tokenSuffix
	for {
		keys, next, err := s.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, fmt.Errorf("redis scan: %w", err)
		}
		for _, k := range keys {
			scope := strings.TrimSuffix(strings.TrimPrefix(k, s.prefix), tokenSuffix)
			if scope != "" {
				scopes = append(scopes, scope)
			}
		}
		cursor = next
		if cursor == 0 {
			return scopes, nil
		}
	}
}

func stringValue(vals []any, i int) (string, bool) {
	if i >= len(vals) || vals[i] == nil {
		return "", false
	}
	s, ok := vals[i].(string)
	return s, ok
}

// ErrNotFound is returned when a scope holds no complete session.
var ErrNotFound = ports.ErrSessionNotFound

// ErrIncompleteSession is returned by Set when the token or user is missing.
var ErrIncompleteSession = ports.ErrIncompleteSession
