// Package postgres provides a Postgres-backed session store.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	domainauth "github.com/target/attractions-admin/internal/domain/auth"
	apperrors "github.com/target/attractions-admin/internal/errors"
	"github.com/target/attractions-admin/internal/ports"
)

var _ ports.SessionStore = (*SessionStore)(nil)

// Clock returns the current time. Tests substitute a fixed clock.
type Clock func() time.Time

// SessionStore keeps one row per client scope in dashboard_sessions.
// The token and user live in the same row so they are written and removed together.
type SessionStore struct {
	db  *sql.DB
	ttl time.Duration
	now Clock
}

// SessionStoreOptions configures a SessionStore.
type SessionStoreOptions struct {
	// TTL sets expires_at on writes. Zero keeps rows until they are cleared.
	TTL time.Duration
	Now Clock
}

// NewSessionStore creates a Postgres session store. Run migrations before use.
func NewSessionStore(db *sql.DB, opts SessionStoreOptions) *SessionStore {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	ttl := opts.TTL
	if ttl < 0 {
		ttl = 0
	}
	return &SessionStore{db: db, ttl: ttl, now: now}
}

// Get returns the session for scope or ports.ErrSessionNotFound.
// Expired rows and rows whose user cannot be decoded count as absent.
func (s *SessionStore) Get(ctx context.Context, scope string) (domainauth.Session, error) {
	if scope == "" {
		return domainauth.Session{}, ports.ErrSessionNotFound
	}

	var (
		token   string
		rawUser []byte
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT access_token, user_json
		FROM dashboard_sessions
		WHERE scope = $1 AND (expires_at IS NULL OR expires_at > $2)`,
		scope, s.now().UTC(),
	).Scan(&token, &rawUser)
	if errors.Is(err, sql.ErrNoRows) {
		return domainauth.Session{}, ports.ErrSessionNotFound
	}
	if err != nil {
		return domainauth.Session{}, fmt.Errorf("get session: %w", apperrors.MapDBError(err))
	}

	var user domainauth.User
	if token == "" || json.Unmarshal(rawUser, &user) != nil {
		return domainauth.Session{}, ports.ErrSessionNotFound
	}
	return domainauth.Session{Token: token, User: &user}, nil
}

// Set upserts the scope's row.
func (s *SessionStore) Set(ctx context.Context, scope string, sess domainauth.Session) error {
	if scope == "" {
		return errors.New("session scope cannot be empty")
	}
	if !sess.Complete() {
		return ports.ErrIncompleteSession
	}

	data, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	now := s.now().UTC()
	var expiresAt sql.NullTime
	if s.ttl > 0 {
		expiresAt = sql.NullTime{Time: now.Add(s.ttl), Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO dashboard_sessions (scope, access_token, user_json, created_at, updated_at, expires_at)
		VALUES ($1, $2, $3, $4, $4, $5)
		ON CONFLICT (scope) DO UPDATE
		SET access_token = EXCLUDED.access_token,
		    user_json = EXCLUDED.user_json,
		    updated_at = EXCLUDED.updated_at,
		    expires_at = EXCLUDED.expires_at`,
		scope, sess.Token, data, now, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("set session: %w", apperrors.MapDBError(err))
	}
	return nil
}

// Clear deletes the scope's row. Deleting a missing row is not an error.
func (s *SessionStore) Clear(ctx context.Context, scope string) error {
	if scope == "" {
		return nil
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM dashboard_sessions WHERE scope = $1`, scope); err != nil {
		return fmt.Errorf("clear session: %w", apperrors.MapDBError(err))
	}
	return nil
}

// Scopes lists scopes holding an unexpired session, oldest first.
func (s *SessionStore) Scopes(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT scope FROM dashboard_sessions
		WHERE expires_at IS NULL OR expires_at > $1
		ORDER BY created_at, scope`, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", apperrors.MapDBError(err))
	}
	defer rows.Close()

	var scopes []string
	for rows.Next() {
		var scope string
		if scanErr := rows.Scan(&scope); scanErr != nil {
			return nil, fmt.Errorf("scan scope: %w", scanErr)
		}
		scopes = append(scopes, scope)
	}
	return scopes, rows.Err()
}

// PurgeExpired deletes rows whose expiry has passed and returns how many were removed.
func (s *SessionStore) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM dashboard_sessions WHERE expires_at IS NOT NULL AND expires_at <= $1`,
		s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", apperrors.MapDBError(err))
	}
	return res.RowsAffected()
}
