package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	domainauth "github.com/target/attractions-admin/internal/domain/auth"
	"github.com/target/attractions-admin/internal/observability/metrics"
	"github.com/target/attractions-admin/internal/observability/statsd"
	"github.com/target/attractions-admin/internal/ports"
)

var (
	// ErrLoginFailed is returned by Login for any outcome other than a complete session.
	ErrLoginFailed = errors.New("login failed")
	// ErrMalformedLoginResponse is wrapped when the endpoint answered without a token or user.
	ErrMalformedLoginResponse = errors.New("login response lacks access token or user")
	// ErrMissingScope is returned when a call carries no client scope.
	ErrMissingScope = errors.New("client scope is required")
)

// SessionProviderConfig holds optional collaborators and behavior switches.
type SessionProviderConfig struct {
	Logger  *slog.Logger
	Metrics statsd.Sink
	// HonorTokenExpiry drops a stored session whose token is a JWT past its exp claim.
	HonorTokenExpiry bool
	// IdleTimeout is how long an in-memory session survives without a request
	// before PruneIdle evicts it. Defaults to 30 minutes.
	IdleTimeout time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

const defaultIdleTimeout = 30 * time.Minute

// SessionProviderOptions groups dependencies for SessionProvider.
type SessionProviderOptions struct {
	Store         ports.SessionStore  // Required
	Authenticator ports.Authenticator // Required
	Config        SessionProviderConfig
}

// SessionProvider owns the authoritative in-memory session for every client scope.
// Writes go to the store first and then to memory. Reads never touch the store
// except through Rehydrate. One instance serves the whole process.
type SessionProvider struct {
	store  ports.SessionStore
	auth   ports.Authenticator
	logger *slog.Logger
	sink   statsd.Sink
	expiry bool
	idle   time.Duration
	now    func() time.Time

	mu       sync.RWMutex
	sessions map[string]memoryEntry
}

// memoryEntry is one scope's in-memory session and when it was last refreshed
// by a login or rehydration.
type memoryEntry struct {
	sess domainauth.Session
	seen time.Time
}

// NewSessionProvider constructs a SessionProvider with an empty in-memory state.
func NewSessionProvider(opts SessionProviderOptions) *SessionProvider {
	if opts.Store == nil {
		panic("SessionProvider requires a session store")
	}
	if opts.Authenticator == nil {
		panic("SessionProvider requires an authenticator")
	}

	logger := opts.Config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Config.Now
	if now == nil {
		now = time.Now
	}
	idle := opts.Config.IdleTimeout
	if idle <= 0 {
		idle = defaultIdleTimeout
	}
	return &SessionProvider{
		store:    opts.Store,
		auth:     opts.Authenticator,
		logger:   logger.With("component", "session_provider"),
		sink:     opts.Config.Metrics,
		expiry:   opts.Config.HonorTokenExpiry,
		idle:     idle,
		now:      now,
		sessions: make(map[string]memoryEntry),
	}
}

// Login authenticates the credentials and, when the endpoint returns both a token
// and a user, persists them for scope. Every other outcome returns an error that
// matches ErrLoginFailed and leaves store and memory untouched.
// A failure to persist a valid session is returned unwrapped by ErrLoginFailed.
func (p *SessionProvider) Login(ctx context.Context, scope, email, password string) (domainauth.Session, error) {
	if scope == "" {
		return domainauth.Session{}, p.loginFailed(fmt.Errorf("%w: %w", ErrLoginFailed, ErrMissingScope))
	}

	resp, err := p.auth.Authenticate(ctx, domainauth.Credentials{Email: email, Password: password})
	if err != nil {
		return domainauth.Session{}, p.loginFailed(fmt.Errorf("%w: %w", ErrLoginFailed, err))
	}
	sess := domainauth.Session{Token: resp.AccessToken, User: resp.User}
	if !sess.Complete() {
		return domainauth.Session{}, p.loginFailed(fmt.Errorf("%w: %w", ErrLoginFailed, ErrMalformedLoginResponse))
	}

	if setErr := p.store.Set(ctx, scope, sess); setErr != nil {
		metrics.EmitSession(p.sink, metrics.SessionMetric{Event: metrics.EventLogin, Result: metrics.ResultError, Err: setErr})
		return domainauth.Session{}, fmt.Errorf("persist session: %w", setErr)
	}
	p.remember(scope, sess)

	metrics.EmitSession(p.sink, metrics.SessionMetric{Event: metrics.EventLogin, Result: metrics.ResultSuccess})
	p.logger.InfoContext(ctx, "login succeeded", "user_id", sess.User.ID, "role", string(sess.User.Role))
	return sess.Clone(), nil
}

func (p *SessionProvider) loginFailed(err error) error {
	metrics.EmitSession(p.sink, metrics.SessionMetric{Event: metrics.EventLogin, Result: metrics.ResultFailure, Err: err})
	p.logger.Info("login failed", "error", err)
	return err
}

// Logout forgets the session in memory and then clears the store.
// Memory is cleared even when the store call fails; that error is returned for logging.
// The remote endpoint is not contacted.
func (p *SessionProvider) Logout(ctx context.Context, scope string) error {
	p.forget(scope)
	metrics.EmitSession(p.sink, metrics.SessionMetric{Event: metrics.EventLogout})
	if err := p.store.Clear(ctx, scope); err != nil {
		return fmt.Errorf("clear session store: %w", err)
	}
	return nil
}

// Rehydrate reconciles memory with the store for scope. A complete, unexpired
// stored session is adopted. Anything else clears both memory and store.
// A store read failure clears memory and is returned.
func (p *SessionProvider) Rehydrate(ctx context.Context, scope string) (*domainauth.Session, error) {
	if scope == "" {
		return nil, nil
	}

	sess, err := p.store.Get(ctx, scope)
	switch {
	case errors.Is(err, ports.ErrSessionNotFound):
		return nil, p.discard(ctx, scope, "absent")
	case err != nil:
		p.forget(scope)
		metrics.EmitSession(p.sink, metrics.SessionMetric{Event: metrics.EventRehydrate, Result: metrics.ResultError, Err: err})
		return nil, fmt.Errorf("read session store: %w", err)
	case !sess.Complete():
		return nil, p.discard(ctx, scope, "incomplete")
	case p.expiry && tokenExpired(sess.Token, p.now()):
		return nil, p.discard(ctx, scope, "token_expired")
	}

	p.remember(scope, sess)
	metrics.EmitSession(p.sink, metrics.SessionMetric{Event: metrics.EventRehydrate, Result: metrics.ResultAdopted})
	out := sess.Clone()
	return &out, nil
}

// discard runs the logout path for a scope whose stored state cannot be adopted.
func (p *SessionProvider) discard(ctx context.Context, scope, reason string) error {
	hadSession := p.IsAuthenticated(scope)
	p.forget(scope)
	if err := p.store.Clear(ctx, scope); err != nil {
		return fmt.Errorf("clear session store: %w", err)
	}
	if hadSession || reason != "absent" {
		metrics.EmitSession(p.sink, metrics.SessionMetric{Event: metrics.EventRehydrate, Result: metrics.ResultCleared})
		p.logger.DebugContext(ctx, "session cleared on rehydrate", "reason", reason)
	}
	return nil
}

// Session returns a copy of scope's in-memory session.
func (p *SessionProvider) Session(scope string) (domainauth.Session, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	entry, ok := p.sessions[scope]
	if !ok {
		return domainauth.Session{}, false
	}
	return entry.sess.Clone(), true
}

// User returns a copy of the authenticated user for scope.
func (p *SessionProvider) User(scope string) (*domainauth.User, bool) {
	sess, ok := p.Session(scope)
	if !ok {
		return nil, false
	}
	return sess.User, true
}

// IsAuthenticated reports whether scope currently holds a session in memory.
func (p *SessionProvider) IsAuthenticated(scope string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.sessions[scope]
	return ok
}

func (p *SessionProvider) remember(scope string, sess domainauth.Session) {
	entry := memoryEntry{sess: sess.Clone(), seen: p.now()}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sessions[scope] = entry
}

func (p *SessionProvider) forget(scope string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.sessions, scope)
}

// PruneIdle evicts in-memory sessions not refreshed within the idle timeout and
// returns how many were dropped. The store is not touched: an evicted client that
// comes back is rehydrated from it before any guard reads memory.
func (p *SessionProvider) PruneIdle() int {
	cutoff := p.now().Add(-p.idle)

	p.mu.Lock()
	defer p.mu.Unlock()
	pruned := 0
	for scope, entry := range p.sessions {
		if !entry.seen.After(cutoff) {
			delete(p.sessions, scope)
			pruned++
		}
	}
	return pruned
}

// RunJanitor calls PruneIdle every half idle timeout until ctx is cancelled.
func (p *SessionProvider) RunJanitor(ctx context.Context) {
	ticker := time.NewTicker(p.idle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := p.PruneIdle(); n > 0 {
				p.logger.DebugContext(ctx, "evicted idle in-memory sessions", "count", n)
			}
		}
	}
}

// tokenExpired reports whether token is a JWT whose exp claim is not after now.
// Opaque tokens and JWTs without exp never expire here. The signature is not
// checked; the backend remains the authority on token validity.
func tokenExpired(token string, now time.Time) bool {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	return claims.ExpiresAt != nil && !now.Before(claims.ExpiresAt.Time)
}
