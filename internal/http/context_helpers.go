package httpx

import (
	"context"

	domainauth "github.com/target/attractions-admin/internal/domain/auth"
)

// Context keys are centralized in this file so all handlers/middleware use the same ones.
type (
	scopeKey   struct{}
	sessionKey struct{}
)

// WithClientScope returns a child context carrying the client scope.
func WithClientScope(ctx context.Context, scope string) context.Context {
	if scope == "" {
		return ctx
	}
	return context.WithValue(ctx, scopeKey{}, scope)
}

// ClientScopeFromContext returns the client scope assigned by the ClientScope middleware.
func ClientScopeFromContext(ctx context.Context) string {
	s, _ := ctx.Value(scopeKey{}).(string)
	return s
}

// SetSessionInContext returns a child context that carries the given session.
// If session is nil, the original ctx is returned unchanged.
func SetSessionInContext(ctx context.Context, session *domainauth.Session) context.Context {
	if session == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetSessionFromContext returns the session from context and a boolean indicating presence.
func GetSessionFromContext(ctx context.Context) (*domainauth.Session, bool) {
	if session, ok := ctx.Value(sessionKey{}).(*domainauth.Session); ok && session != nil {
		return session, true
	}
	return nil, false
}

// CurrentUser returns the authenticated user for the request context, or nil.
func CurrentUser(ctx context.Context) *domainauth.User {
	if s, ok := GetSessionFromContext(ctx); ok {
		return s.User
	}
	return nil
}
