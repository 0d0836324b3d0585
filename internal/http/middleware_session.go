package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	domainauth "github.com/target/attractions-admin/internal/domain/auth"
	"github.com/target/attractions-admin/internal/observability/metrics"
	"github.com/target/attractions-admin/internal/observability/statsd"
	"github.com/target/attractions-admin/internal/ports"
)

// Sessions is the slice of service.SessionProvider the HTTP layer depends on.
type Sessions interface {
	Login(ctx context.Context, scope, email, password string) (domainauth.Session, error)
	Logout(ctx context.Context, scope string) error
	Rehydrate(ctx context.Context, scope string) (*domainauth.Session, error)
	Session(scope string) (domainauth.Session, bool)
}

const (
	// DefaultClientCookie names the cookie that carries the client scope.
	DefaultClientCookie = "client_id"
	// browsers cap persistent cookie lifetimes at 400 days.
	defaultClientCookieMaxAge = 400 * 24 * time.Hour
	defaultLoginPath          = "/login"
)

// ClientScopeOptions configures the ClientScope middleware.
type ClientScopeOptions struct {
	CookieName   string
	CookieDomain string
	// SecureCookies forces the Secure attribute. Otherwise it follows the request scheme.
	SecureCookies bool
	MaxAge        time.Duration
}

// ClientScope assigns every browser a stable client scope. The scope is the
// key under which the session store keeps that browser's session, so it
// survives reloads and restarts the way durable browser storage does.
// A missing or malformed cookie is replaced with a fresh random UUID.
func ClientScope(opts ClientScopeOptions) func(http.Handler) http.Handler {
	name := opts.CookieName
	if name == "" {
		name = DefaultClientCookie
	}
	maxAge := opts.MaxAge
	if maxAge <= 0 {
		maxAge = defaultClientCookieMaxAge
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scope := ""
			if c, err := r.Cookie(name); err == nil {
				if id, parseErr := uuid.Parse(c.Value); parseErr == nil {
					scope = id.String()
				}
			}
			if scope == "" {
				scope = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     name,
					Value:    scope,
					Path:     "/",
					Domain:   opts.CookieDomain,
					HttpOnly: true,
					Secure:   opts.SecureCookies || isSecureRequest(r),
					SameSite: http.SameSiteLaxMode,
					MaxAge:   int(maxAge.Seconds()),
				})
			}
			next.ServeHTTP(w, r.WithContext(WithClientScope(r.Context(), scope)))
		})
	}
}

func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

// RehydrateOptions configures the Rehydrate middleware.
type RehydrateOptions struct {
	Sessions Sessions
	Logger   *slog.Logger
	// SkipPrefixes lists path prefixes that never touch the store.
	SkipPrefixes []string
}

// Rehydrate reconciles the provider's in-memory session with the store on every
// request, so a session written or cleared by another instance takes effect on
// the next navigation. A store failure is logged and the request continues
// unauthenticated.
func Rehydrate(opts RehydrateOptions) func(http.Handler) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scope := ClientScopeFromContext(r.Context())
			if scope == "" || hasAnyPrefix(r.URL.Path, opts.SkipPrefixes) {
				next.ServeHTTP(w, r)
				return
			}

			sess, err := opts.Sessions.Rehydrate(r.Context(), scope)
			if err != nil {
				logger.WarnContext(r.Context(), "session rehydration failed", "error", err)
			}
			next.ServeHTTP(w, r.WithContext(SetSessionInContext(r.Context(), sess)))
		})
	}
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// GuardOptions configures the Guard middleware.
type GuardOptions struct {
	Sessions Sessions
	// Role is required of the user. Empty admits any authenticated user.
	Role domainauth.Role
	// RedirectPath is where denied browser navigations go. Defaults to /login.
	RedirectPath string
	// Name labels the guard in metrics. Defaults to the request path.
	Name    string
	Metrics statsd.Sink
}

// Guard lets a request through only when its client scope holds a session whose
// user satisfies Role. Denied browser navigations are redirected with 303;
// API callers get 401 without a session or 403 on a role mismatch.
// Allowed requests carry the session and its access token in the context.
func Guard(opts GuardOptions) func(http.Handler) http.Handler {
	redirect := opts.RedirectPath
	if redirect == "" {
		redirect = defaultLoginPath
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var user *domainauth.User
			sess, ok := opts.Sessions.Session(ClientScopeFromContext(r.Context()))
			if ok {
				user = sess.User
			}

			decision := domainauth.Evaluate(user, opts.Role)
			name := opts.Name
			if name == "" {
				name = r.URL.Path
			}
			metrics.EmitGuard(opts.Metrics, metrics.GuardMetric{Route: name, Decision: decision.String()})

			if decision == domainauth.Allow {
				ctx := SetSessionInContext(r.Context(), &sess)
				ctx = ports.WithAccessToken(ctx, sess.Token)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			switch {
			case IsBrowserRequest(r):
				http.Redirect(w, r, redirect, http.StatusSeeOther)
			case user == nil:
				WriteError(w, ErrorParams{
					Code:    http.StatusUnauthorized,
					ErrCode: "authentication_required",
					Err:     errors.New("authentication required"),
				})
			default:
				WriteError(w, ErrorParams{
					Code:    http.StatusForbidden,
					ErrCode: "insufficient_permissions",
					Err:     errors.New("insufficient permissions"),
				})
			}
		})
	}
}

// LoginRouteOptions configures the LoginRoute middleware.
type LoginRouteOptions struct {
	Sessions       Sessions
	AfterLoginPath string
}

// LoginRoute sends an already authenticated user away from the login page.
func LoginRoute(opts LoginRouteOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := opts.Sessions.Session(ClientScopeFromContext(r.Context())); ok && opts.AfterLoginPath != "" {
				http.Redirect(w, r, opts.AfterLoginPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
