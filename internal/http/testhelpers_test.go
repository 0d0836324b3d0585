package httpx

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	domainauth "github.com/target/attractions-admin/internal/domain/auth"
	authmocks "github.com/target/attractions-admin/internal/mocks/auth"
	"github.com/target/attractions-admin/internal/observability/statsd"
	"github.com/target/attractions-admin/internal/ports"
	"github.com/target/attractions-admin/internal/routes"
	"github.com/target/attractions-admin/internal/service"
)

const testScope = "6f1c1f4e-5d55-4c1b-9d8e-0e5a7c2b9a10"

var (
	testAdmin = &domainauth.User{ID: "1", DisplayName: "Ana Admin", Email: "ana@example.com", Role: "Admin"}
	testUser  = &domainauth.User{ID: "2", DisplayName: "Uma User", Email: "uma@example.com", Role: "User"}
)

// testEnv wires a router over an in-memory store and a stub authenticator.
type testEnv struct {
	Store    *authmocks.MemorySessionStore
	Auth     *authmocks.StubAuthenticator
	Sessions *service.SessionProvider
	Metrics  *statsd.Recorder
	Table    *routes.Table
	Handler  http.Handler
}

type envOption func(*RouterOptions)

func withUsers(svc *service.UserService) envOption {
	return func(o *RouterOptions) { o.Users = svc }
}

func withAttractions(svc *service.AttractionService) envOption {
	return func(o *RouterOptions) { o.Attractions = svc }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	table, err := routes.Default()
	require.NoError(t, err)

	env := &testEnv{
		Store:   authmocks.NewMemorySessionStore(),
		Auth:    &authmocks.StubAuthenticator{},
		Metrics: &statsd.Recorder{},
		Table:   table,
	}
	env.Sessions = service.NewSessionProvider(service.SessionProviderOptions{
		Store:         env.Store,
		Authenticator: env.Auth,
		Config:        service.SessionProviderConfig{Metrics: env.Metrics},
	})

	ro := RouterOptions{Sessions: env.Sessions, Table: table, Metrics: env.Metrics}
	for _, o := range opts {
		o(&ro)
	}
	env.Handler, err = NewRouter(ro)
	require.NoError(t, err)
	return env
}

// signIn stores a session for testScope the way another instance would have.
func (e *testEnv) signIn(t *testing.T, user *domainauth.User) {
	t.Helper()
	require.NoError(t, e.Store.Set(context.Background(), testScope, domainauth.Session{Token: "tok-" + user.ID, User: user}))
}

// request describes one call through the router.
type request struct {
	Method string
	Path   string
	Body   string
	Accept string
	Form   bool
	// NoScope sends the request without a client_id cookie.
	NoScope bool
}

func (e *testEnv) do(t *testing.T, req request) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if req.Body != "" {
		body = strings.NewReader(req.Body)
	}
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	r := httptest.NewRequest(method, req.Path, body)
	switch {
	case req.Form:
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	case req.Body != "":
		r.Header.Set("Content-Type", "application/json")
	}
	if req.Accept != "" {
		r.Header.Set("Accept", req.Accept)
	}
	if !req.NoScope {
		r.AddCookie(&http.Cookie{Name: DefaultClientCookie, Value: testScope})
	}

	rec := httptest.NewRecorder()
	e.Handler.ServeHTTP(rec, r)
	return rec
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

// stubSessions is a fixed Sessions for middleware tests that don't need a provider.
type stubSessions struct {
	sessions map[string]domainauth.Session
	rehydErr error
}

func (s *stubSessions) Login(context.Context, string, string, string) (domainauth.Session, error) {
	return domainauth.Session{}, service.ErrLoginFailed
}

func (s *stubSessions) Logout(_ context.Context, scope string) error {
	delete(s.sessions, scope)
	return nil
}

func (s *stubSessions) Rehydrate(_ context.Context, scope string) (*domainauth.Session, error) {
	if s.rehydErr != nil {
		return nil, s.rehydErr
	}
	sess, ok := s.sessions[scope]
	if !ok {
		return nil, nil
	}
	return &sess, nil
}

func (s *stubSessions) Session(scope string) (domainauth.Session, bool) {
	sess, ok := s.sessions[scope]
	return sess, ok
}

var _ Sessions = (*stubSessions)(nil)

// tokenEcho writes the access token the request context carries.
var tokenEcho = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	tok, _ := ports.AccessTokenFromContext(r.Context())
	_, _ = io.WriteString(w, tok)
})
