package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/attractions-admin/internal/domain/auth"
	"github.com/target/attractions-admin/internal/ports"
)

const loginBody = `{"email":"ana@example.com","password":"pw"}`

func TestAPILogin_Success(t *testing.T) {
	env := newTestEnv(t)
	env.Auth.Response = ports.LoginResponse{AccessToken: "jwt-1", User: testAdmin}

	rec := env.do(t, request{Method: http.MethodPost, Path: "/api/auth/login", Body: loginBody})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeJSON[sessionResponse](t, rec)
	assert.True(t, body.Authenticated)
	require.NotNil(t, body.User)
	assert.Equal(t, "1", body.User.ID)

	token, user, ok := env.Store.Raw(testScope)
	require.True(t, ok)
	assert.Equal(t, "jwt-1", token)
	assert.Equal(t, "ana@example.com", user.Email)

	calls := env.Auth.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, domainauth.Credentials{Email: "ana@example.com", Password: "pw"}, calls[0])
}

func TestAPILogin_Failures(t *testing.T) {
	tests := []struct {
		name string
		resp ports.LoginResponse
		err  error
	}{
		{name: "missing token", resp: ports.LoginResponse{User: testAdmin}},
		{name: "missing user", resp: ports.LoginResponse{AccessToken: "jwt-1"}},
		{name: "endpoint rejected", err: errors.New("401 from auth endpoint")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.Auth.Response = tt.resp
			env.Auth.Err = tt.err

			rec := env.do(t, request{Method: http.MethodPost, Path: "/api/auth/login", Body: loginBody})

			require.Equal(t, http.StatusUnauthorized, rec.Code)
			body := decodeErrorBody(t, rec)
			assert.Equal(t, "login_failed", body.Error)
			assert.Equal(t, "Wrong credentials", body.Message)
			assert.Zero(t, env.Store.SetCalls(), "store must stay untouched")
			assert.False(t, env.Sessions.IsAuthenticated(testScope))
		})
	}
}

func TestAPILogin_ValidationSkipsAuthenticator(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, request{Method: http.MethodPost, Path: "/api/auth/login", Body: `{"email":"nope","password":"pw"}`})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeErrorBody(t, rec)
	assert.Equal(t, "validation", body.Error)
	assert.Equal(t, "email", body.Field)
	assert.Empty(t, env.Auth.Calls())
}

type failingLogin struct{ stubSessions }

func (failingLogin) Login(context.Context, string, string, string) (domainauth.Session, error) {
	return domainauth.Session{}, errors.New("persist session: redis down")
}

func TestAPILogin_StoreFailureIsNotWrongCredentials(t *testing.T) {
	h := &AuthHandlers{Sessions: &failingLogin{}, LoginPath: "/login", AfterLoginPath: "/dashboard/app"}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(loginBody))
	rec := httptest.NewRecorder()
	h.APILogin(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "session_unavailable", decodeErrorBody(t, rec).Error)
}

func TestFormLogin(t *testing.T) {
	t.Run("success redirects to after-login path", func(t *testing.T) {
		env := newTestEnv(t)
		env.Auth.Response = ports.LoginResponse{AccessToken: "jwt-1", User: testAdmin}

		rec := env.do(t, request{Method: http.MethodPost, Path: "/login", Form: true, Body: "email=ana%40example.com&password=pw"})
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/dashboard/app", rec.Header().Get("Location"))

		page := env.do(t, request{Path: "/dashboard/app", Accept: "text/html"})
		require.Equal(t, http.StatusOK, page.Code)
		assert.Contains(t, page.Body.String(), "Signed in as Ana Admin")
	})

	t.Run("failure returns to the form with a message", func(t *testing.T) {
		env := newTestEnv(t)
		env.Auth.Err = errors.New("rejected")

		rec := env.do(t, request{Method: http.MethodPost, Path: "/login", Form: true, Body: "email=ana%40example.com&password=bad"})
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login?error=1", rec.Header().Get("Location"))

		page := env.do(t, request{Path: "/login?error=1", Accept: "text/html"})
		require.Equal(t, http.StatusOK, page.Code)
		assert.Contains(t, page.Body.String(), "Wrong credentials")
	})

	t.Run("invalid email names the field", func(t *testing.T) {
		env := newTestEnv(t)

		rec := env.do(t, request{Method: http.MethodPost, Path: "/login", Form: true, Body: "email=ana&password=pw"})
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login?error=1&field=email", rec.Header().Get("Location"))
		assert.Empty(t, env.Auth.Calls())
	})
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t, testUser)

	status := decodeJSON[sessionResponse](t, env.do(t, request{Path: "/api/auth/session"}))
	require.True(t, status.Authenticated)
	assert.Equal(t, "2", status.User.ID)

	rec := env.do(t, request{Method: http.MethodPost, Path: "/api/auth/logout"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decodeJSON[sessionResponse](t, rec).Authenticated)

	_, _, ok := env.Store.Raw(testScope)
	assert.False(t, ok, "store cleared")
	assert.False(t, env.Sessions.IsAuthenticated(testScope))

	status = decodeJSON[sessionResponse](t, env.do(t, request{Path: "/api/auth/session"}))
	assert.False(t, status.Authenticated)

	page := env.do(t, request{Path: "/dashboard/app", Accept: "text/html"})
	assert.Equal(t, http.StatusSeeOther, page.Code, "guard denies after logout")
	assert.Equal(t, "/login", page.Header().Get("Location"))
}

func TestFormLogout_RedirectsHome(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t, testUser)

	rec := env.do(t, request{Method: http.MethodPost, Path: "/logout", Accept: "text/html"})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.False(t, env.Sessions.IsAuthenticated(testScope))
}

func TestSessionStatus_NewClientGetsScope(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, request{Path: "/api/auth/session", NoScope: true})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decodeJSON[sessionResponse](t, rec).Authenticated)
	require.Len(t, rec.Result().Cookies(), 1)
	assert.Equal(t, DefaultClientCookie, rec.Result().Cookies()[0].Name)
}
