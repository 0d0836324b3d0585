package bootstrap

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/attractions-admin/config"
	domainauth "github.com/target/attractions-admin/internal/domain/auth"
	authmocks "github.com/target/attractions-admin/internal/mocks/auth"
	"github.com/target/attractions-admin/internal/ports"
)

const testScope = "4f6c1a2e-8d7b-4c1e-9a55-0b2f3e4d5c6a"

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func memoryConfig() *config.AppConfig {
	return &config.AppConfig{
		Services: "http",
		Session:  config.SessionConfig{Store: config.SessionStoreMemory},
		Backend:  config.BackendConfig{URL: "https://api.example.com", Timeout: time.Second},
		HTTP:     config.HTTPConfig{Addr: "127.0.0.1:0", ShutdownTimeout: time.Second},
	}
}

func stubAuthenticator() *authmocks.StubAuthenticator {
	return &authmocks.StubAuthenticator{Response: ports.LoginResponse{
		AccessToken: "tok-1",
		User:        &domainauth.User{ID: "u1", Email: "ada@example.com", DisplayName: "Ada", Role: domainauth.RoleAdmin},
	}}
}

func TestNewServices(t *testing.T) {
	sc, err := NewServices(context.Background(), &ServiceDeps{
		Config:        memoryConfig(),
		Logger:        quietLogger(),
		Authenticator: stubAuthenticator(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Close() })

	assert.NotNil(t, sc.Sessions)
	assert.NotNil(t, sc.Users)
	assert.NotNil(t, sc.Attractions)
	assert.NotNil(t, sc.Pages)
	require.NotNil(t, sc.Table)
	assert.Equal(t, "/login", sc.Table.LoginPath)
	assert.Nil(t, sc.Metrics, "metrics stay off unless enabled")
}

func TestNewServices_Errors(t *testing.T) {
	_, err := NewServices(context.Background(), nil)
	assert.Error(t, err)

	cfg := memoryConfig()
	cfg.HTTP.RoutesFile = "does-not-exist.yaml"
	_, err = NewServices(context.Background(), &ServiceDeps{Config: cfg, Authenticator: stubAuthenticator()})
	assert.Error(t, err)

	cfg = memoryConfig()
	cfg.Session.Store = config.SessionStoreRedis
	_, err = NewServices(context.Background(), &ServiceDeps{Config: cfg, Authenticator: stubAuthenticator()})
	assert.Error(t, err, "redis store without a connection")
}

func TestBuildHTTPHandler_LoginRoundTrip(t *testing.T) {
	cfg := memoryConfig()
	sc, err := NewServices(context.Background(), &ServiceDeps{Config: cfg, Logger: quietLogger(), Authenticator: stubAuthenticator()})
	require.NoError(t, err)

	handler, err := BuildHTTPHandler(cfg, sc, &Infrastructure{}, quietLogger())
	require.NoError(t, err)

	cookie := &http.Cookie{Name: "client_id", Value: testScope}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"ada@example.com","password":"pw"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Authenticated bool             `json:"authenticated"`
		User          *domainauth.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Authenticated)
	require.NotNil(t, body.User)
	assert.Equal(t, "ada@example.com", body.User.Email)

	sess, err := sc.Store.Get(context.Background(), testScope)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", sess.Token)

	req = httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBuildHTTPHandler_RequiresSessions(t *testing.T) {
	_, err := BuildHTTPHandler(memoryConfig(), ServiceContainer{}, nil, quietLogger())
	assert.Error(t, err)
}

func TestRunServices_StopsOnCancel(t *testing.T) {
	cfg := memoryConfig()
	sc, err := NewServices(context.Background(), &ServiceDeps{Config: cfg, Logger: quietLogger(), Authenticator: stubAuthenticator()})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- RunServices(ctx, RunConfig{Config: cfg, Services: sc, Infra: &Infrastructure{}, Logger: quietLogger()})
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("services did not stop after cancellation")
	}
}

func TestRunServices_ListenError(t *testing.T) {
	cfg := memoryConfig()
	cfg.HTTP.Addr = "256.0.0.1:80"
	sc, err := NewServices(context.Background(), &ServiceDeps{Config: cfg, Logger: quietLogger(), Authenticator: stubAuthenticator()})
	require.NoError(t, err)

	err = RunServices(context.Background(), RunConfig{Config: cfg, Services: sc, Logger: quietLogger()})
	assert.Error(t, err)
}

func TestRunServices_ReaperNeedsDatabase(t *testing.T) {
	cfg := memoryConfig()
	cfg.Services = "session-reaper"
	cfg.Reaper.Interval = time.Minute

	err := RunServices(context.Background(), RunConfig{Config: cfg, Infra: &Infrastructure{}, Logger: quietLogger()})
	assert.Error(t, err)
}

func TestInfrastructure_CloseEmpty(t *testing.T) {
	infra := &Infrastructure{}
	assert.NoError(t, infra.Close())
	assert.Empty(t, infra.ReadinessChecks())
}
