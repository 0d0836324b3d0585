package oidc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/attractions-admin/internal/domain/auth"
)

// newIdP serves discovery and a password-grant token endpoint.
func newIdP(t *testing.T, tokenBody map[string]any) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/.well-known/openid-configuration", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(DiscoveryDocument{
			Issuer:                srv.URL,
			AuthorizationEndpoint: srv.URL + "/auth",
			TokenEndpoint:         srv.URL + "/token",
			JwksURI:               srv.URL + "/jwks",
		})
	})
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.PostForm.Get("grant_type") != "password" || r.PostForm.Get("password") != "s3cret" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		assert.Equal(t, "ana@example.com", r.PostForm.Get("username"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(tokenBody)
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestNewProvider_Discovery(t *testing.T) {
	idp := newIdP(t, nil)
	p, err := NewProvider(context.Background(), ProviderConfig{ClientID: "dash", IssuerURL: idp.URL})
	require.NoError(t, err)
	assert.Equal(t, idp.URL+"/token", p.config.Endpoint.TokenURL)
	assert.NotNil(t, p.verifier)
}

func TestNewProvider_ValidationErrors(t *testing.T) {
	_, err := NewProvider(context.Background(), ProviderConfig{TokenURL: "https://idp/token"})
	assert.ErrorContains(t, err, "client ID")

	_, err = NewProvider(context.Background(), ProviderConfig{ClientID: "dash"})
	assert.ErrorContains(t, err, "token URL")
}

func TestProvider_Authenticate_UserFromTokenResponse(t *testing.T) {
	idp := newIdP(t, map[string]any{
		"access_token": "at-1",
		"token_type":   "Bearer",
		"user":         map[string]any{"id": 5, "email": "ana@example.com", "role": "Admin"},
	})
	p, err := NewProvider(context.Background(), ProviderConfig{ClientID: "dash", TokenURL: idp.URL + "/token"})
	require.NoError(t, err)

	resp, err := p.Authenticate(context.Background(), domainauth.Credentials{Email: "ana@example.com", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, "at-1", resp.AccessToken)
	require.NotNil(t, resp.User)
	assert.Equal(t, "5", resp.User.ID)
	assert.Equal(t, domainauth.RoleAdmin, resp.User.Role)
}

func TestProvider_Authenticate_NoUser(t *testing.T) {
	idp := newIdP(t, map[string]any{"access_token": "at-1", "token_type": "Bearer"})
	p, err := NewProvider(context.Background(), ProviderConfig{ClientID: "dash", TokenURL: idp.URL + "/token"})
	require.NoError(t, err)

	resp, err := p.Authenticate(context.Background(), domainauth.Credentials{Email: "ana@example.com", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, "at-1", resp.AccessToken)
	assert.Nil(t, resp.User)
}

func TestProvider_Authenticate_Rejected(t *testing.T) {
	idp := newIdP(t, nil)
	p, err := NewProvider(context.Background(), ProviderConfig{ClientID: "dash", TokenURL: idp.URL + "/token"})
	require.NoError(t, err)

	_, err = p.Authenticate(context.Background(), domainauth.Credentials{Email: "ana@example.com", Password: "wrong"})
	assert.ErrorContains(t, err, "password grant")
}

func TestMapClaims(t *testing.T) {
	u := mapClaims(idTokenClaims{Sub: "abc", Email: "e@x.io", PreferredUsername: "ex", Roles: []string{"User", "Admin"}})
	assert.Equal(t, "abc", u.ID)
	assert.Equal(t, "ex", u.DisplayName)
	assert.Equal(t, domainauth.RoleUser, u.Role)

	u = mapClaims(idTokenClaims{Sub: "abc", Name: "Ana", Role: "Admin", Roles: []string{"User"}})
	assert.Equal(t, "Ana", u.DisplayName)
	assert.Equal(t, domainauth.RoleAdmin, u.Role)
}
