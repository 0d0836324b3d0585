package oidc

// Package oidc authenticates dashboard users with the OAuth2 resource-owner
// password grant, optionally discovering endpoints and verifying id_tokens via OIDC.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	domainauth "github.com/target/attractions-admin/internal/domain/auth"
	"github.com/target/attractions-admin/internal/ports"
	"golang.org/x/oauth2"
)

var _ ports.Authenticator = (*Provider)(nil)

// Provider implements ports.Authenticator using the password grant.
type Provider struct {
	config     *oauth2.Config
	httpClient *http.Client

	// verifier is nil when endpoints were configured without discovery.
	verifier *gooidc.IDTokenVerifier
}

// ProviderConfig holds configuration for the password-grant provider.
// Exactly one of IssuerURL and TokenURL is required.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	Scope        string
	IssuerURL    string
	TokenURL     string
	HTTPClient   *http.Client // Optional, defaults to a client with a 30s timeout
}

// DiscoveryDocument is the subset of the OIDC discovery document the provider reads.
type DiscoveryDocument struct {
	Issuer                string `json:"issuer"`
	AuthorizationEndpoint string `json:"authorization_endpoint"`
	TokenEndpoint         string `json:"token_endpoint"`
	UserinfoEndpoint      string `json:"userinfo_endpoint"`
	JwksURI               string `json:"jwks_uri"`
}

// NewProvider creates a password-grant provider. With IssuerURL set it performs
// a single discovery fetch and verifies id_tokens against the issuer's keys.
func NewProvider(ctx context.Context, config ProviderConfig) (*Provider, error) {
	if config.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if config.IssuerURL == "" && config.TokenURL == "" {
		return nil, errors.New("issuer URL or token URL is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	p := &Provider{httpClient: httpClient}
	endpoint := oauth2.Endpoint{TokenURL: config.TokenURL}

	if config.IssuerURL != "" {
		issuer := strings.TrimSuffix(config.IssuerURL, "/")
		issuer = strings.TrimSuffix(issuer, "/.well-known/openid-configuration")
		op, err := gooidc.NewProvider(p.clientContext(ctx), issuer)
		if err != nil {
			return nil, fmt.Errorf("oidc new provider: %w", err)
		}
		p.verifier = op.Verifier(&gooidc.Config{ClientID: config.ClientID})
		endpoint = op.Endpoint()
	}

	p.config = &oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		Scopes:       strings.Fields(config.Scope),
		Endpoint:     endpoint,
	}
	return p, nil
}

func (p *Provider) clientContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
}

// Authenticate exchanges the credentials for a token. The user profile comes from
// a "user" field of the token response or, failing that, from id_token claims.
func (p *Provider) Authenticate(ctx context.Context, creds domainauth.Credentials) (ports.LoginResponse, error) {
	tok, err := p.config.PasswordCredentialsToken(p.clientContext(ctx), creds.Email, creds.Password)
	if err != nil {
		return ports.LoginResponse{}, fmt.Errorf("password grant: %w", err)
	}

	out := ports.LoginResponse{AccessToken: tok.AccessToken}

	user, err := userFromExtra(tok.Extra("user"))
	if err != nil {
		return out, err
	}
	if user == nil {
		user, err = p.userFromIDToken(ctx, tok)
		if err != nil {
			return out, err
		}
	}
	out.User = user
	return out, nil
}

func userFromExtra(raw any) (*domainauth.User, error) {
	if _, ok := raw.(map[string]any); !ok {
		return nil, nil
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("re-encode user: %w", err)
	}
	var u domainauth.User
	if err := json.Unmarshal(encoded, &u); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &u, nil
}

// idTokenClaims covers the common OIDC profile claims plus a role claim.
type idTokenClaims struct {
	Sub               string   `json:"sub"`
	Email             string   `json:"email"`
	Name              string   `json:"name"`
	PreferredUsername string   `json:"preferred_username"`
	Role              string   `json:"role"`
	Roles             []string `json:"roles"`
}

func (p *Provider) userFromIDToken(ctx context.Context, tok *oauth2.Token) (*domainauth.User, error) {
	rawID, ok := tok.Extra("id_token").(string)
	if !ok || rawID == "" || p.verifier == nil {
		return nil, nil
	}
	idTok, err := p.verifier.Verify(p.clientContext(ctx), rawID)
	if err != nil {
		return nil, fmt.Errorf("verify id_token: %w", err)
	}
	var claims idTokenClaims
	if claimsErr := idTok.Claims(&claims); claimsErr != nil {
		return nil, fmt.Errorf("parse id_token claims: %w", claimsErr)
	}
	u := mapClaims(claims)
	return &u, nil
}

// mapClaims maps id_token claims into a User using precedence rules.
func mapClaims(c idTokenClaims) domainauth.User {
	role := c.Role
	if role == "" && len(c.Roles) > 0 {
		role = c.Roles[0]
	}
	return domainauth.User{
		ID:          c.Sub,
		DisplayName: firstNonEmpty(c.Name, c.PreferredUsername, c.Email),
		Email:       c.Email,
		Role:        domainauth.Role(role),
	}
}

// firstNonEmpty returns the first non-empty string from vals, or empty string if none.
func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
