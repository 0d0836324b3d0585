package config

import (
	"reflect"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseServices(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    map[ServiceMode]bool
		expectError bool
	}{
		{
			name:     "single service - http",
			input:    "http",
			expected: map[ServiceMode]bool{ServiceModeHTTP: true},
		},
		{
			name:     "single service - session-reaper",
			input:    "session-reaper",
			expected: map[ServiceMode]bool{ServiceModeReaper: true},
		},
		{
			name:     "services with spaces and duplicates",
			input:    " http , session-reaper , http ",
			expected: map[ServiceMode]bool{ServiceModeHTTP: true, ServiceModeReaper: true},
		},
		{
			name:        "empty string",
			input:       "",
			expectError: true,
		},
		{
			name:        "only commas",
			input:       ",,",
			expectError: true,
		},
		{
			name:        "unknown service",
			input:       "http,scheduler",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseServices(tt.input)
			if tt.expectError {
				if err == nil {
					t.Errorf("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestConfig_ServiceEnabledMethods(t *testing.T) {
	tests := []struct {
		name           string
		services       string
		expectedHTTP   bool
		expectedReaper bool
	}{
		{name: "default - http only", services: "http", expectedHTTP: true},
		{name: "reaper only", services: "session-reaper", expectedReaper: true},
		{name: "both", services: "http,session-reaper", expectedHTTP: true, expectedReaper: true},
		{name: "invalid config disables everything", services: "bogus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &AppConfig{Services: tt.services}
			assert.Equal(t, tt.expectedHTTP, cfg.IsHTTPServerEnabled())
			assert.Equal(t, tt.expectedReaper, cfg.IsReaperEnabled())
		})
	}
}

func TestValidServiceModes(t *testing.T) {
	modes := ValidServiceModes()
	assert.ElementsMatch(t, []ServiceMode{ServiceModeHTTP, ServiceModeReaper}, modes)
	for _, m := range modes {
		_, err := ParseServices(string(m))
		assert.NoError(t, err, "mode %q should parse", m)
	}
}

func TestAppConfig_ParseAuthEnv(t *testing.T) {
	t.Setenv("AUTH_MODE", "OAuth2")
	t.Setenv("OAUTH_CLIENT_ID", "admin-dashboard")
	t.Setenv("OAUTH_CLIENT_SECRET", "super-secret")
	t.Setenv("OAUTH_ISSUER_URL", "https://login.example.com")
	t.Setenv("AUTH_LOGIN_URL", "https://api.example.com/auth/login")
	t.Setenv("AUTH_USER_PATH", "data.user")
	t.Setenv("DEV_AUTH_ROLE", "User")
	t.Setenv("DEV_AUTH_SESSION_DURATION", "1h")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}

	expected := AuthConfig{
		Mode: AuthModeOAuth2,
		REST: RESTAuthConfig{
			LoginURL:  "https://api.example.com/auth/login",
			TokenPath: "access_token",
			UserPath:  "data.user",
			Timeout:   15 * time.Second,
		},
		OAuth: OAuthConfig{
			ClientID:     "admin-dashboard",
			ClientSecret: "super-secret",
			Scope:        "openid profile email",
			IssuerURL:    "https://login.example.com",
		},
		DevAuth: DevAuthConfig{
			UserID:          "dev-user",
			Email:           "dev@example.com",
			DisplayName:     "Dev User",
			Role:            "User",
			SessionDuration: time.Hour,
		},
	}

	if !reflect.DeepEqual(cfg.Auth, expected) {
		t.Fatalf("unexpected auth configuration:\nexpected: %#v\ngot:      %#v", expected, cfg.Auth)
	}
}

func TestAppConfig_ParseSessionEnv(t *testing.T) {
	t.Setenv("SESSION_STORE", "Postgres")
	t.Setenv("SESSION_TTL", "12h")
	t.Setenv("SESSION_HONOR_TOKEN_EXPIRY", "true")
	t.Setenv("SESSION_MEMORY_IDLE_TIMEOUT", "10s")
	t.Setenv("SESSION_KEY_PREFIX", " admin ")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("REDIS_URI", "redis.internal:6379")

	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.Equal(t, SessionConfig{
		Store:             SessionStorePostgres,
		TTL:               12 * time.Hour,
		HonorTokenExpiry:  true,
		MemoryIdleTimeout: time.Minute,
		KeyPrefix:         "admin:",
	}, cfg.Session)
	assert.Equal(t, "db.internal", cfg.Postgres.Host)
	assert.Equal(t, 6543, cfg.Postgres.Port)
	assert.Equal(t, "redis.internal:6379", cfg.Redis.URI)
}

func TestAppConfig_ParseRejectsUnknownModes(t *testing.T) {
	t.Run("auth mode", func(t *testing.T) {
		t.Setenv("AUTH_MODE", "saml")
		var cfg AppConfig
		assert.Error(t, env.Parse(&cfg))
	})
	t.Run("session store", func(t *testing.T) {
		t.Setenv("SESSION_STORE", "sqlite")
		var cfg AppConfig
		assert.Error(t, env.Parse(&cfg))
	})
}

func TestAppConfig_Defaults(t *testing.T) {
	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.Equal(t, AuthModeREST, cfg.Auth.Mode)
	assert.Equal(t, SessionStoreRedis, cfg.Session.Store)
	assert.Zero(t, cfg.Session.TTL, "sessions persist until logout by default")
	assert.False(t, cfg.Session.HonorTokenExpiry, "stored sessions persist until logout by default")
	assert.Equal(t, 30*time.Minute, cfg.Session.MemoryIdleTimeout)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "http", cfg.Services)
	assert.Equal(t, 5*time.Minute, cfg.Reaper.Interval)
}

func TestAppConfig_Validate(t *testing.T) {
	valid := func() AppConfig {
		return AppConfig{
			Services: "http",
			Auth:     AuthConfig{Mode: AuthModeREST, REST: RESTAuthConfig{LoginURL: "https://api.example.com/login"}},
			Session:  SessionConfig{Store: SessionStoreRedis},
			Backend:  BackendConfig{URL: "https://api.example.com"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr string
	}{
		{name: "valid", mutate: func(*AppConfig) {}},
		{
			name:    "rest without login url",
			mutate:  func(c *AppConfig) { c.Auth.REST.LoginURL = "" },
			wantErr: "AUTH_LOGIN_URL is required",
		},
		{
			name:    "rest with relative login url",
			mutate:  func(c *AppConfig) { c.Auth.REST.LoginURL = "/login" },
			wantErr: "absolute URL",
		},
		{
			name: "oauth2 without endpoints",
			mutate: func(c *AppConfig) {
				c.Auth.Mode = AuthModeOAuth2
				c.Auth.OAuth.ClientID = "id"
			},
			wantErr: "OAUTH_ISSUER_URL or OAUTH_TOKEN_URL",
		},
		{
			name:    "mock without password",
			mutate:  func(c *AppConfig) { c.Auth.Mode = AuthModeMock },
			wantErr: "DEV_AUTH_PASSWORD",
		},
		{
			name:    "missing backend url",
			mutate:  func(c *AppConfig) { c.Backend.URL = "" },
			wantErr: "BACKEND_URL is required",
		},
		{
			name:   "reaper alone does not need a backend",
			mutate: func(c *AppConfig) { c.Services = "session-reaper"; c.Session.Store = SessionStorePostgres; c.Backend.URL = "" },
		},
		{
			name:    "reaper on redis",
			mutate:  func(c *AppConfig) { c.Services = "http,session-reaper" },
			wantErr: "requires SESSION_STORE=postgres",
		},
		{
			name:    "public suffix cookie domain",
			mutate:  func(c *AppConfig) { c.HTTP.CookieDomain = "co.uk" },
			wantErr: "public suffix",
		},
		{
			name:    "cookie domain with port",
			mutate:  func(c *AppConfig) { c.HTTP.CookieDomain = "admin.example.com:8080" },
			wantErr: "bare host name",
		},
		{
			name:   "registrable cookie domain",
			mutate: func(c *AppConfig) { c.HTTP.CookieDomain = "admin.example.com" },
		},
		{
			name:    "invalid services",
			mutate:  func(c *AppConfig) { c.Services = "" },
			wantErr: "at least one service",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestHTTPConfig_Sanitize(t *testing.T) {
	h := HTTPConfig{CookieDomain: " .Admin.Example.com "}
	h.Sanitize()
	assert.Equal(t, "admin.example.com", h.CookieDomain)
	assert.Equal(t, 15*time.Second, h.ReadTimeout)
	assert.Equal(t, 10*time.Second, h.ShutdownTimeout)
}

func TestBackendConfig_ParsedURL(t *testing.T) {
	b := BackendConfig{URL: " https://api.example.com/v1/ "}
	b.Sanitize()
	u, err := b.ParsedURL()
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/v1", u.String())

	b = BackendConfig{URL: "api.example.com"}
	_, err = b.ParsedURL()
	assert.Error(t, err)
}

func TestReaperConfig_Sanitize(t *testing.T) {
	r := ReaperConfig{Interval: time.Second}
	r.Sanitize()
	assert.Equal(t, time.Minute, r.Interval)
}

func TestObservabilityMetricsConfig_Sanitize(t *testing.T) {
	cfg := ObservabilityMetricsConfig{Enabled: true, StatsdAddress: "   ", Prefix: ""}
	cfg.Sanitize()

	if cfg.Enabled {
		t.Fatalf("expected metrics to be disabled when address is empty")
	}
	if cfg.IsEnabled() {
		t.Fatalf("expected IsEnabled to be false")
	}
	if cfg.Prefix != "attractions_admin" {
		t.Fatalf("expected default prefix, got %q", cfg.Prefix)
	}
}
