package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// AuthMode selects the authenticator that checks login credentials.
type AuthMode string

const (
	// AuthModeREST posts credentials to a JSON login endpoint.
	AuthModeREST AuthMode = "rest"
	// AuthModeOAuth2 uses the OAuth2 resource-owner password grant.
	AuthModeOAuth2 AuthMode = "oauth2"
	// AuthModeMock uses a single local identity (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "rest", "oauth2", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: rest, oauth2, mock)", v)
	}
}

// RESTAuthConfig describes the JSON login endpoint.
type RESTAuthConfig struct {
	LoginURL string `env:"LOGIN_URL"`
	// TokenPath and UserPath are JMESPath expressions into the login response.
	TokenPath string        `env:"TOKEN_PATH" envDefault:"access_token"`
	UserPath  string        `env:"USER_PATH"  envDefault:"user"`
	Timeout   time.Duration `env:"TIMEOUT"    envDefault:"15s"`
}

// OAuthConfig contains OAuth2/OIDC password-grant configuration.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email"`
	// IssuerURL enables OIDC discovery. TokenURL is used when discovery is off.
	IssuerURL string `env:"ISSUER_URL"`
	TokenURL  string `env:"TOKEN_URL"`
}

// DevAuthConfig controls the mock identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	UserID      string `env:"USER_ID"      envDefault:"dev-user"`
	Email       string `env:"EMAIL"        envDefault:"dev@example.com"`
	DisplayName string `env:"DISPLAY_NAME" envDefault:"Dev User"`
	Role        string `env:"ROLE"         envDefault:"Admin"`
	// Password is hashed at startup. PasswordHash takes precedence when both are set.
	Password        string        `env:"PASSWORD"`
	PasswordHash    string        `env:"PASSWORD_HASH"`
	SessionDuration time.Duration `env:"SESSION_DURATION" envDefault:"8h"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which authenticator to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"rest"`

	REST    RESTAuthConfig `envPrefix:"AUTH_"`
	OAuth   OAuthConfig    `envPrefix:"OAUTH_"`
	DevAuth DevAuthConfig  `envPrefix:"DEV_AUTH_"`
}

// Sanitize trims values and restores defaults that env may have blanked.
func (a *AuthConfig) Sanitize() {
	a.REST.LoginURL = strings.TrimSpace(a.REST.LoginURL)
	if a.REST.TokenPath = strings.TrimSpace(a.REST.TokenPath); a.REST.TokenPath == "" {
		a.REST.TokenPath = "access_token"
	}
	if a.REST.UserPath = strings.TrimSpace(a.REST.UserPath); a.REST.UserPath == "" {
		a.REST.UserPath = "user"
	}
	if a.REST.Timeout <= 0 {
		a.REST.Timeout = 15 * time.Second
	}
	a.OAuth.IssuerURL = strings.TrimSpace(a.OAuth.IssuerURL)
	a.OAuth.TokenURL = strings.TrimSpace(a.OAuth.TokenURL)
}

// Validate checks that the selected mode has what it needs.
func (a *AuthConfig) Validate() error {
	switch a.Mode {
	case AuthModeREST, "":
		if a.REST.LoginURL == "" {
			return errors.New("AUTH_LOGIN_URL is required when AUTH_MODE=rest")
		}
		if u, err := url.Parse(a.REST.LoginURL); err != nil || !u.IsAbs() {
			return fmt.Errorf("AUTH_LOGIN_URL must be an absolute URL: %q", a.REST.LoginURL)
		}
	case AuthModeOAuth2:
		if a.OAuth.ClientID == "" {
			return errors.New("OAUTH_CLIENT_ID is required when AUTH_MODE=oauth2")
		}
		if a.OAuth.IssuerURL == "" && a.OAuth.TokenURL == "" {
			return errors.New("OAUTH_ISSUER_URL or OAUTH_TOKEN_URL is required when AUTH_MODE=oauth2")
		}
	case AuthModeMock:
		if a.DevAuth.Password == "" && a.DevAuth.PasswordHash == "" {
			return errors.New("DEV_AUTH_PASSWORD or DEV_AUTH_PASSWORD_HASH is required when AUTH_MODE=mock")
		}
	}
	return nil
}
