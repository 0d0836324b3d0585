// Package authapi authenticates dashboard users against a JSON login endpoint.
package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"
	domainauth "github.com/target/attractions-admin/internal/domain/auth"
	"github.com/target/attractions-admin/internal/ports"
)

const (
	// DefaultTokenPath selects the token from the login response.
	DefaultTokenPath = "access_token"
	// DefaultUserPath selects the user profile from the login response.
	DefaultUserPath = "user"

	maxResponseBytes = 1 << 20
)

var _ ports.Authenticator = (*Client)(nil)

// ErrUnexpectedStatus is wrapped by errors for non-2xx login responses.
var ErrUnexpectedStatus = errors.New("unexpected login response status")

// Config configures the login client.
type Config struct {
	LoginURL   string
	TokenPath  string
	UserPath   string
	HTTPClient *http.Client // Optional, defaults to a client with a 15s timeout
}

// Client posts credentials to LoginURL and extracts the token and user with JMESPath.
type Client struct {
	loginURL   string
	tokenPath  string
	userPath   string
	httpClient *http.Client
}

// New validates cfg and returns a Client.
func New(cfg Config) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(cfg.LoginURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("login URL %q must be absolute", cfg.LoginURL)
	}

	c := &Client{
		loginURL:   u.String(),
		tokenPath:  firstNonEmpty(cfg.TokenPath, DefaultTokenPath),
		userPath:   firstNonEmpty(cfg.UserPath, DefaultUserPath),
		httpClient: cfg.HTTPClient,
	}
	for _, expr := range []string{c.tokenPath, c.userPath} {
		if _, compileErr := jmespath.Compile(expr); compileErr != nil {
			return nil, fmt.Errorf("invalid JMESPath expression %q: %w", expr, compileErr)
		}
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return c, nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Authenticate posts the credentials and returns whatever token and user the
// response carries. Missing parts come back empty, not as an error.
func (c *Client) Authenticate(ctx context.Context, creds domainauth.Credentials) (ports.LoginResponse, error) {
	body, err := json.Marshal(loginRequest(creds))
	if err != nil {
		return ports.LoginResponse{}, fmt.Errorf("encode login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.loginURL, bytes.NewReader(body))
	if err != nil {
		return ports.LoginResponse{}, fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ports.LoginResponse{}, fmt.Errorf("post login: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return ports.LoginResponse{}, fmt.Errorf("read login response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ports.LoginResponse{}, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var doc any
	if len(bytes.TrimSpace(raw)) > 0 {
		if unmarshalErr := json.Unmarshal(raw, &doc); unmarshalErr != nil {
			return ports.LoginResponse{}, fmt.Errorf("decode login response: %w", unmarshalErr)
		}
	}
	return c.extract(doc)
}

func (c *Client) extract(doc any) (ports.LoginResponse, error) {
	var out ports.LoginResponse

	tok, err := jmespath.Search(c.tokenPath, doc)
	if err != nil {
		return out, fmt.Errorf("select token: %w", err)
	}
	if s, ok := tok.(string); ok {
		out.AccessToken = s
	}

	rawUser, err := jmespath.Search(c.userPath, doc)
	if err != nil {
		return out, fmt.Errorf("select user: %w", err)
	}
	if _, isObject := rawUser.(map[string]any); !isObject {
		return out, nil
	}
	encoded, err := json.Marshal(rawUser)
	if err != nil {
		return out, fmt.Errorf("re-encode user: %w", err)
	}
	var user domainauth.User
	if unmarshalErr := json.Unmarshal(encoded, &user); unmarshalErr != nil {
		return out, fmt.Errorf("decode user: %w", unmarshalErr)
	}
	out.User = &user
	return out, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
