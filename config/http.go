package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
)

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// CookieDomain is the domain for the client_id cookie.
	// Leave empty to use the request host.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`

	// SecureCookies forces the Secure attribute even behind plain-HTTP proxies.
	SecureCookies bool `env:"APP_SECURE_COOKIES" envDefault:"false"`

	// AppDir holds the built dashboard bundle (index.html and static assets).
	AppDir string `env:"APP_DIR" envDefault:""`

	// RoutesFile overrides the embedded route table.
	RoutesFile string `env:"ROUTES_FILE" envDefault:""`

	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT"     envDefault:"15s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT"    envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	h.CookieDomain = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(h.CookieDomain)), ".")
	h.AppDir = strings.TrimSpace(h.AppDir)
	h.RoutesFile = strings.TrimSpace(h.RoutesFile)
	if h.ReadTimeout <= 0 {
		h.ReadTimeout = 15 * time.Second
	}
	if h.WriteTimeout <= 0 {
		h.WriteTimeout = 30 * time.Second
	}
	if h.ShutdownTimeout <= 0 {
		h.ShutdownTimeout = 10 * time.Second
	}
}

// Validate rejects a cookie domain that browsers would refuse, such as a bare
// public suffix ("co.uk") that would leak the cookie to unrelated sites.
func (h *HTTPConfig) Validate() error {
	if h.CookieDomain == "" || h.CookieDomain == "localhost" {
		return nil
	}
	if strings.Contains(h.CookieDomain, ":") || strings.Contains(h.CookieDomain, "/") {
		return fmt.Errorf("APP_COOKIE_DOMAIN must be a bare host name: %q", h.CookieDomain)
	}
	if _, err := publicsuffix.EffectiveTLDPlusOne(h.CookieDomain); err != nil {
		return fmt.Errorf("APP_COOKIE_DOMAIN %q is a public suffix: %w", h.CookieDomain, err)
	}
	return nil
}

// BackendConfig points at the attractions REST backend.
type BackendConfig struct {
	URL     string        `env:"URL"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"15s"`
}

// Sanitize applies guardrails to backend configuration values.
func (b *BackendConfig) Sanitize() {
	b.URL = strings.TrimRight(strings.TrimSpace(b.URL), "/")
	if b.Timeout <= 0 {
		b.Timeout = 15 * time.Second
	}
}

// ParsedURL returns the backend URL, requiring it to be absolute.
func (b *BackendConfig) ParsedURL() (*url.URL, error) {
	if b.URL == "" {
		return nil, errors.New("BACKEND_URL is required")
	}
	u, err := url.Parse(b.URL)
	if err != nil {
		return nil, fmt.Errorf("parse BACKEND_URL: %w", err)
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("BACKEND_URL must be absolute: %q", b.URL)
	}
	return u, nil
}
