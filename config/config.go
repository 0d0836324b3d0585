package config

import (
	"errors"
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - auth.go: authentication endpoint configuration
//   - session.go: session store, Redis and Postgres configuration
//   - http.go: HTTP server, cookies, route table and backend configuration
//   - services.go: service modes and the expired-session reaper
type AppConfig struct {
	// IsDev controls development mode behavior.
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	Auth     AuthConfig
	Session  SessionConfig
	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`
	HTTP     HTTPConfig
	Backend  BackendConfig `envPrefix:"BACKEND_"`

	// Services is a comma-delimited list of enabled services.
	Services string `env:"SERVICES" envDefault:"http"`
	Reaper   ReaperConfig

	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.Auth.Sanitize()
	c.Session.Sanitize()
	c.HTTP.Sanitize()
	c.Backend.Sanitize()
	c.Reaper.Sanitize()
	c.Observability.Sanitize()

	c.detectDevMode()
}

// Validate reports every configuration problem that would stop the server from starting.
func (c *AppConfig) Validate() error {
	var errs []error
	if _, err := c.GetEnabledServices(); err != nil {
		errs = append(errs, err)
	}
	errs = append(errs,
		c.Auth.Validate(),
		c.HTTP.Validate(),
	)
	if c.IsHTTPServerEnabled() && c.Backend.URL == "" {
		errs = append(errs, errors.New("BACKEND_URL is required"))
	}
	if c.IsReaperEnabled() && c.Session.Store != SessionStorePostgres {
		errs = append(errs, errors.New("the session-reaper service requires SESSION_STORE=postgres"))
	}
	return errors.Join(errs...)
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}

// GetEnabledServices returns the enabled services based on the Services field.
func (c *AppConfig) GetEnabledServices() (map[ServiceMode]bool, error) {
	return ParseServices(c.Services)
}

// IsHTTPServerEnabled returns true if the HTTP server service is enabled.
func (c *AppConfig) IsHTTPServerEnabled() bool {
	services, err := c.GetEnabledServices()
	if err != nil {
		return false
	}
	return services[ServiceModeHTTP]
}

// IsReaperEnabled returns true if the expired-session reaper is enabled.
func (c *AppConfig) IsReaperEnabled() bool {
	services, err := c.GetEnabledServices()
	if err != nil {
		return false
	}
	return services[ServiceModeReaper]
}
