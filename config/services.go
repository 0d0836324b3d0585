package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// ServiceMode represents the available service modes.
type ServiceMode string

const (
	// ServiceModeHTTP runs the HTTP server.
	ServiceModeHTTP ServiceMode = "http"
	// ServiceModeReaper periodically deletes expired sessions from Postgres.
	ServiceModeReaper ServiceMode = "session-reaper"
)

// ValidServiceModes returns all valid service mode names.
func ValidServiceModes() []ServiceMode {
	return []ServiceMode{ServiceModeHTTP, ServiceModeReaper}
}

// ParseServices turns SERVICES (for example "http,session-reaper") into a set.
// Blank entries and duplicates are ignored; an unknown name fails the whole list.
func ParseServices(servicesStr string) (map[ServiceMode]bool, error) {
	valid := ValidServiceModes()
	enabled := make(map[ServiceMode]bool, len(valid))

	for _, field := range strings.FieldsFunc(servicesStr, func(r rune) bool { return r == ',' }) {
		name := ServiceMode(strings.ToLower(strings.TrimSpace(field)))
		if name == "" {
			continue
		}
		if !slices.Contains(valid, name) {
			return nil, fmt.Errorf("invalid service name %q (valid options: %s)", name, joinModes(valid))
		}
		enabled[name] = true
	}

	if len(enabled) == 0 {
		return nil, errors.New("SERVICES must name at least one service")
	}
	return enabled, nil
}

func joinModes(modes []ServiceMode) string {
	names := make([]string, len(modes))
	for i, m := range modes {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}

const minReaperInterval = time.Minute

// ReaperConfig contains expired-session reaper configuration.
type ReaperConfig struct {
	// Interval is the reaper tick interval.
	Interval time.Duration `env:"REAPER_INTERVAL" envDefault:"5m"`
}

// Sanitize applies guardrails to reaper configuration values.
func (r *ReaperConfig) Sanitize() {
	if r.Interval < minReaperInterval {
		r.Interval = minReaperInterval
	}
}
