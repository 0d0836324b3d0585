package bootstrap

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/target/attractions-admin/config"
)

func TestGetEnabledServices(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.AppConfig
		want []string
	}{
		{name: "nil config", cfg: nil, want: []string{}},
		{name: "invalid services", cfg: &config.AppConfig{Services: "nope"}, want: []string{}},
		{name: "http only", cfg: &config.AppConfig{Services: "http"}, want: []string{"http"}},
		{
			name: "sorted",
			cfg:  &config.AppConfig{Services: "session-reaper,http"},
			want: []string{"http", "session-reaper"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetEnabledServices(tt.cfg))
		})
	}
}

func TestValidateServiceConfig(t *testing.T) {
	assert.Error(t, ValidateServiceConfig(nil))
	assert.Error(t, ValidateServiceConfig(&config.AppConfig{Services: "http"}), "rest mode without a login URL")

	cfg := &config.AppConfig{
		Services: "http",
		Auth:     config.AuthConfig{Mode: config.AuthModeMock, DevAuth: config.DevAuthConfig{Password: "pw"}},
		Backend:  config.BackendConfig{URL: "https://api.example.com"},
	}
	assert.NoError(t, ValidateServiceConfig(cfg))
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, parseLogLevel(""))
	assert.Equal(t, slog.LevelDebug, parseLogLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLogLevel(" WARN "))
	assert.Equal(t, slog.LevelError, parseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("loud"))
}
