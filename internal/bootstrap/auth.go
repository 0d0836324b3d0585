package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/target/attractions-admin/config"
	"github.com/target/attractions-admin/internal/adapters/authapi"
	"github.com/target/attractions-admin/internal/adapters/devauth"
	"github.com/target/attractions-admin/internal/adapters/oidc"
	domainauth "github.com/target/attractions-admin/internal/domain/auth"
	"github.com/target/attractions-admin/internal/ports"
)

// AuthConfig contains configuration for the login authenticator.
type AuthConfig struct {
	Auth       config.AuthConfig
	HTTPClient *http.Client // Optional, used by the rest and oauth2 modes
	Logger     *slog.Logger
}

// BuildAuthenticator returns the authenticator selected by AUTH_MODE.
//
//nolint:ireturn // the mode decides which concrete authenticator backs the port.
func BuildAuthenticator(ctx context.Context, cfg AuthConfig) (ports.Authenticator, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Auth.Mode {
	case config.AuthModeREST, "":
		client, err := authapi.New(authapi.Config{
			LoginURL:   cfg.Auth.REST.LoginURL,
			TokenPath:  cfg.Auth.REST.TokenPath,
			UserPath:   cfg.Auth.REST.UserPath,
			HTTPClient: restClient(cfg),
		})
		if err != nil {
			return nil, fmt.Errorf("rest authenticator: %w", err)
		}
		logger.InfoContext(ctx, "authenticator configured", "mode", config.AuthModeREST)
		return client, nil

	case config.AuthModeOAuth2:
		oauth := cfg.Auth.OAuth
		prov, err := oidc.NewProvider(ctx, oidc.ProviderConfig{
			ClientID:     oauth.ClientID,
			ClientSecret: oauth.ClientSecret,
			Scope:        oauth.Scope,
			IssuerURL:    oauth.IssuerURL,
			TokenURL:     oauth.TokenURL,
			HTTPClient:   cfg.HTTPClient,
		})
		if err != nil {
			return nil, fmt.Errorf("oauth2 authenticator: %w", err)
		}
		logger.InfoContext(ctx, "authenticator configured", "mode", config.AuthModeOAuth2, "discovery", oauth.IssuerURL != "")
		return prov, nil

	case config.AuthModeMock:
		dev := cfg.Auth.DevAuth
		prov, err := devauth.NewProvider(devauth.Config{
			UserID:          dev.UserID,
			Email:           dev.Email,
			DisplayName:     dev.DisplayName,
			Role:            domainauth.Role(dev.Role),
			Password:        dev.Password,
			PasswordHash:    dev.PasswordHash,
			SessionDuration: dev.SessionDuration,
		})
		if err != nil {
			return nil, fmt.Errorf("mock authenticator: %w", err)
		}
		logger.WarnContext(ctx, "mock authenticator enabled; do not use in production", "email", dev.Email)
		return prov, nil

	default:
		return nil, errors.New("unsupported auth mode: " + string(cfg.Auth.Mode))
	}
}

func restClient(cfg AuthConfig) *http.Client {
	if cfg.HTTPClient != nil || cfg.Auth.REST.Timeout <= 0 {
		return cfg.HTTPClient
	}
	return &http.Client{Timeout: cfg.Auth.REST.Timeout}
}
