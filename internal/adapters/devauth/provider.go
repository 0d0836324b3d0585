package devauth

// Package devauth provides a simple, config-driven Authenticator for local development.

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	domainauth "github.com/target/attractions-admin/internal/domain/auth"
	"github.com/target/attractions-admin/internal/ports"
	"golang.org/x/crypto/bcrypt"
)

var _ ports.Authenticator = (*Provider)(nil)

// ErrInvalidCredentials is returned when the email or password does not match.
var ErrInvalidCredentials = errors.New("dev auth: invalid credentials")

// Config controls the dev auth provider behavior.
// Either PasswordHash (bcrypt) or Password must be set.
type Config struct {
	UserID          string
	Email           string
	DisplayName     string
	Role            domainauth.Role
	Password        string
	PasswordHash    string
	SessionDuration time.Duration // default 8h when zero
}

// Provider implements ports.Authenticator for local development.
// It accepts a single configured identity and issues HS256 tokens carrying an
// exp claim, so token expiry behaves the way it does against a real backend.
type Provider struct {
	user            domainauth.User
	hash            []byte
	signingKey      []byte
	sessionDuration time.Duration
	now             func() time.Time
}

// NewProvider constructs a dev auth provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.UserID == "" {
		return nil, errors.New("dev auth: UserID is required")
	}
	if cfg.Email == "" {
		return nil, errors.New("dev auth: Email is required")
	}

	hash := []byte(cfg.PasswordHash)
	switch {
	case len(hash) > 0:
		if _, err := bcrypt.Cost(hash); err != nil {
			return nil, fmt.Errorf("dev auth: invalid password hash: %w", err)
		}
	case cfg.Password != "":
		h, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("dev auth: hash password: %w", err)
		}
		hash = h
	default:
		return nil, errors.New("dev auth: Password or PasswordHash is required")
	}

	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("dev auth: signing key: %w", err)
	}

	dur := cfg.SessionDuration
	if dur == 0 {
		dur = 8 * time.Hour
	}
	role := cfg.Role
	if role == "" {
		role = domainauth.RoleAdmin
	}
	return &Provider{
		user: domainauth.User{
			ID:          cfg.UserID,
			DisplayName: firstNonEmpty(cfg.DisplayName, cfg.Email),
			Email:       cfg.Email,
			Role:        role,
		},
		hash:            hash,
		signingKey:      key,
		sessionDuration: dur,
		now:             time.Now,
	}, nil
}

// Authenticate checks the credentials against the configured identity.
func (p *Provider) Authenticate(_ context.Context, creds domainauth.Credentials) (ports.LoginResponse, error) {
	if !strings.EqualFold(strings.TrimSpace(creds.Email), p.user.Email) {
		return ports.LoginResponse{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(p.hash, []byte(creds.Password)); err != nil {
		return ports.LoginResponse{}, ErrInvalidCredentials
	}

	now := p.now()
	claims := jwt.RegisteredClaims{
		Subject:   p.user.ID,
		Issuer:    "attractions-admin-dev",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(p.sessionDuration)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.signingKey)
	if err != nil {
		return ports.LoginResponse{}, fmt.Errorf("dev auth: sign token: %w", err)
	}

	u := p.user
	return ports.LoginResponse{AccessToken: token, User: &u}, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
