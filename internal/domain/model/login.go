package model

import (
	"net/mail"
	"strings"

	apperrors "github.com/target/attractions-admin/internal/errors"
)

// LoginRequest is what the login form and POST /api/auth/login submit.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the email and password before any call to the auth endpoint.
// The email is trimmed; the password is passed through untouched.
func (r *LoginRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	if r.Email == "" {
		return apperrors.ValidationField("email", "Email is required")
	}
	addr, err := mail.ParseAddress(r.Email)
	if err != nil || addr.Address != r.Email {
		return apperrors.ValidationField("email", "Email must be a valid email address")
	}
	if r.Password == "" {
		return apperrors.ValidationField("password", "Password is required")
	}
	return nil
}
