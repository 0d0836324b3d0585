// Package backend is an HTTP client for the attractions REST backend.
package backend

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

	"github.com/target/attractions-admin/internal/domain/model"
	apperrors "github.com/target/attractions-admin/internal/errors"
	"github.com/target/attractions-admin/internal/ports"
)

const maxErrorBody = 4 << 10

var (
	_ ports.UserBackend       = (*Client)(nil)
	_ ports.AttractionBackend = (*Client)(nil)
)

// Config configures the backend client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration // default 15s
	HTTPClient *http.Client  // Optional; its transport is wrapped with BearerTransport
}

// Client calls the backend on behalf of the session whose token is in the request context.
type Client struct {
	base *url.URL
	http *http.Client
}

// New validates cfg and returns a Client.
func New(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("backend URL %q must be absolute", cfg.BaseURL)
	}

	hc := &http.Client{Timeout: cfg.Timeout}
	if cfg.HTTPClient != nil {
		cp := *cfg.HTTPClient
		hc = &cp
	}
	if hc.Timeout == 0 {
		hc.Timeout = 15 * time.Second
	}
	hc.Transport = &BearerTransport{Base: hc.Transport}

	return &Client{base: base, http: hc}, nil
}

// ListUsers returns every user known to the backend.
func (c *Client) ListUsers(ctx context.Context) ([]model.DashboardUser, error) {
	var users []model.DashboardUser
	if err := c.do(ctx, http.MethodGet, "/users", nil, &users); err != nil {
		return nil, err
	}
	if users == nil {
		users = []model.DashboardUser{}
	}
	return users, nil
}

// ActivateUser re-enables a deactivated user.
func (c *Client) ActivateUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPatch, "/users/"+url.PathEscape(id)+"/activate", nil, nil)
}

// DeleteUser removes a single user.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/users/"+url.PathEscape(id), nil, nil)
}

// BulkUpdateUsers applies role and/or activation changes to several users.
func (c *Client) BulkUpdateUsers(ctx context.Context, update model.BulkUserUpdate) error {
	return c.do(ctx, http.MethodPatch, "/users", update, nil)
}

// GetAttraction fetches one attraction.
func (c *Client) GetAttraction(ctx context.Context, id string) (model.Attraction, error) {
	var a model.Attraction
	err := c.do(ctx, http.MethodGet, "/attractions/"+url.PathEscape(id), nil, &a)
	return a, err
}

// CreateAttraction stores a new attraction and returns it as the backend saved it.
func (c *Client) CreateAttraction(ctx context.Context, a model.Attraction) (model.Attraction, error) {
	var out model.Attraction
	err := c.do(ctx, http.MethodPost, "/attractions", a, &out)
	return out, err
}

// UpdateAttraction replaces an attraction.
func (c *Client) UpdateAttraction(ctx context.Context, a model.Attraction) (model.Attraction, error) {
	if a.ID == "" {
		return model.Attraction{}, apperrors.ValidationField("id", "attraction id is required")
	}
	var out model.Attraction
	err := c.do(ctx, http.MethodPut, "/attractions/"+url.PathEscape(a.ID), a, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return apperrors.Wrap(err, apperrors.ErrCodeTimeout, "backend request timed out")
		}
		if errors.Is(err, context.Canceled) {
			return apperrors.Wrap(err, apperrors.ErrCodeCanceled, "backend request was canceled")
		}
		return apperrors.Wrapf(err, apperrors.ErrCodeUpstream, "%s %s failed", method, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return statusError(resp.StatusCode, method, path, snippet)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if decodeErr := json.NewDecoder(resp.Body).Decode(out); decodeErr != nil && !errors.Is(decodeErr, io.EOF) {
		return apperrors.Wrapf(decodeErr, apperrors.ErrCodeUpstream, "decode %s %s", method, path)
	}
	return nil
}

// StatusError carries a non-2xx backend response.
type StatusError struct {
	StatusCode int
	Method     string
	Path       string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend %s %s: %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend %s %s: %d", e.Method, e.Path, e.StatusCode)
}

func statusError(status int, method, path string, body []byte) error {
	cause := &StatusError{StatusCode: status, Method: method, Path: path, Message: backendMessage(body)}

	switch status {
	case http.StatusNotFound:
		return apperrors.Wrap(cause, apperrors.ErrCodeNotFound, "resource not found")
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		msg := cause.Message
		if msg == "" {
			msg = "the backend rejected the request"
		}
		return apperrors.Wrap(cause, apperrors.ErrCodeValidation, msg)
	case http.StatusUnauthorized, http.StatusForbidden:
		return apperrors.Wrap(cause, apperrors.ErrCodeUnauthorized, "the backend refused the session's credentials")
	case http.StatusConflict:
		return apperrors.Wrap(cause, apperrors.ErrCodeConflict, "resource conflict")
	default:
		return apperrors.Wrap(cause, apperrors.ErrCodeUpstream, "backend request failed")
	}
}

// backendMessage pulls a human-readable message out of a JSON error body.
func backendMessage(body []byte) string {
	var payload struct {
		Message any    `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &payload) != nil {
		return ""
	}
	switch m := payload.Message.(type) {
	case string:
		return m
	case []any:
		parts := make([]string, 0, len(m))
		for _, p := range m {
			if s, ok := p.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "; ")
	}
	return payload.Error
}
