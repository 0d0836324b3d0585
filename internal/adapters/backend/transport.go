package backend

import (
	"net/http"

	"github.com/target/attractions-admin/internal/ports"
)

// BearerTransport adds an Authorization header from the request context.
// Requests without a token pass through unchanged.
type BearerTransport struct {
	Base http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t *BearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	tok, ok := ports.AccessTokenFromContext(req.Context())
	if !ok || req.Header.Get("Authorization") != "" {
		return base.RoundTrip(req)
	}
	// RoundTrippers must not modify the caller's request.
	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", "Bearer "+tok)
	return base.RoundTrip(clone)
}
