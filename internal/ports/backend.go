package ports

import (
	"context"

	"github.com/target/attractions-admin/internal/domain/model"
)

// UserBackend is the user-management part of the attractions REST backend.
// Every call is made on behalf of the session whose token is carried in ctx.
type UserBackend interface {
	ListUsers(ctx context.Context) ([]model.DashboardUser, error)
	ActivateUser(ctx context.Context, id string) error
	DeleteUser(ctx context.Context, id string) error
	BulkUpdateUsers(ctx context.Context, update model.BulkUserUpdate) error
}

// AttractionBackend is the attractions part of the REST backend.
type AttractionBackend interface {
	GetAttraction(ctx context.Context, id string) (model.Attraction, error)
	CreateAttraction(ctx context.Context, a model.Attraction) (model.Attraction, error)
	UpdateAttraction(ctx context.Context, a model.Attraction) (model.Attraction, error)
}

type accessTokenKey struct{}

// WithAccessToken returns a context carrying the access token that outgoing
// backend requests are authorized with.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, accessTokenKey{}, token)
}

// AccessTokenFromContext returns the access token stored by WithAccessToken.
func AccessTokenFromContext(ctx context.Context) (string, bool) {
	tok, ok := ctx.Value(accessTokenKey{}).(string)
	return tok, ok && tok != ""
}
