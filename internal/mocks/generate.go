// Package mocks provides gomock implementations of the dashboard's ports.
//
// The mocks are generated with go.uber.org/mock (mockgen) and give tests a fluent API
// for setting expectations on session stores, authenticators, and the backend client.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	store := mocks.NewMockSessionStore(ctrl)
//	store.EXPECT().Get(gomock.Any(), "scope").Return(auth.Session{}, ports.ErrSessionNotFound)
package mocks

// SessionStore: Get, Set, Clear
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=session_store_mock.go github.com/target/attractions-admin/internal/ports SessionStore

// Authenticator: Authenticate
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=authenticator_mock.go github.com/target/attractions-admin/internal/ports Authenticator

// UserBackend: ListUsers, ActivateUser, DeleteUser, BulkUpdateUsers
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=user_backend_mock.go github.com/target/attractions-admin/internal/ports UserBackend

// AttractionBackend: GetAttraction, CreateAttraction, UpdateAttraction
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=attraction_backend_mock.go github.com/target/attractions-admin/internal/ports AttractionBackend
