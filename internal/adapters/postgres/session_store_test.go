package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/attractions-admin/internal/domain/auth"
	"github.com/target/attractions-admin/internal/ports"
	"github.com/target/attractions-admin/internal/testutil"
)

func testSession() domainauth.Session {
	return domainauth.Session{
		Token: "tok-123",
		User:  &domainauth.User{ID: "7", DisplayName: "Uma User", Email: "uma@example.com", Role: domainauth.RoleUser},
	}
}

func TestSessionStore_RoundTripAndClear(t *testing.T) {
	db := testutil.SetupEphemeralSchemaDB(t)
	store := NewSessionStore(db, SessionStoreOptions{})
	ctx := context.Background()

	_, err := store.Get(ctx, "scope-1")
	require.ErrorIs(t, err, ports.ErrSessionNotFound)

	require.NoError(t, store.Set(ctx, "scope-1", testSession()))
	got, err := store.Get(ctx, "scope-1")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", got.Token)
	assert.Equal(t, "uma@example.com", got.User.Email)

	// overwrite keeps a single row
	updated := testSession()
	updated.Token = "tok-456"
	require.NoError(t, store.Set(ctx, "scope-1", updated))
	var count int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT count(*) FROM dashboard_sessions`).Scan(&count))
	assert.Equal(t, 1, count)

	require.NoError(t, store.Clear(ctx, "scope-1"))
	require.NoError(t, store.Clear(ctx, "scope-1"))
	_, err = store.Get(ctx, "scope-1")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)
}

func TestSessionStore_RejectsIncomplete(t *testing.T) {
	db := testutil.SetupEphemeralSchemaDB(t)
	store := NewSessionStore(db, SessionStoreOptions{})

	err := store.Set(context.Background(), "scope-1", domainauth.Session{Token: "tok"})
	assert.ErrorIs(t, err, ports.ErrIncompleteSession)
}

func TestSessionStore_ExpiryAndPurge(t *testing.T) {
	db := testutil.SetupEphemeralSchemaDB(t)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewSessionStore(db, SessionStoreOptions{TTL: time.Hour, Now: func() time.Time { return now }})
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "a", testSession()))
	scopes, err := store.Scopes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, scopes)

	now = now.Add(2 * time.Hour)
	_, err = store.Get(ctx, "a")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)

	n, err := store.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
