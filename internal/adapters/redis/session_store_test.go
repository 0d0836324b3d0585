package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/attractions-admin/internal/domain/auth"
	"github.com/target/attractions-admin/internal/testutil"
)

func testSession() domainauth.Session {
	return domainauth.Session{
		Token: "tok-123",
		User: &domainauth.User{
			ID:          "42",
			DisplayName: "Ana Admin",
			Email:       "ana@example.com",
			Role:        domainauth.RoleAdmin,
		},
	}
}

func TestSessionStore_SetAndGet(t *testing.T) {
	client, mr := testutil.SetupTestRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "scope-1", testSession()))

	got, err := store.Get(ctx, "scope-1")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", got.Token)
	require.NotNil(t, got.User)
	assert.Equal(t, "42", got.User.ID)
	assert.Equal(t, "ana@example.com", got.User.Email)
	assert.Equal(t, domainauth.RoleAdmin, got.User.Role)

	token, err := mr.Get("dashboard:scope-1:access_token")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)
	assert.True(t, mr.Exists("dashboard:scope-1:user"))
}

func TestSessionStore_GetNonExistent(t *testing.T) {
	client, _ := testutil.SetupTestRedis(t)
	store := NewSessionStore(client)

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Get(context.Background(), "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionStore_ClearRemovesBothKeys(t *testing.T) {
	client, mr := testutil.SetupTestRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "scope-1", testSession()))
	require.NoError(t, store.Clear(ctx, "scope-1"))

	assert.False(t, mr.Exists("dashboard:scope-1:access_token"))
	assert.False(t, mr.Exists("dashboard:scope-1:user"))
	_, err := store.Get(ctx, "scope-1")
	assert.ErrorIs(t, err, ErrNotFound)

	// idempotent
	require.NoError(t, store.Clear(ctx, "scope-1"))
	require.NoError(t, store.Clear(ctx, ""))
}

func TestSessionStore_TornPairIsAbsent(t *testing.T) {
	client, mr := testutil.SetupTestRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	require.NoError(t, mr.Set("dashboard:token-only:access_token", "tok"))
	_, err := store.Get(ctx, "token-only")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, mr.Set("dashboard:user-only:user", `{"id":"1","role":"Admin"}`))
	_, err = store.Get(ctx, "user-only")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionStore_UndecodableUserIsAbsent(t *testing.T) {
	client, mr := testutil.SetupTestRedis(t)
	store := NewSessionStore(client)

	require.NoError(t, mr.Set("dashboard:bad:access_token", "tok"))
	require.NoError(t, mr.Set("dashboard:bad:user", "{not json"))

	_, err := store.Get(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionStore_SetRejectsIncompleteSession(t *testing.T) {
	client, mr := testutil.SetupTestRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	err := store.Set(ctx, "scope-1", domainauth.Session{Token: "tok"})
	assert.ErrorIs(t, err, ErrIncompleteSession)

	err = store.Set(ctx, "scope-1", domainauth.Session{User: &domainauth.User{ID: "1"}})
	assert.ErrorIs(t, err, ErrIncompleteSession)

	assert.Empty(t, mr.Keys())

	assert.Error(t, store.Set(ctx, "", testSession()))
}

func TestSessionStore_TTL(t *testing.T) {
	client, mr := testutil.SetupTestRedis(t)
	store := NewSessionStore(client).WithTTL(time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "scope-1", testSession()))
	assert.Equal(t, time.Minute, mr.TTL("dashboard:scope-1:access_token"))
	assert.Equal(t, time.Minute, mr.TTL("dashboard:scope-1:user"))

	mr.FastForward(2 * time.Minute)
	_, err := store.Get(ctx, "scope-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionStore_NoTTLByDefault(t *testing.T) {
	client, mr := testutil.SetupTestRedis(t)
	store := NewSessionStore(client)

	require.NoError(t, store.Set(context.Background(), "scope-1", testSession()))
	assert.Zero(t, mr.TTL("dashboard:scope-1:access_token"))
}

func TestSessionStore_CustomPrefixAndScopes(t *testing.T) {
	client, mr := testutil.SetupTestRedis(t)
	store := NewSessionStoreWithPrefix(client, "test:")
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "a", testSession()))
	require.NoError(t, store.Set(ctx, "b", testSession()))
	assert.True(t, mr.Exists("test:a:access_token"))

	scopes, err := store.Scopes(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, scopes)
}
