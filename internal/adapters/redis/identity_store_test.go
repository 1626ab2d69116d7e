package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reliefbridge/relief-ui-api/internal/adapters/cookie"
	"github.com/reliefbridge/relief-ui-api/internal/domain/auth"
	"github.com/reliefbridge/relief-ui-api/internal/testutil"
)

func TestIdentityStore_SaveLoadClear(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	store := NewIdentityStore(client, cookie.Codec{}, "client-1")
	ctx := context.Background()
	t.Cleanup(func() { _ = store.Clear(context.Background()) })

	_, ok, err := store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	id := auth.Identity{UserID: "user-1", Username: "alice", Role: auth.RoleDonor}
	require.NoError(t, store.Save(ctx, id))

	got, ok, err := store.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, id, got)

	require.NoError(t, store.Clear(ctx))
	_, ok, err = store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIdentityStore_RecordsAreKeyedPerClient(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	codec := cookie.Codec{}
	a := NewIdentityStore(client, codec, "client-a")
	b := NewIdentityStore(client, codec, "client-b")
	ctx := context.Background()
	t.Cleanup(func() {
		_ = a.Clear(context.Background())
		_ = b.Clear(context.Background())
	})

	require.NoError(t, a.Save(ctx, auth.Identity{UserID: "user-a", Role: auth.RoleAdmin}))
	require.NoError(t, b.Save(ctx, auth.Identity{UserID: "user-b", Role: auth.RoleDonor}))

	gotA, ok, err := a.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "user-a", gotA.UserID)

	gotB, ok, err := b.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "user-b", gotB.UserID)
}

func TestIdentityStore_MalformedRecordIsDeletedOnLoad(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	store := NewIdentityStore(client, cookie.Codec{}, "client-bad")
	ctx := context.Background()
	t.Cleanup(func() { _ = store.Clear(context.Background()) })

	require.NoError(t, client.Set(ctx, "identity:client-bad", "not-json", time.Minute).Err())

	_, ok, err := store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	// The bad record is gone, not left to fail every subsequent load.
	exists, err := client.Exists(ctx, "identity:client-bad").Result()
	require.NoError(t, err)
	assert.Zero(t, exists)
}

func TestIdentityStore_SaveSetsTTL(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	store := NewIdentityStore(client, cookie.Codec{TTL: 10 * time.Minute}, "client-ttl")
	ctx := context.Background()
	t.Cleanup(func() { _ = store.Clear(context.Background()) })

	require.NoError(t, store.Save(ctx, auth.Identity{UserID: "user-1", Role: auth.RoleRecipient}))

	ttl, err := client.TTL(ctx, "identity:client-ttl").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 9*time.Minute)
	assert.LessOrEqual(t, ttl, 10*time.Minute)
}

func TestIdentityStore_EmptyClientID(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	store := NewIdentityStore(client, cookie.Codec{}, "")
	ctx := context.Background()

	_, ok, err := store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	err = store.Save(ctx, auth.Identity{UserID: "user-1", Role: auth.RoleDonor})
	assert.Error(t, err)

	assert.NoError(t, store.Clear(ctx))
}
