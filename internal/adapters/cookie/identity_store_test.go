package cookie

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reliefbridge/relief-ui-api/internal/domain/auth"
	mockauth "github.com/reliefbridge/relief-ui-api/internal/mocks/auth"
)

func TestIdentityStore_SaveLoadClear(t *testing.T) {
	jar := mockauth.NewMemoryJar()
	store := NewIdentityStore(jar, Codec{})
	ctx := context.Background()

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

func TestIdentityStore_SaveSetsExpiryFromLifetime(t *testing.T) {
	jar := mockauth.NewMemoryJar()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewIdentityStoreWithClock(jar, Codec{TTL: 30 * time.Minute}, func() time.Time { return base })

	require.NoError(t, store.Save(context.Background(), auth.Identity{
		UserID: "user-1", Role: auth.RoleAdmin,
	}))

	exp, ok := jar.Expiry(Name)
	require.True(t, ok)
	assert.Equal(t, base.Add(30*time.Minute), exp)
}

func TestIdentityStore_ExpiredCookieReadsAsAbsent(t *testing.T) {
	jar := mockauth.NewMemoryJar()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	jar.Now = func() time.Time { return now }
	store := NewIdentityStoreWithClock(jar, Codec{}, func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, auth.Identity{UserID: "user-1", Role: auth.RoleDonor}))

	// The browser drops the cookie once its expiry passes.
	now = now.Add(DefaultTTL + time.Minute)

	_, ok, err := store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIdentityStore_UndecodableCookieReadsAsAbsent(t *testing.T) {
	jar := mockauth.NewMemoryJar()
	jar.Set(Name, "not-json", time.Now().Add(time.Hour))
	store := NewIdentityStore(jar, Codec{})

	_, ok, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIdentityStore_ClearAbsentCookieIsNoOp(t *testing.T) {
	store := NewIdentityStore(mockauth.NewMemoryJar(), Codec{})
	assert.NoError(t, store.Clear(context.Background()))
	assert.NoError(t, store.Clear(context.Background()))
}
