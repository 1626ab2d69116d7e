package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/reliefbridge/relief-ui-api/internal/domain/auth"
	apperrors "github.com/reliefbridge/relief-ui-api/internal/errors"
	"github.com/reliefbridge/relief-ui-api/internal/mocks"
	mockauth "github.com/reliefbridge/relief-ui-api/internal/mocks/auth"
)

func newTestStore(persisted *mockauth.MemoryIdentityStore) *Store {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(persisted, logger)
}

func TestSetIdentity_PersistsAndAuthenticates(t *testing.T) {
	persisted := mockauth.NewMemoryIdentityStore()
	store := newTestStore(persisted)
	ctx := context.Background()

	err := store.SetIdentity(ctx, LoginPayload{
		UserID:   "user-1",
		Username: "alice",
		Role:     domainauth.RoleDonor,
	})
	require.NoError(t, err)

	assert.True(t, store.IsAuthenticated())
	assert.Equal(t, domainauth.RoleDonor, store.Role())
	assert.True(t, persisted.Present())

	id, ok, err := persisted.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "user-1", id.UserID)
	assert.Equal(t, "alice", id.Username)
}

func TestSetIdentity_RejectsInvalidPayloads(t *testing.T) {
	tests := []struct {
		name    string
		payload LoginPayload
	}{
		{"missing user ID", LoginPayload{Username: "alice", Role: domainauth.RoleDonor}},
		{"missing username", LoginPayload{UserID: "user-1", Role: domainauth.RoleDonor}},
		{"missing role", LoginPayload{UserID: "user-1", Username: "alice"}},
		{"unknown role", LoginPayload{UserID: "user-1", Username: "alice", Role: "SuperAdmin"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			persisted := mockauth.NewMemoryIdentityStore()
			store := newTestStore(persisted)

			err := store.SetIdentity(context.Background(), tt.payload)
			require.Error(t, err)
			assert.Equal(t, apperrors.ErrCodeValidation, apperrors.CodeOf(err))

			// Nothing changed on either side.
			assert.False(t, store.IsAuthenticated())
			assert.False(t, persisted.Present())
		})
	}
}

func TestSetIdentity_PersistFailureLeavesSessionIntact(t *testing.T) {
	persisted := mockauth.NewMemoryIdentityStore()
	store := newTestStore(persisted)
	ctx := context.Background()

	require.NoError(t, store.SetIdentity(ctx, LoginPayload{
		UserID: "user-1", Username: "alice", Role: domainauth.RoleDonor,
	}))

	persisted.SaveErr = errors.New("medium unavailable")
	err := store.SetIdentity(ctx, LoginPayload{
		UserID: "user-2", Username: "bob", Role: domainauth.RoleRecipient,
	})
	require.Error(t, err)

	// Prior session and prior record both survive the failed write.
	assert.Equal(t, "user-1", store.Session().Identity.UserID)
	id, ok, loadErr := persisted.Load(ctx)
	require.NoError(t, loadErr)
	require.True(t, ok)
	assert.Equal(t, "user-1", id.UserID)
}

func TestSetIdentity_InvalidPayloadNeverTouchesPersistence(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No Save expectation: a rejected payload must not reach the medium.
	persisted := mocks.NewMockIdentityStore(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := New(persisted, logger)

	err := store.SetIdentity(context.Background(), LoginPayload{
		UserID: "user-1", Username: "alice", Role: "SuperAdmin",
	})
	require.Error(t, err)
}

func TestSetIdentity_SavesTheCompleteIdentity(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	persisted := mocks.NewMockIdentityStore(ctrl)
	persisted.EXPECT().Save(gomock.Any(), domainauth.Identity{
		UserID:   "user-1",
		Username: "alice",
		Role:     domainauth.RoleDonor,
	}).Return(nil)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := New(persisted, logger)

	require.NoError(t, store.SetIdentity(context.Background(), LoginPayload{
		UserID: "user-1", Username: "alice", Role: domainauth.RoleDonor,
	}))
	assert.True(t, store.IsAuthenticated())
}

func TestLoadFromPersisted_RoundTrip(t *testing.T) {
	persisted := mockauth.NewMemoryIdentityStore()
	ctx := context.Background()

	first := newTestStore(persisted)
	require.NoError(t, first.SetIdentity(ctx, LoginPayload{
		UserID: "user-1", Username: "alice", Role: domainauth.RoleRecipient,
	}))

	// A fresh store over the same medium observes the same identity, the
	// way a page reload does.
	second := newTestStore(persisted)
	second.LoadFromPersisted(ctx)

	assert.Equal(t, first.Session(), second.Session())
	assert.True(t, second.IsRecipient())
}

func TestLoadFromPersisted_Idempotent(t *testing.T) {
	persisted := mockauth.NewMemoryIdentityStore()
	persisted.Seed(domainauth.Identity{UserID: "user-1", Username: "alice", Role: domainauth.RoleAdmin})

	store := newTestStore(persisted)
	store.LoadFromPersisted(context.Background())
	want := store.Session()

	store.LoadFromPersisted(context.Background())
	store.LoadFromPersisted(context.Background())
	assert.Equal(t, want, store.Session())
}

func TestLoadFromPersisted_AbsentRecordClearsSession(t *testing.T) {
	persisted := mockauth.NewMemoryIdentityStore()
	store := newTestStore(persisted)
	ctx := context.Background()

	require.NoError(t, store.SetIdentity(ctx, LoginPayload{
		UserID: "user-1", Username: "alice", Role: domainauth.RoleDonor,
	}))

	// Record removed out of band, e.g. logout in another tab.
	require.NoError(t, persisted.Clear(ctx))

	store.LoadFromPersisted(ctx)
	assert.False(t, store.IsAuthenticated())
	assert.True(t, store.Session().Identity.IsZero())
}

func TestLoadFromPersisted_IncompleteRecordForcesLogout(t *testing.T) {
	tests := []struct {
		name string
		id   domainauth.Identity
	}{
		{"missing user ID", domainauth.Identity{Username: "alice", Role: domainauth.RoleDonor}},
		{"unknown role", domainauth.Identity{UserID: "user-1", Role: "Moderator"}},
		{"empty role", domainauth.Identity{UserID: "user-1", Username: "alice"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			persisted := mockauth.NewMemoryIdentityStore()
			persisted.Seed(tt.id)

			store := newTestStore(persisted)
			store.LoadFromPersisted(context.Background())

			assert.False(t, store.IsAuthenticated())
			// The bad record is removed, not left to fail again.
			assert.False(t, persisted.Present())
		})
	}
}

func TestLoadFromPersisted_InfraErrorRecoversToLoggedOut(t *testing.T) {
	persisted := mockauth.NewMemoryIdentityStore()
	persisted.LoadErr = errors.New("connection refused")

	store := newTestStore(persisted)
	store.LoadFromPersisted(context.Background())

	assert.False(t, store.IsAuthenticated())
}

func TestLogout_ClearsSessionAndRecord(t *testing.T) {
	persisted := mockauth.NewMemoryIdentityStore()
	store := newTestStore(persisted)
	ctx := context.Background()

	require.NoError(t, store.SetIdentity(ctx, LoginPayload{
		UserID: "user-1", Username: "alice", Role: domainauth.RoleAdmin,
	}))

	store.Logout(ctx)
	assert.False(t, store.IsAuthenticated())
	assert.False(t, persisted.Present())
}

func TestLogout_NoOpWhenLoggedOut(t *testing.T) {
	persisted := mockauth.NewMemoryIdentityStore()
	store := newTestStore(persisted)

	store.Logout(context.Background())
	store.Logout(context.Background())

	assert.False(t, store.IsAuthenticated())
	assert.Equal(t, 2, persisted.ClearCalls)
}

func TestCapabilityQueries(t *testing.T) {
	persisted := mockauth.NewMemoryIdentityStore()
	store := newTestStore(persisted)
	ctx := context.Background()

	// Unauthenticated store grants nothing.
	assert.False(t, store.CanView())
	assert.False(t, store.CanEdit())

	require.NoError(t, store.SetIdentity(ctx, LoginPayload{
		UserID: "user-1", Username: "obs", Role: domainauth.RoleAdminObserver,
	}))

	assert.True(t, store.IsAdminObserver())
	assert.True(t, store.CanView())
	assert.False(t, store.CanEdit())
	assert.False(t, store.CanManageEvents())

	require.NoError(t, store.SetIdentity(ctx, LoginPayload{
		UserID: "user-2", Username: "admin", Role: domainauth.RoleAdmin,
	}))

	assert.True(t, store.IsAdmin())
	assert.True(t, store.CanManageEvents())
	assert.True(t, store.CanCreateMatches())
}
