package session

// Package session holds the single source of truth for "who is using the app
// right now". A Store is constructed per guard evaluation over the request's
// persisted identity medium and handed down explicitly; there is no ambient
// global state.

import (
	"context"
	"log/slog"

	"github.com/reliefbridge/relief-ui-api/internal/domain/auth"
	apperrors "github.com/reliefbridge/relief-ui-api/internal/errors"
	"github.com/reliefbridge/relief-ui-api/internal/ports"
)

// LoginPayload is the raw identity payload returned by a successful login
// call. Field names follow the account API response.
type LoginPayload struct {
	UserID   string    `json:"user_id"`
	Username string    `json:"username"`
	Role     auth.Role `json:"role"`
}

// Store owns the in-memory Session and synchronizes it with the persisted
// identity record. Persistence I/O happens only inside SetIdentity,
// LoadFromPersisted, and Logout; every other method is a pure read.
type Store struct {
	session   auth.Session
	persisted ports.IdentityStore
	logger    *slog.Logger
}

// New constructs a Store over the given persistence medium. The store starts
// empty; call LoadFromPersisted to rehydrate.
func New(persisted ports.IdentityStore, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{persisted: persisted, logger: logger}
}

// SetIdentity accepts a raw login payload and promotes it to the current
// session. It fails without any state change when a field is missing or the
// role is unknown. On success the persisted record is written first; only a
// successful write mutates the in-memory session, so a persistence failure
// leaves both the prior record and the prior session intact.
func (s *Store) SetIdentity(ctx context.Context, p LoginPayload) error {
	if p.UserID == "" || p.Username == "" || p.Role == "" {
		return apperrors.Validation("login payload is missing required fields")
	}
	if !p.Role.Valid() {
		return apperrors.Validationf("unknown role %q", p.Role)
	}

	id := auth.Identity{UserID: p.UserID, Username: p.Username, Role: p.Role}
	if err := s.persisted.Save(ctx, id); err != nil {
		return apperrors.Internal("persist identity", err)
	}

	s.session = auth.Session{Identity: id}
	return nil
}

// LoadFromPersisted overwrites the in-memory session from the persisted
// record. An absent, undecodable, or incomplete record is treated as logout:
// the session is cleared and the record removed. It never returns an error to
// the caller and is idempotent while the record is unchanged.
func (s *Store) LoadFromPersisted(ctx context.Context) {
	id, ok, err := s.persisted.Load(ctx)
	if err != nil {
		// Infrastructure failure reads as "no usable identity". Recover to
		// logged out rather than surfacing an error mid-navigation.
		s.logger.WarnContext(ctx, "load persisted identity failed, treating as logged out", "error", err)
		s.Logout(ctx)
		return
	}
	if !ok {
		s.Logout(ctx)
		return
	}
	if !id.Complete() {
		// Stale cookie from a prior deployment or a partial write. The
		// invariant forbids partially-populated sessions.
		s.logger.WarnContext(ctx, "persisted identity violates session invariant, forcing logout",
			"has_user_id", id.UserID != "",
			"role_valid", id.Role.Valid(),
		)
		s.Logout(ctx)
		return
	}

	s.session = auth.Session{Identity: id}
}

// Logout clears the in-memory session and removes the persisted record. It is
// safe to call when already logged out.
func (s *Store) Logout(ctx context.Context) {
	s.session = auth.Session{}
	if err := s.persisted.Clear(ctx); err != nil {
		s.logger.WarnContext(ctx, "clear persisted identity failed", "error", err)
	}
}

// Session returns a copy of the current session.
func (s *Store) Session() auth.Session { return s.session }

// IsAuthenticated reports whether the current session is authenticated.
func (s *Store) IsAuthenticated() bool { return s.session.IsAuthenticated() }

// Role returns the current role, empty when unauthenticated.
func (s *Store) Role() auth.Role { return s.session.Role() }

// Role queries. Pure membership tests against the permission tables; no I/O,
// safe to call during route evaluation.

func (s *Store) IsAdmin() bool         { return s.session.Role() == auth.RoleAdmin }
func (s *Store) IsAdminObserver() bool { return s.session.Role() == auth.RoleAdminObserver }
func (s *Store) IsDonor() bool         { return s.session.Role() == auth.RoleDonor }
func (s *Store) IsRecipient() bool     { return s.session.Role() == auth.RoleRecipient }

// Capability queries, resolved against the role-capability table.

func (s *Store) CanCreateRequests() bool {
	return auth.HasCapability(s.session.Role(), auth.CapCreateRequests)
}
func (s *Store) CanManageEvents() bool {
	return auth.HasCapability(s.session.Role(), auth.CapManageEvents)
}
func (s *Store) CanManageItems() bool {
	return auth.HasCapability(s.session.Role(), auth.CapManageItems)
}
func (s *Store) CanCreateMatches() bool {
	return auth.HasCapability(s.session.Role(), auth.CapCreateMatches)
}
func (s *Store) CanUpdatePledges() bool {
	return auth.HasCapability(s.session.Role(), auth.CapUpdatePledges)
}
func (s *Store) CanEdit() bool { return auth.HasCapability(s.session.Role(), auth.CapEdit) }
func (s *Store) CanView() bool { return auth.HasCapability(s.session.Role(), auth.CapView) }
