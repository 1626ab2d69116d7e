package ports

// Package ports defines interfaces (hexagonal ports) for session persistence
// and account operations. Implementations live in internal/adapters and
// internal/data; orchestration in internal/service and internal/session.

import (
	"context"
	"time"

	"github.com/reliefbridge/relief-ui-api/internal/domain/auth"
	"github.com/reliefbridge/relief-ui-api/internal/domain/model"
)

// CookieJar abstracts the browser cookie surface the session layer needs:
// one named value with an expiry. The HTTP layer adapts a request/response
// pair to this; tests use an in-memory jar.
type CookieJar interface {
	// Get returns the named cookie value and whether it is present.
	Get(name string) (string, bool)

	// Set writes the named cookie value with the given expiry. The write is
	// atomic: it either lands or the prior value stays.
	Set(name, value string, expires time.Time)

	// Delete removes the named cookie. Deleting an absent cookie is a no-op.
	Delete(name string)
}

// IdentityStore is the durable representation of the current identity across
// reloads. Load returns ok=false for an absent or undecodable record; it is
// the caller's contract that ok=false is treated as logged out. Save replaces
// the record with a fresh expiry; Clear removes it.
type IdentityStore interface {
	Load(ctx context.Context) (auth.Identity, bool, error)
	Save(ctx context.Context, id auth.Identity) error
	Clear(ctx context.Context) error
}

// UserRepository persists application accounts.
type UserRepository interface {
	// FindByUsername returns the account for the username or a NotFound
	// AppError.
	FindByUsername(ctx context.Context, username string) (*model.User, error)

	// Create inserts a new account. Duplicate usernames surface as a
	// Conflict AppError.
	Create(ctx context.Context, req *model.CreateUserRequest) (*model.User, error)

	// UpdatePassword replaces the stored password hash for the user.
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

// PasswordHasher hashes and verifies account passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare returns nil when the password matches the hash.
	Compare(hash, password string) error
}
