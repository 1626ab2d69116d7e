package model

import (
	"errors"
	"strings"
	"time"

	"github.com/reliefbridge/relief-ui-api/internal/domain/auth"
)

// User is a registered account. Accounts created through the public
// request-account flow start unapproved and cannot log in until an admin
// approves them.
type User struct {
	UserID       string    `json:"user_id"          db:"user_id"`
	Username     string    `json:"username"         db:"username"`
	PasswordHash string    `json:"-"                db:"password_hash"`
	Role         auth.Role `json:"role"             db:"role"`
	Email        string    `json:"email"            db:"email"`
	ZipCode      string    `json:"zip_code"         db:"zip_code"`
	Approved     bool      `json:"approved"         db:"approved"`
	AddressLine1 *string   `json:"address_line1,omitempty" db:"address_line1"`
	AddressLine2 *string   `json:"address_line2,omitempty" db:"address_line2"`
	City         *string   `json:"city,omitempty"   db:"city"`
	State        *string   `json:"state,omitempty"  db:"state"`
	CreatedAt    time.Time `json:"created_at"       db:"created_at"`
}

// CreateUserRequest carries a new-account submission. PasswordHash is set by
// the service after hashing; the raw password never reaches the repository.
type CreateUserRequest struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         auth.Role `json:"role"`
	Email        string    `json:"email"`
	ZipCode      string    `json:"zip_code"`
	AddressLine1 *string   `json:"address_line1,omitempty"`
	AddressLine2 *string   `json:"address_line2,omitempty"`
	City         *string   `json:"city,omitempty"`
	State        *string   `json:"state,omitempty"`
}

// Validate checks required fields for account creation. Admin roles cannot be
// requested through the public flow.
func (r *CreateUserRequest) Validate() error {
	if strings.TrimSpace(r.Username) == "" {
		return errors.New("username is required")
	}
	if r.PasswordHash == "" {
		return errors.New("password hash is required")
	}
	if !r.Role.Valid() {
		return errors.New("role must be one of the defined roles")
	}
	if r.Role == auth.RoleAdmin || r.Role == auth.RoleAdminObserver {
		return errors.New("admin roles cannot be self-requested")
	}
	return nil
}
