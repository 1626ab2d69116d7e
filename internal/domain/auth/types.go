package auth

// Package auth contains domain-level types for identity, sessions, and
// role-based permissions. It is pure and free of framework/adapter concerns.

// Role represents an application's authorization role.
// Keep string form for easy persistence and cookies; the wire values match
// the role strings issued by the account API.
// Valid values are defined as constants below.
type Role string

const (
	RoleAdmin         Role = "Admin"
	RoleAdminObserver Role = "Admin Observer"
	RoleDonor         Role = "Donor"
	RoleRecipient     Role = "Recipient"
)

// Roles lists every defined role. Permission tables are checked exhaustively
// against this slice in tests.
func Roles() []Role {
	return []Role{RoleAdmin, RoleAdminObserver, RoleDonor, RoleRecipient}
}

// Valid reports whether r is one of the defined roles. The unauthenticated
// state is represented by an empty Identity, never by a role value, so the
// empty string is not valid.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleAdminObserver, RoleDonor, RoleRecipient:
		return true
	default:
		return false
	}
}

// Identity is the minimal principal the application tracks: who logged in and
// as what role. A zero Identity means unauthenticated.
type Identity struct {
	UserID   string
	Username string
	Role     Role
}

// IsZero reports whether the identity carries no principal at all.
func (i Identity) IsZero() bool {
	return i.UserID == "" && i.Username == "" && i.Role == ""
}

// Complete reports whether the identity satisfies the session invariant:
// a user id is present and the role is one of the defined roles. A role
// without a user id, or a user id with an unknown role, is incomplete and
// must be treated as logged out wherever it is observed.
func (i Identity) Complete() bool {
	return i.UserID != "" && i.Role.Valid()
}

// Session wraps the current identity. It is owned by the session store and
// mutated only through the store's operations.
type Session struct {
	Identity Identity
}

// IsAuthenticated is true iff the identity is complete: a user id is present
// and the role is in the enumeration. Partial identities never count as
// authenticated.
func (s Session) IsAuthenticated() bool {
	return s.Identity.Complete()
}

// Role returns the session's role, or the empty string when unauthenticated.
func (s Session) Role() Role {
	return s.Identity.Role
}
