package auth

// Capability is a named boolean permission derived from role, decoupled from
// route names. UI components and handlers consult capabilities; the guard
// consults route requirements. Both resolve against the tables in this file
// and nowhere else.
type Capability string

const (
	CapCreateRequests Capability = "create_requests"
	CapManageEvents   Capability = "manage_events"
	CapManageItems    Capability = "manage_items"
	CapCreateMatches  Capability = "create_matches"
	CapUpdatePledges  Capability = "update_pledges"
	CapEdit           Capability = "edit"
	CapView           Capability = "view"
)

// Capabilities lists every defined capability, in declaration order.
func Capabilities() []Capability {
	return []Capability{
		CapCreateRequests,
		CapManageEvents,
		CapManageItems,
		CapCreateMatches,
		CapUpdatePledges,
		CapEdit,
		CapView,
	}
}

// roleCapabilities is the single authority for capability grants. Every role
// carries an explicit decision for every capability, "denied" included, so a
// change to any role's privileges is reviewable as a unit. Admin Observer is
// read-only: it may view admin pages and nothing else.
var roleCapabilities = map[Role]map[Capability]bool{
	RoleAdmin: {
		CapCreateRequests: true,
		CapManageEvents:   true,
		CapManageItems:    true,
		CapCreateMatches:  true,
		CapUpdatePledges:  true,
		CapEdit:           true,
		CapView:           true,
	},
	RoleAdminObserver: {
		CapCreateRequests: false,
		CapManageEvents:   false,
		CapManageItems:    false,
		CapCreateMatches:  false,
		CapUpdatePledges:  false,
		CapEdit:           false,
		CapView:           true,
	},
	RoleDonor: {
		CapCreateRequests: true,
		CapManageEvents:   false,
		CapManageItems:    false,
		CapCreateMatches:  false,
		CapUpdatePledges:  true,
		CapEdit:           false,
		CapView:           false,
	},
	RoleRecipient: {
		CapCreateRequests: true,
		CapManageEvents:   false,
		CapManageItems:    false,
		CapCreateMatches:  false,
		CapUpdatePledges:  false,
		CapEdit:           false,
		CapView:           false,
	},
}

// HasCapability reports whether the role is granted the capability. Unknown
// roles (including the empty unauthenticated role) hold no capabilities.
func HasCapability(r Role, c Capability) bool {
	caps, ok := roleCapabilities[r]
	if !ok {
		return false
	}
	return caps[c]
}

// RouteRequirement is the access rule attached to a navigable route. It is
// immutable and defined at startup alongside the route table.
type RouteRequirement struct {
	// RequiresAuth gates the route behind an authenticated session.
	RequiresAuth bool
	// AllowedRoles restricts the route to the listed roles. Empty means any
	// authenticated role may enter. Ignored when RequiresAuth is false.
	AllowedRoles []Role
}

// CanAccess decides whether a role may enter a route with the given
// requirement. Public routes admit everyone. Authenticated routes reject the
// empty role, admit any valid role when AllowedRoles is empty, and otherwise
// require membership.
func CanAccess(r Role, req RouteRequirement) bool {
	if !req.RequiresAuth {
		return true
	}
	if !r.Valid() {
		return false
	}
	if len(req.AllowedRoles) == 0 {
		return true
	}
	for _, allowed := range req.AllowedRoles {
		if r == allowed {
			return true
		}
	}
	return false
}
