package httpx

import (
	domainauth "github.com/reliefbridge/relief-ui-api/internal/domain/auth"
)

// sessionView is the read-only session surface exposed to UI components:
// role, the authentication flag, and the named capability booleans. Raw
// cookie content is never exposed.
type sessionView struct {
	IsAuthenticated bool   `json:"is_authenticated"`
	Username        string `json:"username,omitempty"`
	Role            string `json:"role,omitempty"`

	IsAdmin         bool `json:"is_admin"`
	IsAdminObserver bool `json:"is_admin_observer"`
	IsDonor         bool `json:"is_donor"`
	IsRecipient     bool `json:"is_recipient"`

	CanCreateRequests bool `json:"can_create_requests"`
	CanManageEvents   bool `json:"can_manage_events"`
	CanManageItems    bool `json:"can_manage_items"`
	CanCreateMatches  bool `json:"can_create_matches"`
	CanUpdatePledges  bool `json:"can_update_pledges"`
	CanEdit           bool `json:"can_edit"`
	CanView           bool `json:"can_view"`
}

func newSessionView(s domainauth.Session) sessionView {
	role := s.Role()
	return sessionView{
		IsAuthenticated: s.IsAuthenticated(),
		Username:        s.Identity.Username,
		Role:            string(role),

		IsAdmin:         role == domainauth.RoleAdmin,
		IsAdminObserver: role == domainauth.RoleAdminObserver,
		IsDonor:         role == domainauth.RoleDonor,
		IsRecipient:     role == domainauth.RoleRecipient,

		CanCreateRequests: domainauth.HasCapability(role, domainauth.CapCreateRequests),
		CanManageEvents:   domainauth.HasCapability(role, domainauth.CapManageEvents),
		CanManageItems:    domainauth.HasCapability(role, domainauth.CapManageItems),
		CanCreateMatches:  domainauth.HasCapability(role, domainauth.CapCreateMatches),
		CanUpdatePledges:  domainauth.HasCapability(role, domainauth.CapUpdatePledges),
		CanEdit:           domainauth.HasCapability(role, domainauth.CapEdit),
		CanView:           domainauth.HasCapability(role, domainauth.CapView),
	}
}
