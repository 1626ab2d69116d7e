package guard

// Package guard implements the navigation guard: the interception point
// evaluated before every route transition. Each evaluation refreshes the
// session from its persisted record, then resolves to exactly one terminal
// decision — allow or redirect.

import (
	"context"
	"log/slog"

	"github.com/reliefbridge/relief-ui-api/internal/domain/auth"
	"github.com/reliefbridge/relief-ui-api/internal/session"
)

// Route names referenced by the guard itself: the public-only pages and the
// per-role landing pages. The full route inventory lives with the HTTP layer.
const (
	RouteLogin         = "Login"
	RouteRegister      = "Register"
	RouteResetPassword = "ResetPassword"
	RouteAdmin         = "Admin"
	RouteDonor         = "Donor"
	RouteRecipient     = "Recipient"
)

// publicOnly are the routes an authenticated user must never be shown.
var publicOnly = map[string]bool{
	RouteLogin:         true,
	RouteRegister:      true,
	RouteResetPassword: true,
}

// Route pairs a route name with its access requirement.
type Route struct {
	Name        string
	Requirement auth.RouteRequirement
}

// Decision is the terminal outcome of one evaluation. When Allowed is false,
// RedirectTo names the route to transition to instead; that redirect starts a
// new evaluation, which terminates because the login and landing routes carry
// no role restrictions that could bounce again.
type Decision struct {
	Allowed    bool
	RedirectTo string
}

func allow() Decision               { return Decision{Allowed: true} }
func redirect(name string) Decision { return Decision{RedirectTo: name} }

// Guard evaluates route transitions against the session store and the static
// permission tables.
type Guard struct {
	logger *slog.Logger
}

// New constructs a Guard.
func New(logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{logger: logger}
}

// Evaluate runs the transition checks for the target route. The checks are
// ordered and the first match wins: an unauthenticated user is sent to login,
// a wrong-role user to their own landing page, and an authenticated user
// hitting a public-only page to their landing page. Anything else passes.
func (g *Guard) Evaluate(ctx context.Context, store *session.Store, to Route) Decision {
	// Refresh unconditionally so an external cookie change (another tab
	// logging out, expiry) is observed without a reload.
	store.LoadFromPersisted(ctx)

	if to.Requirement.RequiresAuth {
		if !store.IsAuthenticated() {
			return redirect(RouteLogin)
		}
		if !auth.CanAccess(store.Role(), to.Requirement) {
			return redirect(g.landingFor(ctx, store.Role()))
		}
		return allow()
	}

	if store.IsAuthenticated() && publicOnly[to.Name] {
		return redirect(g.landingFor(ctx, store.Role()))
	}

	return allow()
}

// landingFor picks the role's default landing route by fixed priority. The
// fallback for an unrecognized role should be unreachable given the session
// invariant; reaching it means the invariant was violated upstream, so it is
// logged as a data-integrity signal.
func (g *Guard) landingFor(ctx context.Context, role auth.Role) string {
	switch role {
	case auth.RoleAdmin, auth.RoleAdminObserver:
		return RouteAdmin
	case auth.RoleDonor:
		return RouteDonor
	case auth.RoleRecipient:
		return RouteRecipient
	default:
		g.logger.ErrorContext(ctx, "authenticated session with unrecognized role, invariant violated upstream",
			"role", string(role))
		return RouteLogin
	}
}
