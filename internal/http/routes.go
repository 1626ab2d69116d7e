package httpx

import (
	"log/slog"
	"net/http"

	"github.com/reliefbridge/relief-ui-api/internal/adapters/cookie"
	domainauth "github.com/reliefbridge/relief-ui-api/internal/domain/auth"
	apperrors "github.com/reliefbridge/relief-ui-api/internal/errors"
	"github.com/reliefbridge/relief-ui-api/internal/guard"
	"github.com/reliefbridge/relief-ui-api/internal/ports"
)

// RouteDef is one entry of the application's page inventory: a name, the path
// the page is served under, and the access requirement the navigation guard
// enforces. The table is fixed at startup; the guard never derives access
// rules anywhere else.
type RouteDef struct {
	Name        string
	Path        string
	Requirement domainauth.RouteRequirement
}

// RouteTable returns the full page inventory. A route without AllowedRoles is
// reachable by any authenticated role; AllowedRoles are always declared
// explicitly and exhaustively, never inferred from role name similarity.
func RouteTable() []RouteDef {
	adminOnly := []domainauth.Role{domainauth.RoleAdmin}
	adminAndObserver := []domainauth.Role{domainauth.RoleAdmin, domainauth.RoleAdminObserver}
	donorAndAdmin := []domainauth.Role{domainauth.RoleDonor, domainauth.RoleAdmin}

	return []RouteDef{
		{Name: guard.RouteLogin, Path: "/"},
		{Name: guard.RouteRegister, Path: "/register"},
		{Name: guard.RouteResetPassword, Path: "/reset-password"},

		{Name: guard.RouteAdmin, Path: "/admin", Requirement: requireRoles(adminAndObserver)},
		{Name: "CreateEvent", Path: "/admin/create-event", Requirement: requireRoles(adminOnly)},
		{Name: "ManageItems", Path: "/admin/manage-items", Requirement: requireRoles(adminOnly)},
		{Name: "ViewEvents", Path: "/admin/view-events", Requirement: requireRoles(adminAndObserver)},

		{Name: guard.RouteDonor, Path: "/donor", Requirement: requireRoles([]domainauth.Role{domainauth.RoleDonor})},
		{Name: guard.RouteRecipient, Path: "/recipient", Requirement: requireRoles([]domainauth.Role{domainauth.RoleRecipient})},

		{Name: "Pledges", Path: "/pledge-view", Requirement: requireRoles(donorAndAdmin)},
		{Name: "CreatePledge", Path: "/create-pledge", Requirement: requireRoles([]domainauth.Role{domainauth.RoleDonor})},
		{Name: "RespondToRequests", Path: "/respond-to-requests", Requirement: requireRoles(donorAndAdmin)},
		{Name: "RespondPage", Path: "/respond/{id}", Requirement: requireRoles(donorAndAdmin)},
		{Name: "CreateRequest", Path: "/create-request", Requirement: requireRoles(
			[]domainauth.Role{domainauth.RoleRecipient, domainauth.RoleDonor, domainauth.RoleAdmin})},
		{Name: "CreateMatch", Path: "/create-match/{id}", Requirement: requireRoles(adminOnly)},
		{Name: "AutoMatch", Path: "/auto-match/{id}", Requirement: requireRoles(adminOnly)},

		// Any authenticated role may enter the read-only listing pages.
		{Name: "MatchesPage", Path: "/match-view", Requirement: domainauth.RouteRequirement{RequiresAuth: true}},
		{Name: "RequestPage", Path: "/request-view", Requirement: domainauth.RouteRequirement{RequiresAuth: true}},
		{Name: "ShippingView", Path: "/shipping/{id}", Requirement: domainauth.RouteRequirement{RequiresAuth: true}},
	}
}

func requireRoles(roles []domainauth.Role) domainauth.RouteRequirement {
	return domainauth.RouteRequirement{RequiresAuth: true, AllowedRoles: roles}
}

// PathFor resolves a route name to its path, falling back to the login path
// for unknown names so a defensive redirect always lands somewhere safe.
func PathFor(name string) string {
	for _, rt := range RouteTable() {
		if rt.Name == name {
			return rt.Path
		}
	}
	return "/"
}

// RouterServices holds the dependencies of the HTTP router.
type RouterServices struct {
	Auth         AuthServiceInterface
	Codec        cookie.Codec
	CookieDomain string
	// RedisIdentities, when set, serves requests carrying the client id
	// header from the Redis persistence medium instead of the cookie.
	RedisIdentities func(clientID string) ports.IdentityStore
	Logger          *slog.Logger
}

// NewRouter creates and configures the HTTP router: the auth endpoints, the
// session endpoint, and every page route wrapped in the navigation guard.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	sessions := sessionFactory{
		Codec:           services.Codec,
		CookieDomain:    services.CookieDomain,
		RedisIdentities: services.RedisIdentities,
		Logger:          logger,
	}
	authHandlers := &AuthHandlers{Svc: services.Auth, Sessions: sessions, Logger: logger}

	mux.Handle("POST /login", http.HandlerFunc(authHandlers.Login))
	mux.Handle("POST /logout", http.HandlerFunc(authHandlers.Logout))
	mux.Handle("GET /auth/status", http.HandlerFunc(authHandlers.Status))
	mux.Handle("POST /requestNewAccount", http.HandlerFunc(authHandlers.RequestAccount))
	mux.Handle("POST /resetPassword", http.HandlerFunc(authHandlers.ChangePassword))
	mux.Handle("POST /resetForgottenPassword", http.HandlerFunc(authHandlers.ResetForgottenPassword))

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	// Page routes, each intercepted by the navigation guard.
	g := guard.New(logger)
	mux.Handle("GET /session/navigate", navigateHandler(g, sessions))
	for _, rt := range RouteTable() {
		pattern := rt.Path
		if pattern == "/" {
			// Match the root exactly; "/" alone would swallow every path.
			pattern = "/{$}"
		}
		mux.Handle("GET "+pattern, NavigationGuard(g, sessions, rt)(pageHandler(rt)))
	}

	h := Logging(logger)(mux)
	return Recover(logger)(h)
}

// pageHandler serves the route descriptor and the caller's session view.
// Rendering is the page shell's concern; the server only decides access and
// exposes the read-only session queries.
func pageHandler(rt RouteDef) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, _ := GetSessionFromContext(r.Context())
		WriteJSON(w, http.StatusOK, map[string]any{
			"route":   rt.Name,
			"session": newSessionView(sess),
		})
	})
}

// navigateHandler evaluates the guard for a named route without serving the
// page, so a shell can ask "may I go there" before transitioning. Unknown
// route names are a 404, not a redirect.
func navigateHandler(g *guard.Guard, sessions sessionFactory) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("to")
		var target *RouteDef
		for _, rt := range RouteTable() {
			if rt.Name == name {
				target = &rt
				break
			}
		}
		if target == nil {
			WriteAppError(w, apperrors.NotFoundf("no route named %q", name))
			return
		}

		store := sessions.newStore(w, r)
		decision := g.Evaluate(r.Context(), store, guard.Route{Name: target.Name, Requirement: target.Requirement})
		resp := map[string]any{"allowed": decision.Allowed}
		if !decision.Allowed {
			resp["redirect_to"] = decision.RedirectTo
			resp["redirect_path"] = PathFor(decision.RedirectTo)
		}
		WriteJSON(w, http.StatusOK, resp)
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
