package httpx

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/reliefbridge/relief-ui-api/internal/adapters/cookie"
	"github.com/reliefbridge/relief-ui-api/internal/guard"
	"github.com/reliefbridge/relief-ui-api/internal/ports"
	"github.com/reliefbridge/relief-ui-api/internal/session"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.InfoContext(r.Context(), "http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.ErrorContext(r.Context(), "panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIDHeader carries the stable device identifier used by shells without
// a cookie jar when Redis identity persistence is enabled.
const ClientIDHeader = "X-Client-Id"

// sessionFactory constructs a per-request session store over the request's
// persistence medium: the cookie jar by default, or the Redis record when a
// Redis identity factory is configured and the request names a client id.
// Each guard evaluation gets its own store, so no locking is needed and
// capability queries never touch the medium.
type sessionFactory struct {
	Codec           cookie.Codec
	CookieDomain    string
	RedisIdentities func(clientID string) ports.IdentityStore
	Logger          *slog.Logger
}

func (f sessionFactory) newStore(w http.ResponseWriter, r *http.Request) *session.Store {
	if f.RedisIdentities != nil {
		if clientID := r.Header.Get(ClientIDHeader); clientID != "" {
			return session.New(f.RedisIdentities(clientID), f.Logger)
		}
	}
	jar := newRequestJar(w, r, f.CookieDomain)
	return session.New(cookie.NewIdentityStore(jar, f.Codec), f.Logger)
}

// NavigationGuard intercepts a page route: it rehydrates the session from the
// identity cookie, evaluates the route's requirement, and either serves the
// page with the session in context or redirects to the route the guard chose.
func NavigationGuard(g *guard.Guard, sessions sessionFactory, rt RouteDef) func(http.Handler) http.Handler {
	target := guard.Route{Name: rt.Name, Requirement: rt.Requirement}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			store := sessions.newStore(w, r)
			decision := g.Evaluate(r.Context(), store, target)
			if !decision.Allowed {
				http.Redirect(w, r, PathFor(decision.RedirectTo), http.StatusSeeOther)
				return
			}
			ctx := SetSessionInContext(r.Context(), store.Session())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
