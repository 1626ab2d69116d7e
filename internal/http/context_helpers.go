package httpx

import (
	"context"

	domainauth "github.com/reliefbridge/relief-ui-api/internal/domain/auth"
)

// sessionKey is an unexported context key type to avoid collisions across packages.
type sessionKey struct{}

// SetSessionInContext returns a child context that carries the given session.
func SetSessionInContext(ctx context.Context, session domainauth.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetSessionFromContext returns the session from context and a boolean indicating presence.
func GetSessionFromContext(ctx context.Context) (domainauth.Session, bool) {
	if session, ok := ctx.Value(sessionKey{}).(domainauth.Session); ok {
		return session, true
	}
	return domainauth.Session{}, false
}
