package cookie

import (
	"context"
	"fmt"
	"time"

	"github.com/reliefbridge/relief-ui-api/internal/domain/auth"
	"github.com/reliefbridge/relief-ui-api/internal/ports"
)

// IdentityStore persists the identity in the `authUser` cookie through a
// CookieJar. Load reports ok=false for an absent or undecodable cookie; the
// session store then clears it.
type IdentityStore struct {
	jar   ports.CookieJar
	codec Codec
	now   func() time.Time
}

// NewIdentityStore creates a cookie-backed identity store over the jar.
func NewIdentityStore(jar ports.CookieJar, codec Codec) *IdentityStore {
	return &IdentityStore{jar: jar, codec: codec, now: time.Now}
}

// NewIdentityStoreWithClock creates a store with a custom clock for tests.
func NewIdentityStoreWithClock(jar ports.CookieJar, codec Codec, now func() time.Time) *IdentityStore {
	return &IdentityStore{jar: jar, codec: codec, now: now}
}

var _ ports.IdentityStore = (*IdentityStore)(nil)

// Load reads and decodes the identity cookie. The read is local and
// non-blocking; ctx is accepted for interface symmetry with remote media.
func (s *IdentityStore) Load(_ context.Context) (auth.Identity, bool, error) {
	raw, ok := s.jar.Get(Name)
	if !ok {
		return auth.Identity{}, false, nil
	}
	id, ok := s.codec.Decode(raw)
	if !ok {
		return auth.Identity{}, false, nil
	}
	return id, true, nil
}

// Save encodes the identity and writes the cookie with a fresh expiry. The
// jar write is atomic, so an encode failure leaves the prior cookie untouched.
func (s *IdentityStore) Save(_ context.Context, id auth.Identity) error {
	value, err := s.codec.Encode(id)
	if err != nil {
		return fmt.Errorf("encode identity cookie: %w", err)
	}
	s.jar.Set(Name, value, s.now().Add(s.codec.Lifetime()))
	return nil
}

// Clear removes the identity cookie. Clearing an absent cookie is a no-op.
func (s *IdentityStore) Clear(_ context.Context) error {
	s.jar.Delete(Name)
	return nil
}
