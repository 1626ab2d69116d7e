package config

import (
	"fmt"
	"strings"
	"time"
)

// PersistenceMode selects the durable medium for the identity record.
type PersistenceMode string

const (
	// PersistenceCookie stores the identity in the authUser browser cookie.
	PersistenceCookie PersistenceMode = "cookie"
	// PersistenceRedis stores the identity in Redis, keyed per client, with
	// the same expiry semantics. For shells without a cookie jar.
	PersistenceRedis PersistenceMode = "redis"
)

// UnmarshalText implements encoding.TextUnmarshaler for PersistenceMode.
func (p *PersistenceMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "cookie", "redis":
		*p = PersistenceMode(v)
		return nil
	default:
		return fmt.Errorf("invalid PersistenceMode: %q (valid options: cookie, redis)", v)
	}
}

// AuthConfig groups session and authentication configuration.
type AuthConfig struct {
	// Persistence selects where the identity record lives between
	// navigations.
	Persistence PersistenceMode `env:"AUTH_PERSISTENCE" envDefault:"cookie"`

	// SessionTTL is the identity record lifetime. Kept short on purpose; a
	// record past this window reads as logged out.
	SessionTTL time.Duration `env:"AUTH_SESSION_TTL" envDefault:"1h"`

	// BcryptCost is the password hashing cost. Zero uses the bcrypt default.
	BcryptCost int `env:"AUTH_BCRYPT_COST" envDefault:"0"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.SessionTTL <= 0 {
		a.SessionTTL = time.Hour
	}
	if a.BcryptCost < 0 {
		a.BcryptCost = 0
	}
	// bcrypt rejects costs above 31; clamp rather than fail at first hash.
	if a.BcryptCost > 31 {
		a.BcryptCost = 31
	}
}
