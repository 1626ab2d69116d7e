package cookie

// Package cookie implements the identity cookie codec and the cookie-backed
// identity store. The cookie is the only durable representation of the
// session across reloads; its wire format is shared with the Redis-backed
// substitute medium so both read the same records.

import (
	"encoding/json"
	"time"

	"github.com/reliefbridge/relief-ui-api/internal/domain/auth"
)

// Name is the identity cookie name.
const Name = "authUser"

// DefaultTTL is the identity record lifetime. The session is deliberately
// short-lived; a stale record past this window simply reads as logged out.
const DefaultTTL = time.Hour

// payload is the serialized identity. Username has been optional across
// revisions of the cookie format and must be tolerated as absent.
type payload struct {
	UserID   string `json:"userId"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role"`
}

// Codec serializes identities to the single-cookie wire format. The zero
// value is ready to use with DefaultTTL.
type Codec struct {
	TTL time.Duration
}

// Lifetime returns the configured record TTL, defaulting to DefaultTTL.
func (c Codec) Lifetime() time.Duration {
	if c.TTL > 0 {
		return c.TTL
	}
	return DefaultTTL
}

// Encode serializes the identity to the cookie value.
func (c Codec) Encode(id auth.Identity) (string, error) {
	data, err := json.Marshal(payload{
		UserID:   id.UserID,
		Username: id.Username,
		Role:     string(id.Role),
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Decode parses a cookie value back into an identity. Any malformed value —
// truncated JSON, wrong type, missing userId or role — reports ok=false;
// callers treat that identically to no cookie at all. Role validity is not
// checked here: an unknown role decodes structurally and is rejected by the
// session invariant, which distinguishes "undecodable" from "stale role set".
func (c Codec) Decode(raw string) (auth.Identity, bool) {
	if raw == "" {
		return auth.Identity{}, false
	}
	var p payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return auth.Identity{}, false
	}
	if p.UserID == "" || p.Role == "" {
		return auth.Identity{}, false
	}
	return auth.Identity{
		UserID:   p.UserID,
		Username: p.Username,
		Role:     auth.Role(p.Role),
	}, true
}
