package redis

// Package redis provides the Redis-backed identity persistence medium: the
// same identity record the cookie carries, keyed per client with an expiry,
// for deployments where the app shell is not a browser. The contract is
// unchanged — an undecodable record reads as logged out.

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/reliefbridge/relief-ui-api/internal/adapters/cookie"
	"github.com/reliefbridge/relief-ui-api/internal/domain/auth"
	"github.com/reliefbridge/relief-ui-api/internal/ports"
)

const defaultPrefix = "identity:"

// IdentityStore persists one client's identity record in Redis. TTL semantics
// mirror the cookie expiry: records live for the codec lifetime and Redis
// reaps them afterwards.
type IdentityStore struct {
	client   redis.UniversalClient
	codec    cookie.Codec
	prefix   string
	clientID string
}

// NewIdentityStore creates a Redis-backed identity store for the given client
// id (a stable per-device identifier supplied by the shell).
func NewIdentityStore(client redis.UniversalClient, codec cookie.Codec, clientID string) *IdentityStore {
	return &IdentityStore{
		client:   client,
		codec:    codec,
		prefix:   defaultPrefix,
		clientID: clientID,
	}
}

// NewIdentityStoreWithPrefix creates a store with a custom key prefix.
func NewIdentityStoreWithPrefix(
	client redis.UniversalClient,
	codec cookie.Codec,
	clientID, prefix string,
) *IdentityStore {
	return &IdentityStore{
		client:   client,
		codec:    codec,
		prefix:   prefix,
		clientID: clientID,
	}
}

var _ ports.IdentityStore = (*IdentityStore)(nil)

func (s *IdentityStore) key() string { return s.prefix + s.clientID }

// Load fetches and decodes the identity record. A missing key or undecodable
// payload reports ok=false; an undecodable payload is also deleted so the
// next load is cheap, matching the cookie medium's decode-failure handling.
func (s *IdentityStore) Load(ctx context.Context) (auth.Identity, bool, error) {
	if s.clientID == "" {
		return auth.Identity{}, false, nil
	}

	data, err := s.client.Get(ctx, s.key()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return auth.Identity{}, false, nil
		}
		return auth.Identity{}, false, fmt.Errorf("redis get: %w", err)
	}

	id, ok := s.codec.Decode(data)
	if !ok {
		if delErr := s.client.Del(ctx, s.key()).Err(); delErr != nil {
			return auth.Identity{}, false, fmt.Errorf("cleanup malformed identity: %w", delErr)
		}
		return auth.Identity{}, false, nil
	}
	return id, true, nil
}

// Save writes the identity record with a fresh TTL. Last writer wins across
// clients sharing a key; no coordination is provided or required.
func (s *IdentityStore) Save(ctx context.Context, id auth.Identity) error {
	if s.clientID == "" {
		return errors.New("client ID cannot be empty")
	}

	value, err := s.codec.Encode(id)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}
	return s.client.Set(ctx, s.key(), value, s.codec.Lifetime()).Err()
}

// Clear removes the identity record. Clearing an absent record is a no-op.
func (s *IdentityStore) Clear(ctx context.Context) error {
	if s.clientID == "" {
		return nil
	}
	return s.client.Del(ctx, s.key()).Err()
}
