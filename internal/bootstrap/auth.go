package bootstrap

import (
	"database/sql"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/reliefbridge/relief-ui-api/config"
	"github.com/reliefbridge/relief-ui-api/internal/adapters/cookie"
	"github.com/reliefbridge/relief-ui-api/internal/adapters/password"
	redisadapter "github.com/reliefbridge/relief-ui-api/internal/adapters/redis"
	"github.com/reliefbridge/relief-ui-api/internal/data"
	"github.com/reliefbridge/relief-ui-api/internal/ports"
	"github.com/reliefbridge/relief-ui-api/internal/service"
)

// BuildAuthService wires the login capability: the account repository over
// Postgres and the bcrypt hasher.
func BuildAuthService(db *sql.DB, auth config.AuthConfig) *service.AuthService {
	return service.NewAuthService(service.AuthServiceOptions{
		Users:  data.NewUserRepo(db),
		Hasher: password.BcryptHasher{Cost: auth.BcryptCost},
	})
}

// BuildCodec constructs the identity codec with the configured session TTL.
func BuildCodec(auth config.AuthConfig) cookie.Codec {
	return cookie.Codec{TTL: auth.SessionTTL}
}

// BuildRedisIdentityFactory wires the Redis substitute persistence medium:
// a per-client identity store sharing the cookie wire format and expiry.
// Returns nil when the Redis client is not configured.
func BuildRedisIdentityFactory(
	client redis.UniversalClient,
	codec cookie.Codec,
	logger *slog.Logger,
) func(clientID string) ports.IdentityStore {
	if client == nil {
		if logger != nil {
			logger.Warn("redis identity persistence requested but redis client not configured")
		}
		return nil
	}
	return func(clientID string) ports.IdentityStore {
		return redisadapter.NewIdentityStore(client, codec, clientID)
	}
}
