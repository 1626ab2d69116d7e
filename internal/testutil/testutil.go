// Package testutil provides shared helpers for integration-style tests.
package testutil

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"github.com/reliefbridge/relief-ui-api/internal/migrate"
)

// SetupTestDB opens the test Postgres instance named by TEST_DB_DSN, applies
// the production migrations, and truncates the users table before and after
// the test. Tests are skipped when no instance is reachable.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set, skipping database tests")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		t.Skipf("database not reachable: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := migrate.Run(ctx, db, logger); err != nil {
		_ = db.Close()
		t.Fatalf("run migrations: %v", err)
	}

	truncate := func() {
		if _, err := db.ExecContext(context.Background(), `TRUNCATE TABLE users`); err != nil {
			t.Logf("warning: truncate users: %v", err)
		}
	}
	truncate()

	t.Cleanup(func() {
		truncate()
		if err := db.Close(); err != nil {
			t.Logf("warning: failed to close test database: %v", err)
		}
	})
	return db
}

// SetupTestRedis returns a client for the test Redis instance, skipping the
// test when none is reachable. Set TEST_REDIS_ADDR (host:port) to point at a
// local instance; CI sets it explicitly.
func SetupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set, skipping Redis tests")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		if cerr := client.Close(); cerr != nil {
			t.Logf("warning: failed to close redis client after ping error: %v", cerr)
		}
		t.Skipf("Redis not reachable at %s: %v", addr, err)
	}

	t.Cleanup(func() {
		if err := client.Close(); err != nil {
			t.Logf("warning: failed to close redis client: %v", err)
		}
	})
	return client
}
