package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/reliefbridge/relief-ui-api/config"
	"github.com/reliefbridge/relief-ui-api/internal/bootstrap"
	"github.com/reliefbridge/relief-ui-api/internal/migrate"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	logStartupInfo(ctx, logger, &cfg)

	db, err := bootstrap.ConnectDB(cfg.Postgres, logger)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close database failed", "error", cerr)
		}
	}()

	if cfg.Postgres.RunMigrationsOnStart {
		if err = migrate.Run(ctx, db, logger); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	} else {
		logger.InfoContext(ctx, "skipping database migrations on startup", "reason", "disabled via config")
	}

	authSvc := bootstrap.BuildAuthService(db, cfg.Auth)

	deps := bootstrap.HTTPServerDeps{
		Config: &cfg,
		Auth:   authSvc,
		Logger: logger,
	}

	if cfg.Auth.Persistence == config.PersistenceRedis {
		redisClient, redisErr := bootstrap.ConnectRedis(cfg.Redis, logger)
		if redisErr != nil {
			return fmt.Errorf("connect redis: %w", redisErr)
		}
		defer func() {
			if cerr := redisClient.Close(); cerr != nil {
				logger.ErrorContext(ctx, "close redis failed", "error", cerr)
			}
		}()
		deps.RedisIdentities = bootstrap.BuildRedisIdentityFactory(
			redisClient, bootstrap.BuildCodec(cfg.Auth), logger)
	}

	return bootstrap.RunHTTPServer(ctx, deps)
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting relief service",
		"db_host", cfg.Postgres.Host,
		"db_port", cfg.Postgres.Port,
		"db_name", cfg.Postgres.Name,
		"auth_persistence", string(cfg.Auth.Persistence),
		"addr", cfg.HTTP.Addr)
}
