package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/reliefbridge/relief-ui-api/config"
	httpx "github.com/reliefbridge/relief-ui-api/internal/http"
	"github.com/reliefbridge/relief-ui-api/internal/ports"
	"github.com/reliefbridge/relief-ui-api/internal/service"
)

const shutdownGrace = 10 * time.Second

// HTTPServerDeps groups dependencies for the HTTP server.
type HTTPServerDeps struct {
	Config *config.AppConfig
	Auth   *service.AuthService
	// RedisIdentities enables the Redis persistence medium for requests
	// carrying a client id header. Optional.
	RedisIdentities func(clientID string) ports.IdentityStore
	Logger          *slog.Logger
}

// RunHTTPServer builds the router, serves until the context is canceled or a
// termination signal arrives, then shuts down gracefully.
func RunHTTPServer(ctx context.Context, deps HTTPServerDeps) error {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	handler := httpx.NewRouter(httpx.RouterServices{
		Auth:            deps.Auth,
		Codec:           BuildCodec(deps.Config.Auth),
		CookieDomain:    deps.Config.HTTP.CookieDomain,
		RedisIdentities: deps.RedisIdentities,
		Logger:          logger,
	})

	server := &http.Server{
		Addr:              deps.Config.HTTP.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return errors.Join(err, <-errCh)
	}
	return <-errCh
}
