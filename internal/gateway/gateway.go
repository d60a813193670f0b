// ABOUTME: Gateway orchestrator wiring store, auth services and the runtime
// ABOUTME: Manages the HTTP server lifecycle with graceful shutdown

package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/berthd/berth-gateway/internal/auth"
	"github.com/berthd/berth-gateway/internal/config"
	"github.com/berthd/berth-gateway/internal/runtime"
	"github.com/berthd/berth-gateway/internal/store"
)

// Gateway orchestrates the berth-gateway server components. It owns the
// credential store, the auth services built on it, the container runtime
// client, and the HTTP server exposing them.
type Gateway struct {
	config        *config.Config
	store         store.Store
	authenticator *auth.Authenticator
	issuer        *auth.Issuer
	authorizer    *auth.Authorizer
	runtime       runtime.Runtime
	httpServer    *http.Server
	logger        *slog.Logger
}

// initStore creates a store based on config and environment.
func initStore(cfg *config.Config) (store.Store, error) {
	dbPath := cfg.Database.Path
	if envPath := os.Getenv("BERTH_DB_PATH"); envPath != "" {
		dbPath = envPath
	}

	s, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("initializing store: %w", err)
	}
	return s, nil
}

// New creates a Gateway with the given configuration, bootstrapping the root
// user and connecting to the container daemon.
func New(cfg *config.Config, logger *slog.Logger) (*Gateway, error) {
	s, err := initStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := auth.EnsureRootUser(context.Background(), s, cfg.Auth.RootPassword, logger); err != nil {
		_ = s.Close()
		return nil, err
	}

	rt, err := runtime.NewDockerRuntime(cfg.Docker.Host, logger)
	if err != nil {
		_ = s.Close()
		return nil, err
	}

	return newGateway(cfg, s, rt, logger), nil
}

// newGateway assembles a Gateway from already-constructed dependencies.
// Tests use it to substitute a fake runtime.
func newGateway(cfg *config.Config, s store.Store, rt runtime.Runtime, logger *slog.Logger) *Gateway {
	codec := auth.NewCodec([]byte(cfg.Auth.SecretKey))

	gw := &Gateway{
		config:        cfg,
		store:         s,
		authenticator: auth.NewAuthenticator(s, codec, logger),
		issuer:        auth.NewIssuer(s, codec, logger),
		authorizer:    auth.NewAuthorizer(s, codec, logger),
		runtime:       rt,
		logger:        logger.With("component", "gateway"),
	}

	gw.httpServer = &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           gw.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return gw
}

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails. Returns nil on graceful shutdown.
func (g *Gateway) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", g.config.Server.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listening on HTTP address: %w", err)
	}

	errCh := g.startServer(ln)
	serverErr := g.waitForShutdownSignal(ctx, errCh)

	shutdownErr := g.gracefulShutdown()

	if serverErr != nil {
		return serverErr
	}
	return shutdownErr
}

// startServer serves HTTP in a goroutine and returns its error channel.
func (g *Gateway) startServer(ln net.Listener) chan error {
	errCh := make(chan error, 1)

	go func() {
		g.logger.Info("HTTP server listening", "addr", ln.Addr().String())
		if err := g.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
	}()

	return errCh
}

// waitForShutdownSignal waits for context cancellation or a server error.
func (g *Gateway) waitForShutdownSignal(ctx context.Context, errCh chan error) error {
	select {
	case <-ctx.Done():
		g.logger.Info("context canceled, initiating shutdown")
		return nil
	case err := <-errCh:
		g.logger.Error("server error", "error", err)
		return err
	}
}

// gracefulShutdown performs shutdown with a fresh context and timeout.
// Uses context.Background() intentionally since the original context is
// already canceled.
func (g *Gateway) gracefulShutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return g.Shutdown(ctx)
}

// Shutdown gracefully stops the HTTP server and releases resources.
func (g *Gateway) Shutdown(ctx context.Context) error {
	g.logger.Info("shutting down gateway")

	var errs []error
	if err := g.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("HTTP shutdown: %w", err))
	}
	if g.runtime != nil {
		if err := g.runtime.Close(); err != nil {
			errs = append(errs, fmt.Errorf("runtime close: %w", err))
		}
	}
	if err := g.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store close: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}
	return nil
}
