// Package app manages the lifecycle of the tsddl HTTP service.
package app

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	httpapi "github.com/arkilian/tsddl/internal/api/http"
	"github.com/arkilian/tsddl/internal/auth"
	"github.com/arkilian/tsddl/internal/config"
	"github.com/arkilian/tsddl/internal/ddl/parser"
	"github.com/arkilian/tsddl/internal/observability"
	"github.com/arkilian/tsddl/internal/server"
)

// App owns the HTTP server and its shutdown coordination.
type App struct {
	cfg *config.Config
	log *logrus.Logger

	drainer  *server.Drainer
	stats    *observability.StatementStats
	server   *http.Server
	listener net.Listener

	mu      sync.Mutex
	running bool
	wg      sync.WaitGroup
}

// New validates cfg and builds an App.
func New(cfg *config.Config, log *logrus.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &App{
		cfg:     cfg,
		log:     log,
		drainer: server.NewDrainer(log.WithField("prefix", "shutdown"), cfg.HTTP.WriteTimeout),
		stats:   observability.NewStatementStats(time.Hour),
	}, nil
}

// Handler builds the routed handler for the configured dialect and users.
func (a *App) Handler() (http.Handler, error) {
	dialect, err := parser.DialectByName(a.cfg.Parser.Dialect)
	if err != nil {
		return nil, err
	}

	// Leave the interface nil when auth is off; a typed nil store would
	// still be consulted.
	var provider auth.UserProvider
	if a.cfg.Auth.Enabled {
		provider = auth.NewCredentialsStore(a.cfg.Auth.Users)
	}

	router := httpapi.NewRouter(dialect, a.cfg.Parser.MaxStatementBytes, provider, a.stats, a.log.WithField("prefix", "http"))
	return a.drainer.Middleware(router), nil
}

// Start binds the listen address and serves in the background.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.running {
		return fmt.Errorf("app is already running")
	}

	handler, err := a.Handler()
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", a.cfg.HTTP.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.cfg.HTTP.Addr, err)
	}
	a.listener = ln
	a.server = &http.Server{
		Handler:      handler,
		ReadTimeout:  a.cfg.HTTP.ReadTimeout,
		WriteTimeout: a.cfg.HTTP.WriteTimeout,
		IdleTimeout:  a.cfg.HTTP.IdleTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}
	a.drainer.RegisterCloser(server.CloserFunc(func() error {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	}))

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			a.log.WithError(err).Error("HTTP server failed")
		}
	}()

	a.running = true
	a.log.WithFields(logrus.Fields{
		"addr":    ln.Addr().String(),
		"dialect": a.cfg.Parser.Dialect,
		"auth":    a.cfg.Auth.Enabled,
	}).Info("tsddl started")
	return nil
}

// Addr returns the bound address, or nil before Start.
func (a *App) Addr() net.Addr {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.listener == nil {
		return nil
	}
	return a.listener.Addr()
}

// Stop drains in-flight requests and closes the server.
func (a *App) Stop(ctx context.Context) error {
	a.mu.Lock()
	if !a.running {
		a.mu.Unlock()
		return nil
	}
	a.running = false
	a.mu.Unlock()

	err := a.drainer.Shutdown(ctx, "stop requested")
	a.wg.Wait()
	a.log.Info("tsddl stopped")
	return err
}

// WaitForShutdown blocks until a signal arrives or ctx ends, then stops the app.
func (a *App) WaitForShutdown(ctx context.Context) error {
	if err := a.drainer.ListenForSignals(ctx); err != nil {
		a.log.WithError(err).Warn("Shutdown incomplete")
	}
	return a.Stop(context.Background())
}
