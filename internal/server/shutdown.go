// Package server drains the DDL endpoint on shutdown.
package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
)

// Drainer tracks in-flight parse requests and, once shutdown starts, waits
// for them before closing registered resources in reverse order.
type Drainer struct {
	log          logrus.FieldLogger
	drainTimeout time.Duration

	done     chan struct{}
	once     sync.Once
	inFlight atomic.Int64
	closing  atomic.Bool

	mu      sync.Mutex
	closers []io.Closer
}

// NewDrainer returns a Drainer waiting at most drainTimeout for requests.
func NewDrainer(log logrus.FieldLogger, drainTimeout time.Duration) *Drainer {
	if drainTimeout <= 0 {
		drainTimeout = 15 * time.Second
	}
	return &Drainer{
		log:          log,
		drainTimeout: drainTimeout,
		done:         make(chan struct{}),
	}
}

// RegisterCloser adds a resource released after draining.
func (d *Drainer) RegisterCloser(c io.Closer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closers = append(d.closers, c)
}

// ListenForSignals blocks until SIGINT, SIGTERM or ctx cancellation, then shuts down.
func (d *Drainer) ListenForSignals(ctx context.Context) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		return d.Shutdown(context.Background(), fmt.Sprintf("received signal: %v", sig))
	case <-ctx.Done():
		return d.Shutdown(context.Background(), "context cancelled")
	case <-d.done:
		return nil
	}
}

// Shutdown runs once: it rejects new requests, waits for in-flight ones and
// closes resources. Later calls return nil.
func (d *Drainer) Shutdown(ctx context.Context, reason string) error {
	var shutdownErr error
	d.once.Do(func() {
		d.log.WithField("reason", reason).Info("Shutting down")
		d.closing.Store(true)
		close(d.done)

		if err := d.drain(ctx); err != nil {
			shutdownErr = err
		}

		d.mu.Lock()
		closers := d.closers
		d.mu.Unlock()
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i].Close(); err != nil && shutdownErr == nil {
				shutdownErr = fmt.Errorf("close failed: %w", err)
			}
		}
	})
	return shutdownErr
}

func (d *Drainer) drain(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, d.drainTimeout)
	defer cancel()

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for d.inFlight.Load() > 0 {
		select {
		case <-ctx.Done():
			if n := d.inFlight.Load(); n > 0 {
				return fmt.Errorf("timeout waiting for %d in-flight requests", n)
			}
			return nil
		case <-ticker.C:
		}
	}
	return nil
}

// Track registers a request. It returns false once shutdown has begun.
func (d *Drainer) Track() bool {
	if d.closing.Load() {
		return false
	}
	d.inFlight.Add(1)
	return true
}

// Untrack releases a request registered with Track.
func (d *Drainer) Untrack() {
	d.inFlight.Add(-1)
}

// InFlight returns the number of tracked requests.
func (d *Drainer) InFlight() int64 {
	return d.inFlight.Load()
}

// Done is closed when shutdown begins.
func (d *Drainer) Done() <-chan struct{} {
	return d.done
}

// Middleware rejects requests with 503 once shutdown has begun.
func (d *Drainer) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !d.Track() {
			w.Header().Set("Connection", "close")
			http.Error(w, "Service Unavailable - Shutting Down", http.StatusServiceUnavailable)
			return
		}
		defer d.Untrack()
		next.ServeHTTP(w, r)
	})
}

// CloserFunc adapts a function to io.Closer.
type CloserFunc func() error

// Close calls f.
func (f CloserFunc) Close() error {
	return f()
}
