// Package shutdown coordinates graceful shutdown of the logbook service.
// It waits for SIGTERM/SIGINT, stops components in reverse registration
// order and reports whether everything finished inside the deadline.
package shutdown

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"sync"
	"syscall"
	"time"
)

// DefaultTimeout is the default graceful shutdown timeout.
const DefaultTimeout = 30 * time.Second

// Exit codes reported by ExitCode.
const (
	ExitClean  = 0
	ExitForced = 1
)

// Component represents a component that can be gracefully shut down.
type Component interface {
	// Name returns the component name for logging.
	Name() string
	// Shutdown stops the component, returning by the context deadline.
	Shutdown(ctx context.Context) error
}

// Coordinator manages graceful shutdown of multiple components.
type Coordinator struct {
	components []Component
	timeout    time.Duration
	logger     *slog.Logger
	mu         sync.Mutex

	// signalCh replaces OS signal delivery in tests.
	signalCh chan os.Signal

	shutdownOnce sync.Once
	shutdownDone chan struct{}
	exitCode     int
	err          error
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithTimeout sets the shutdown timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Coordinator) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// WithSignalChannel sets a custom signal channel (for testing).
func WithSignalChannel(ch chan os.Signal) Option {
	return func(c *Coordinator) {
		c.signalCh = ch
	}
}

// NewCoordinator creates a new shutdown coordinator.
func NewCoordinator(opts ...Option) *Coordinator {
	c := &Coordinator{
		timeout:      DefaultTimeout,
		logger:       slog.Default(),
		shutdownDone: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Register adds a component to be shut down during graceful shutdown.
// Components are shut down in reverse order of registration (LIFO).
func (c *Coordinator) Register(component Component) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.components = append(c.components, component)
	c.logger.Debug("registered shutdown component", "name", component.Name())
}

// WaitForSignal blocks until a signal arrives or ctx is done, then shuts down.
func (c *Coordinator) WaitForSignal(ctx context.Context) {
	sigCh := c.signalCh
	if sigCh == nil {
		sigCh = make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)
	}

	select {
	case sig := <-sigCh:
		c.logger.Info("received shutdown signal", "signal", sig)
	case <-ctx.Done():
		c.logger.Info("shutdown requested", "reason", context.Cause(ctx))
	}

	c.Shutdown()
}

// Shutdown stops every registered component, newest first. Each component
// gets whatever remains of the shared deadline. Safe to call more than once.
func (c *Coordinator) Shutdown() {
	c.shutdownOnce.Do(func() {
		defer close(c.shutdownDone)
		c.logger.Info("initiating graceful shutdown", "timeout", c.timeout)

		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()

		c.mu.Lock()
		components := slices.Clone(c.components)
		c.mu.Unlock()
		slices.Reverse(components)

		var errs []error
		for _, comp := range components {
			if ctx.Err() != nil {
				c.logger.Warn("shutdown timeout exceeded, skipping component", "name", comp.Name())
				errs = append(errs, ctx.Err())
				continue
			}

			c.logger.Info("shutting down component", "name", comp.Name())
			if err := c.stop(ctx, comp); err != nil {
				c.logger.Error("component shutdown error", "name", comp.Name(), "error", err)
				errs = append(errs, err)
				continue
			}
			c.logger.Info("component shutdown complete", "name", comp.Name())
		}

		c.err = errors.Join(errs...)
		if ctx.Err() != nil {
			c.logger.Warn("shutdown timeout exceeded, forcing termination")
			c.exitCode = ExitForced
			return
		}
		c.logger.Info("all components shut down")
	})
}

// stop runs comp.Shutdown but returns at the deadline even if the
// component ignores its context.
func (c *Coordinator) stop(ctx context.Context, comp Component) error {
	done := make(chan error, 1)
	go func() { done <- comp.Shutdown(ctx) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Wait blocks until shutdown is complete.
func (c *Coordinator) Wait() {
	<-c.shutdownDone
}

// Err returns the joined component errors after shutdown.
func (c *Coordinator) Err() error {
	c.Wait()
	return c.err
}

// ExitCode returns ExitClean for a shutdown that finished in time and
// ExitForced when the deadline was exceeded.
func (c *Coordinator) ExitCode() int {
	c.Wait()
	return c.exitCode
}
