// Package lifecycle coordinates subsystem startup, readiness, and shutdown.
package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// ReadinessChecker reports whether a subsystem is ready to serve traffic.
type ReadinessChecker interface {
	Ready() bool
}

type namedCheck struct {
	name    string
	checker ReadinessChecker
}

// Coordinator manages startup and shutdown hooks for the application
// lifecycle. Readiness requires every startup hook to have finished and
// every registered check to pass.
type Coordinator struct {
	ctx        context.Context
	cancel     context.CancelFunc
	startupWg  sync.WaitGroup
	shutdownWg sync.WaitGroup

	mu      sync.RWMutex
	started bool
	checks  []namedCheck
}

// New creates a Coordinator with a cancellable context.
func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		ctx:    ctx,
		cancel: cancel,
	}
}

// Context returns the coordinator's context, cancelled on shutdown.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnStartup registers a function to run concurrently during startup.
func (c *Coordinator) OnStartup(fn func()) {
	c.startupWg.Go(fn)
}

// OnShutdown registers a function to run concurrently during shutdown.
// Shutdown hooks should block on <-c.Context().Done() before executing cleanup.
func (c *Coordinator) OnShutdown(fn func()) {
	c.shutdownWg.Go(fn)
}

// AddCheck registers a named readiness check.
func (c *Coordinator) AddCheck(name string, checker ReadinessChecker) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks = append(c.checks, namedCheck{name: name, checker: checker})
}

// Ready reports whether startup has completed and all checks pass.
func (c *Coordinator) Ready() bool {
	c.mu.RLock()
	started := c.started
	c.mu.RUnlock()
	return started && len(c.Pending()) == 0
}

// Pending returns the names of registered checks that are not ready, in
// registration order.
func (c *Coordinator) Pending() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []string
	for _, nc := range c.checks {
		if !nc.checker.Ready() {
			out = append(out, nc.name)
		}
	}
	return out
}

// WaitForStartup blocks until all startup hooks have completed and marks
// startup finished.
func (c *Coordinator) WaitForStartup() {
	c.startupWg.Wait()
	c.mu.Lock()
	c.started = true
	c.mu.Unlock()
}

// Shutdown cancels the context and waits for shutdown hooks to complete
// within the given timeout.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.cancel()

	done := make(chan struct{})
	go func() {
		c.shutdownWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("shutdown timeout after %v", timeout)
	}
}
