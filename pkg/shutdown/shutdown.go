// Package shutdown stops the process in stages: live sockets first, then the
// HTTP server, then background workers.
package shutdown

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"slices"
	"sync"
	"syscall"
	"time"

	"github.com/consenterra/website/pkg/logging"
)

var (
	ErrTimeout        = errors.New("shutdown timed out")
	ErrAlreadyStopped = errors.New("shutdown already ran")
)

// Stage priorities. Lower stages run first.
const (
	PriorityLive = 100
	PriorityHTTP = 200
	PriorityLast = 1000
)

// Func is one shutdown step. ctx carries the overall deadline.
type Func func(ctx context.Context) error

type hook struct {
	name     string
	priority int
	fn       Func
}

// Coordinator collects steps and runs them once.
type Coordinator struct {
	timeout time.Duration
	signals []os.Signal
	logger  logging.Logger

	mu       sync.Mutex
	hooks    []hook
	stopped  bool
	stopping chan struct{}
}

type Option func(*Coordinator)

// WithTimeout bounds all steps together. Defaults to 30s.
func WithTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithSignals replaces the default SIGINT and SIGTERM.
func WithSignals(sig ...os.Signal) Option {
	return func(c *Coordinator) { c.signals = sig }
}

func WithLogger(l logging.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.logger = l
		}
	}
}

func New(opts ...Option) *Coordinator {
	c := &Coordinator{
		timeout:  30 * time.Second,
		signals:  []os.Signal{os.Interrupt, syscall.SIGTERM},
		logger:   logging.NopLogger{},
		stopping: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Add registers a step. Steps of equal priority run in the order added.
func (c *Coordinator) Add(name string, priority int, fn Func) {
	c.mu.Lock()
	c.hooks = append(c.hooks, hook{name: name, priority: priority, fn: fn})
	c.mu.Unlock()
}

// AddCloser registers closer.Close as a step.
func (c *Coordinator) AddCloser(name string, priority int, closer interface{ Close() error }) {
	c.Add(name, priority, func(context.Context) error { return closer.Close() })
}

// Wait blocks until a signal arrives or ctx ends, then calls Stop. If Stop
// was already called elsewhere Wait returns nil.
func (c *Coordinator) Wait(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, c.signals...)
	defer cancel()

	select {
	case <-ctx.Done():
		c.logger.Info("shutdown requested")
		return c.Stop()
	case <-c.stopping:
		return nil
	}
}

// Stop runs every step by priority. A failing step does not stop later ones;
// the deadline does.
func (c *Coordinator) Stop() error {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return ErrAlreadyStopped
	}
	c.stopped = true
	close(c.stopping)
	hooks := slices.Clone(c.hooks)
	c.mu.Unlock()

	slices.SortStableFunc(hooks, func(a, b hook) int { return a.priority - b.priority })

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	var errs []error
	for _, h := range hooks {
		start := time.Now()
		err := h.fn(ctx)
		log := c.logger.With(logging.String("step", h.name), logging.Duration("took", time.Since(start)))
		if err != nil {
			log.Error("shutdown step failed", logging.Err(err))
			errs = append(errs, err)
		} else {
			log.Debug("shutdown step done")
		}
		if ctx.Err() != nil {
			errs = append(errs, ErrTimeout)
			break
		}
	}
	return errors.Join(errs...)
}

// Stopping is closed when Stop starts.
func (c *Coordinator) Stopping() <-chan struct{} { return c.stopping }

func (c *Coordinator) Stopped() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopped
}
