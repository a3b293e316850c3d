// Package health runs probes against the site and reports them over HTTP for
// liveness and readiness checks.
package health

import (
	"context"
	"sync"
	"time"
)

// Status of a probe or of the whole report.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

const defaultTimeout = 5 * time.Second

// Func is a probe. A nil error means healthy.
type Func func(ctx context.Context) error

type probe struct {
	name     string
	fn       Func
	timeout  time.Duration
	critical bool
}

// Option tunes a registered probe.
type Option func(*probe)

// Timeout bounds a probe run. Probes default to five seconds.
func Timeout(d time.Duration) Option {
	return func(p *probe) { p.timeout = d }
}

// Critical makes a failing probe turn the report unhealthy instead of
// degraded.
func Critical() Option {
	return func(p *probe) { p.critical = true }
}

// Result is the outcome of one probe.
type Result struct {
	Status    Status `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

// Report aggregates every probe of one run.
type Report struct {
	Status    Status            `json:"status"`
	Version   string            `json:"version,omitempty"`
	CheckedAt time.Time         `json:"checked_at"`
	Checks    map[string]Result `json:"checks"`
}

// Checker holds the registered probes.
type Checker struct {
	mu      sync.RWMutex
	probes  []probe
	version string
}

func NewChecker(version string) *Checker {
	return &Checker{version: version}
}

// Register adds a probe. Names are expected to be unique.
func (c *Checker) Register(name string, fn Func, opts ...Option) {
	p := probe{name: name, fn: fn, timeout: defaultTimeout}
	for _, opt := range opts {
		opt(&p)
	}

	c.mu.Lock()
	c.probes = append(c.probes, p)
	c.mu.Unlock()
}

// Run executes all probes concurrently, each under its own timeout.
func (c *Checker) Run(ctx context.Context) Report {
	c.mu.RLock()
	probes := append([]probe(nil), c.probes...)
	c.mu.RUnlock()

	results := make([]Result, len(probes))
	var wg sync.WaitGroup
	for i, p := range probes {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = p.run(ctx)
		}()
	}
	wg.Wait()

	report := Report{
		Status:    StatusHealthy,
		Version:   c.version,
		CheckedAt: time.Now().UTC(),
		Checks:    make(map[string]Result, len(probes)),
	}
	for i, p := range probes {
		res := results[i]
		report.Checks[p.name] = res
		if res.Status == StatusHealthy {
			continue
		}
		switch {
		case p.critical:
			report.Status = StatusUnhealthy
		case report.Status == StatusHealthy:
			report.Status = StatusDegraded
		}
	}
	return report
}

func (p probe) run(ctx context.Context) Result {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	err := p.fn(ctx)
	res := Result{Status: StatusHealthy, LatencyMS: time.Since(start).Milliseconds()}
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	if err != nil {
		res.Status = StatusUnhealthy
		res.Error = err.Error()
	}
	return res
}
