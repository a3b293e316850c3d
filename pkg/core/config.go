package core

import (
	"time"
)

// TimeoutConfig bounds the component callbacks run by the live runtime.
type TimeoutConfig struct {
	// ComponentMount is the timeout for Mount calls.
	ComponentMount time.Duration

	// ComponentRender is the timeout for Render calls.
	ComponentRender time.Duration

	// ComponentEvent is the timeout for HandleEvent calls.
	ComponentEvent time.Duration

	// SessionCleanup is the interval of the idle socket reaper.
	SessionCleanup time.Duration

	// IdleTimeout is how long a socket may go without activity.
	IdleTimeout time.Duration
}

// DefaultTimeoutConfig returns default timeouts.
func DefaultTimeoutConfig() TimeoutConfig {
	return TimeoutConfig{
		ComponentMount:  5 * time.Second,
		ComponentRender: 2 * time.Second,
		ComponentEvent:  3 * time.Second,
		SessionCleanup:  time.Minute,
		IdleTimeout:     5 * time.Minute,
	}
}

// RelaxedTimeoutConfig returns generous timeouts for local development, where
// a debugger may pause a callback.
func RelaxedTimeoutConfig() TimeoutConfig {
	return TimeoutConfig{
		ComponentMount:  30 * time.Second,
		ComponentRender: 10 * time.Second,
		ComponentEvent:  30 * time.Second,
		SessionCleanup:  5 * time.Minute,
		IdleTimeout:     30 * time.Minute,
	}
}

// Validate reports whether every timeout is positive.
func (c TimeoutConfig) Validate() error {
	if c.ComponentMount <= 0 || c.ComponentRender <= 0 || c.ComponentEvent <= 0 {
		return ErrInvalidTimeout
	}
	if c.SessionCleanup <= 0 || c.IdleTimeout <= 0 {
		return ErrInvalidTimeout
	}
	return nil
}

// ErrInvalidTimeout is returned by Validate.
var ErrInvalidTimeout = configError("timeouts must be positive")

type configError string

func (e configError) Error() string { return string(e) }
