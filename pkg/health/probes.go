package health

import (
	"context"

	"github.com/pkg/errors"
)

var (
	ErrEmptyRender  = errors.New("render produced no markup")
	ErrShuttingDown = errors.New("live runtime is shutting down")
	ErrAtCapacity   = errors.New("live socket pool at capacity")
)

// RenderProbe fails when render errors or yields no markup.
func RenderProbe(render func(context.Context) (string, error)) Func {
	return func(ctx context.Context) error {
		html, err := render(ctx)
		if err != nil {
			return errors.Wrap(err, "render")
		}
		if html == "" {
			return ErrEmptyRender
		}
		return nil
	}
}

// AcceptingProbe fails once the live runtime stopped taking sockets.
func AcceptingProbe(isShutdown func() bool) Func {
	return func(context.Context) error {
		if isShutdown() {
			return ErrShuttingDown
		}
		return nil
	}
}

// CapacityProbe fails when count reaches limit. Zero means unlimited.
func CapacityProbe(count func() int, limit int) Func {
	return func(context.Context) error {
		if n := count(); limit > 0 && n >= limit {
			return errors.Wrapf(ErrAtCapacity, "%d of %d sockets", n, limit)
		}
		return nil
	}
}
