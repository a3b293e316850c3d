// Package core defines the live component contract shared by the router and
// the components it hosts, plus the socket each connected component talks
// through.
package core

import (
	"context"
	"io"
)

// Component is a server side UI element with state. The router mounts one
// instance per connection, feeds it client events and re-renders it after
// each one.
type Component interface {
	Name() string
	Mount(ctx context.Context, params Params, session Session) error
	Render(ctx context.Context) Renderer
	HandleEvent(ctx context.Context, event string, payload map[string]any) error
	Terminate(ctx context.Context, reason TerminateReason) error
}

// SocketAware components get their socket before Mount.
type SocketAware interface {
	SetSocket(s *Socket)
}

// Renderer writes markup.
type Renderer interface {
	Render(ctx context.Context, w io.Writer) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(ctx context.Context, w io.Writer) error

func (f RendererFunc) Render(ctx context.Context, w io.Writer) error {
	return f(ctx, w)
}

// HTML is a Renderer for markup that is already a string.
func HTML(s string) Renderer {
	return RendererFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	})
}

// TerminateReason tells Terminate why the component goes away.
type TerminateReason int

const (
	TerminateNormal   TerminateReason = iota // client left or closed the socket
	TerminateShutdown                        // server is stopping
	TerminateError                           // transport failed
	TerminateTimeout                         // idle socket reaped
)

var terminateNames = [...]string{"normal", "shutdown", "error", "timeout"}

func (r TerminateReason) String() string {
	if r < 0 || int(r) >= len(terminateNames) {
		return "unknown"
	}
	return terminateNames[r]
}
