package core

import "context"

// BaseComponent supplies the socket, the assigns store and no-op callbacks.
// Embed it and override what the component needs.
type BaseComponent struct {
	socket  *Socket
	assigns *Assigns
}

func (bc *BaseComponent) SetSocket(s *Socket) {
	bc.socket = s
}

// Socket is nil while the component is rendered statically.
func (bc *BaseComponent) Socket() *Socket {
	return bc.socket
}

// Assigns returns the socket's store when connected, a private one otherwise.
func (bc *BaseComponent) Assigns() *Assigns {
	if bc.socket != nil {
		return bc.socket.Assigns()
	}
	if bc.assigns == nil {
		bc.assigns = NewAssigns()
	}
	return bc.assigns
}

func (bc *BaseComponent) Name() string { return "" }

func (bc *BaseComponent) Mount(context.Context, Params, Session) error { return nil }

func (bc *BaseComponent) HandleEvent(context.Context, string, map[string]any) error { return nil }

func (bc *BaseComponent) Terminate(context.Context, TerminateReason) error { return nil }
