package core

import (
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/consenterra/website/pkg/protocol"
)

var (
	ErrSocketClosed = errors.New("socket is closed")
	ErrSendFailed   = errors.New("failed to send message")
)

// Transport is what a socket writes frames to.
type Transport interface {
	Send(msg *protocol.Message) error
	Close() error
	IsConnected() bool
}

// Socket is one joined client. It is safe for concurrent use.
type Socket struct {
	id        string
	transport Transport
	assigns   *Assigns

	closed   atomic.Bool
	lastSeen atomic.Int64 // unix nanos
	failures atomic.Int32
}

func NewSocket(id string, t Transport) *Socket {
	s := &Socket{id: id, transport: t, assigns: NewAssigns()}
	s.Touch()
	return s
}

func (s *Socket) ID() string { return s.id }

// Topic is the channel name stamped on frames for this socket.
func (s *Socket) Topic() string { return "lv:" + s.id }

func (s *Socket) Assigns() *Assigns { return s.assigns }

func (s *Socket) IsConnected() bool {
	return !s.closed.Load() && s.transport != nil && s.transport.IsConnected()
}

// Touch records client or server activity for the idle reaper.
func (s *Socket) Touch() { s.lastSeen.Store(time.Now().UnixNano()) }

func (s *Socket) LastActivity() time.Time { return time.Unix(0, s.lastSeen.Load()) }

// Send writes msg to the transport.
func (s *Socket) Send(msg *protocol.Message) error {
	if !s.IsConnected() {
		return ErrSocketClosed
	}
	s.Touch()

	if err := s.transport.Send(msg); err != nil {
		if s.closed.Load() {
			return ErrSocketClosed
		}
		return errors.Wrap(ErrSendFailed, err.Error())
	}
	return nil
}

// Push sends a server initiated event such as a navigation command.
func (s *Socket) Push(event string, payload map[string]any) error {
	return s.Send(protocol.PushMessage(s.Topic(), event, payload))
}

// SendDiff sends d unless it is empty.
func (s *Socket) SendDiff(d *DiffPayload) error {
	if d.Empty() {
		return nil
	}
	return s.Send(protocol.DiffMessage(s.Topic(), d.Map()))
}

// Close marks the socket closed and closes its transport.
func (s *Socket) Close() error {
	s.closed.Store(true)
	if s.transport == nil {
		return nil
	}
	return s.transport.Close()
}

// Fail counts a failed event and returns the running count.
func (s *Socket) Fail() int { return int(s.failures.Add(1)) }

// Recover resets the failure count after a successful event.
func (s *Socket) Recover() { s.failures.Store(0) }

func (s *Socket) Failures() int { return int(s.failures.Load()) }
