package transport

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
	"github.com/pkg/errors"

	"github.com/consenterra/website/pkg/protocol"
)

// WebSocketTransport owns one upgraded connection. Upgrade starts a reader,
// a writer and a pinger; all three stop when the connection closes.
type WebSocketTransport struct {
	cfg     *Config
	origins *WebSocketConfig
	codec   protocol.Codec

	out  chan *protocol.Message
	in   chan *protocol.Message
	done chan struct{}

	connected atomic.Bool
	closeOnce sync.Once

	mu      sync.Mutex
	conn    *websocket.Conn
	onError func(error)
}

// NewWebSocketTransport builds an idle transport. Nil arguments select the
// defaults and the JSON codec.
func NewWebSocketTransport(cfg *Config, origins *WebSocketConfig, codec protocol.Codec) *WebSocketTransport {
	cfg = cfg.orDefault()
	if origins == nil {
		origins = DefaultWebSocketConfig()
	}
	if codec == nil {
		codec = protocol.NewJSONCodec()
	}
	return &WebSocketTransport{
		cfg:     cfg,
		origins: origins,
		codec:   codec,
		out:     make(chan *protocol.Message, cfg.SendBufferSize),
		in:      make(chan *protocol.Message, cfg.ReceiveBufferSize),
		done:    make(chan struct{}),
	}
}

// OnError sets the callback for read, decode and write failures.
func (t *WebSocketTransport) OnError(fn func(error)) {
	t.mu.Lock()
	t.onError = fn
	t.mu.Unlock()
}

func (t *WebSocketTransport) Codec() protocol.Codec { return t.codec }

func (t *WebSocketTransport) IsConnected() bool { return t.connected.Load() }

// Receive yields decoded client frames.
func (t *WebSocketTransport) Receive() <-chan *protocol.Message { return t.in }

// Done is closed once the transport shut down.
func (t *WebSocketTransport) Done() <-chan struct{} { return t.done }

// Upgrade checks the Origin header and accepts the websocket.
func (t *WebSocketTransport) Upgrade(w http.ResponseWriter, r *http.Request) error {
	if !t.origins.allows(r.Header.Get("Origin"), r.Host) {
		http.Error(w, "Forbidden: Origin not allowed", http.StatusForbidden)
		return ErrOriginNotAllowed
	}

	// The origin was checked above. coder/websocket's own check would reject
	// allow-listed cross origin requests.
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		return errors.Wrap(err, "accept websocket")
	}
	conn.SetReadLimit(t.cfg.MaxMessageSize)

	t.mu.Lock()
	t.conn = conn
	t.mu.Unlock()
	t.connected.Store(true)

	go t.readLoop(conn)
	go t.writeLoop(conn)
	go t.pingLoop(conn)
	return nil
}

// Send queues msg for the writer, waiting at most WriteTimeout for room.
func (t *WebSocketTransport) Send(msg *protocol.Message) error {
	if !t.IsConnected() {
		return ErrNotConnected
	}

	timer := time.NewTimer(t.cfg.WriteTimeout)
	defer timer.Stop()

	select {
	case t.out <- msg:
		return nil
	case <-t.done:
		return ErrConnectionClosed
	case <-timer.C:
		return ErrSendTimeout
	}
}

// Close is idempotent.
func (t *WebSocketTransport) Close() error {
	var err error
	t.closeOnce.Do(func() {
		t.connected.Store(false)
		close(t.done)

		t.mu.Lock()
		conn := t.conn
		t.conn = nil
		t.mu.Unlock()

		if conn != nil {
			err = conn.Close(websocket.StatusNormalClosure, "closing")
		}
	})
	return err
}

func (t *WebSocketTransport) closed() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

func (t *WebSocketTransport) fail(err error) {
	t.mu.Lock()
	fn := t.onError
	t.mu.Unlock()
	if fn != nil {
		fn(err)
	}
}

func (t *WebSocketTransport) readLoop(conn *websocket.Conn) {
	defer t.Close()

	for !t.closed() {
		ctx, cancel := context.WithTimeout(context.Background(), t.cfg.ReadTimeout)
		_, data, err := conn.Read(ctx)
		cancel()
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
			default:
				if !t.closed() {
					t.fail(errors.Wrap(err, "read websocket"))
				}
			}
			return
		}

		msg, err := t.codec.Decode(data)
		if err != nil {
			t.fail(err)
			continue
		}

		select {
		case t.in <- msg:
		case <-t.done:
			return
		default:
			t.fail(errors.Wrapf(ErrTransportFull, "dropped %q", msg.Event))
		}
	}
}

func (t *WebSocketTransport) writeLoop(conn *websocket.Conn) {
	kind := websocket.MessageText
	if t.codec.Binary() {
		kind = websocket.MessageBinary
	}

	for {
		var msg *protocol.Message
		select {
		case msg = <-t.out:
		case <-t.done:
			return
		}

		data, err := t.codec.Encode(msg)
		if err != nil {
			t.fail(err)
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), t.cfg.WriteTimeout)
		err = conn.Write(ctx, kind, data)
		cancel()
		if err != nil {
			t.fail(errors.Wrap(err, "write websocket"))
			t.Close()
			return
		}
	}
}

// pingLoop keeps proxies from dropping quiet connections.
func (t *WebSocketTransport) pingLoop(conn *websocket.Conn) {
	ticker := time.NewTicker(t.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), t.cfg.WriteTimeout)
			_ = conn.Ping(ctx)
			cancel()
		case <-t.done:
			return
		}
	}
}
