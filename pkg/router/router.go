// Package router serves live components: server side renders for pages and
// the WebSocket endpoint that keeps a component instance per connection.
package router

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/consenterra/website/pkg/core"
	"github.com/consenterra/website/pkg/limits"
	"github.com/consenterra/website/pkg/logging"
	"github.com/consenterra/website/pkg/metrics"
	"github.com/consenterra/website/pkg/pool"
	"github.com/consenterra/website/pkg/protocol"
	"github.com/consenterra/website/pkg/transport"
)

// Common router errors.
var (
	ErrComponentNotFound = errors.New("component not found")
	ErrNotJoined         = errors.New("event before join")
	ErrNilRenderer       = errors.New("component returned nil renderer")
)

// DefaultMaxErrors is the number of consecutive failed events after which a
// socket is closed.
const DefaultMaxErrors = 5

// Middleware is a function that wraps an HTTP handler.
type Middleware func(http.Handler) http.Handler

// Router handles HTTP routing and the live socket endpoint.
type Router struct {
	mux        *http.ServeMux
	middleware []Middleware
	registry   *core.ComponentRegistry

	sessions *LiveViewSessionManager
	sockets  *core.SocketManager

	transportConfig *transport.Config
	wsConfig        *transport.WebSocketConfig
	timeouts        core.TimeoutConfig
	maxErrors       int
	events          *limits.TokenBucket

	logger  logging.Logger
	metrics *metrics.Metrics

	mu sync.RWMutex
}

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(r *Router) { r.logger = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Router) { r.metrics = m }
}

// WithWebSocketConfig sets origin rules for the live endpoint.
func WithWebSocketConfig(c *transport.WebSocketConfig) Option {
	return func(r *Router) { r.wsConfig = c }
}

// WithTransportConfig sets socket buffer sizes and timeouts.
func WithTransportConfig(c *transport.Config) Option {
	return func(r *Router) { r.transportConfig = c }
}

// WithTimeouts bounds component callbacks and idle sockets.
func WithTimeouts(t core.TimeoutConfig) Option {
	return func(r *Router) { r.timeouts = t }
}

// WithMaxErrors sets how many consecutive failed events close a socket.
func WithMaxErrors(n int) Option {
	return func(r *Router) { r.maxErrors = n }
}

// WithEventLimiter rate limits user events per socket.
func WithEventLimiter(tb *limits.TokenBucket) Option {
	return func(r *Router) { r.events = tb }
}

// New creates a new router.
func New(opts ...Option) *Router {
	r := &Router{
		mux:             http.NewServeMux(),
		registry:        core.NewComponentRegistry(),
		sessions:        NewLiveViewSessionManager(),
		sockets:         core.NewSocketManager(),
		transportConfig: transport.DefaultConfig(),
		wsConfig:        transport.DefaultWebSocketConfig(),
		timeouts:        core.DefaultTimeoutConfig(),
		maxErrors:       DefaultMaxErrors,
		logger:          logging.NopLogger{},
	}
	for _, opt := range opts {
		opt(r)
	}

	r.sockets.OnRemove(func(s *core.Socket, reason core.TerminateReason) {
		if session, ok := r.sessions.Get(s.ID()); ok {
			r.handleDisconnect(session, reason)
		}
	})

	return r
}

// Use adds middleware applied to handlers registered afterwards.
func (r *Router) Use(mw Middleware) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middleware = append(r.middleware, mw)
}

// Handle registers a standard HTTP handler wrapped in the router middleware.
func (r *Router) Handle(pattern string, handler http.Handler) {
	r.mu.RLock()
	middleware := make([]Middleware, len(r.middleware))
	copy(middleware, r.middleware)
	r.mu.RUnlock()

	h := handler
	for i := len(middleware) - 1; i >= 0; i-- {
		h = middleware[i](h)
	}

	r.mux.Handle(pattern, h)
}

// HandleFunc registers a standard HTTP handler function.
func (r *Router) HandleFunc(pattern string, handler http.HandlerFunc) {
	r.Handle(pattern, handler)
}

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Mount registers a live component under name. Clients join it with
// ?view=name on the socket endpoint.
func (r *Router) Mount(name string, factory func() core.Component) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registry.Register(name, factory)
}

// Registry returns the component registry.
func (r *Router) Registry() *core.ComponentRegistry {
	return r.registry
}

// SocketManager returns the socket manager.
func (r *Router) SocketManager() *core.SocketManager {
	return r.sockets
}

// SessionManager returns the session manager.
func (r *Router) SessionManager() *LiveViewSessionManager {
	return r.sessions
}

// RenderStatic mounts a throwaway instance of a component and renders it to a
// string, for embedding in server rendered pages.
func (r *Router) RenderStatic(ctx context.Context, factory func() core.Component, params core.Params) (string, error) {
	comp := factory()

	mountCtx, cancel := context.WithTimeout(ctx, r.timeouts.ComponentMount)
	defer cancel()
	if err := comp.Mount(mountCtx, params, core.Session{}); err != nil {
		return "", fmt.Errorf("mount %s: %w", comp.Name(), err)
	}
	defer comp.Terminate(ctx, core.TerminateNormal)

	return r.render(ctx, comp)
}

func (r *Router) render(ctx context.Context, comp core.Component) (string, error) {
	start := time.Now()

	renderCtx, cancel := context.WithTimeout(ctx, r.timeouts.ComponentRender)
	defer cancel()

	renderer := comp.Render(renderCtx)
	if renderer == nil {
		return "", ErrNilRenderer
	}

	markup, err := pool.WithBuffer(func(buf *bytes.Buffer) error {
		return renderer.Render(renderCtx, buf)
	})
	if err != nil {
		return "", err
	}

	r.metrics.RecordRender(time.Since(start))
	return markup, nil
}

// SocketHandler serves the live endpoint. Query parameters: view selects the
// mounted component, vsn the codec (json or msgpack), everything else is
// passed to Mount as params.
func (r *Router) SocketHandler() http.Handler {
	return http.HandlerFunc(r.handleWebSocket)
}

func (r *Router) handleWebSocket(w http.ResponseWriter, req *http.Request) {
	query := req.URL.Query()

	view := query.Get("view")
	r.mu.RLock()
	factory, ok := r.registry.Get(view)
	r.mu.RUnlock()
	if !ok {
		http.Error(w, fmt.Sprintf("%v: %q", ErrComponentNotFound, view), http.StatusNotFound)
		return
	}

	codec, err := protocol.CodecFor(query.Get("vsn"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if r.sockets.IsShutdown() {
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	}

	socketID := uuid.NewString()
	logger := r.logger.With(
		logging.String("socket_id", socketID),
		logging.String("view", view),
		logging.String("codec", codec.Name()),
	)

	wsTransport := transport.NewWebSocketTransport(r.transportConfig, r.wsConfig, codec)
	wsTransport.OnError(func(err error) {
		logger.Warn("socket transport error", logging.Err(err))
		r.metrics.RecordError("transport")
	})
	if err := wsTransport.Upgrade(w, req); err != nil {
		logger.Warn("websocket upgrade failed",
			logging.String("origin", req.Header.Get("Origin")),
			logging.Err(err),
		)
		r.metrics.RecordError("upgrade")
		return
	}

	socket := core.NewSocket(socketID, NewTransportAdapter(wsTransport, r.metrics))

	component := factory()
	if sa, ok := component.(core.SocketAware); ok {
		sa.SetSocket(socket)
	}

	params := extractParams(req)
	session := NewLiveViewSession(view, component, socket, params, extractSession(req))
	session.Transport = wsTransport
	session.Codec = codec

	// The socket outlives the upgrade request, so its context is rooted in
	// Background rather than req.Context().
	ctx, cancel := context.WithCancel(logging.ContextWithLogger(context.Background(), logger))
	session.cancel = cancel

	r.sessions.Add(session)
	if err := r.sockets.Add(socket); err != nil {
		r.sessions.Remove(socketID)
		cancel()
		return
	}

	logger.Debug("socket connected")

	go r.messageLoop(ctx, session)

	go func() {
		select {
		case <-wsTransport.Done():
			r.handleDisconnect(session, core.TerminateNormal)
		case <-ctx.Done():
		}
	}()
}

// messageLoop processes incoming messages of one socket.
func (r *Router) messageLoop(ctx context.Context, session *LiveViewSession) {
	recvCh := session.Transport.Receive()

	for {
		select {
		case msg, ok := <-recvCh:
			if !ok {
				return
			}

			session.Socket.Touch()
			r.metrics.MessageReceived(msg.Event)

			switch {
			case msg.IsHeartbeat():
				r.sendReply(session, msg.Ref, msg.Topic, nil)

			case msg.Event == protocol.EventJoin:
				r.handleJoin(ctx, session, msg)

			case msg.Event == protocol.EventLeave:
				r.handleDisconnect(session, core.TerminateNormal)
				return

			default:
				r.handleEvent(ctx, session, msg)
			}

		case <-ctx.Done():
			return
		}
	}
}

// handleJoin mounts the component on first join and replies with the full
// render.
func (r *Router) handleJoin(ctx context.Context, session *LiveViewSession, msg *protocol.Message) {
	session.compMu.Lock()
	defer session.compMu.Unlock()

	session.SetJoinRef(msg.Ref)
	if msg.JoinRef != "" {
		session.SetJoinRef(msg.JoinRef)
	}

	if !session.IsMounted() {
		mountCtx, cancel := context.WithTimeout(ctx, r.timeouts.ComponentMount)
		err := session.Component.Mount(mountCtx, session.Params, session.Session)
		cancel()
		if err != nil {
			logging.L(ctx).Error("mount failed", logging.Err(err))
			r.sendError(session, msg.Ref, err)
			return
		}
		session.SetMounted(true)
		r.metrics.ConnectionOpened()
	}

	markup, err := r.render(ctx, session.Component)
	if err != nil {
		logging.L(ctx).Error("render failed", logging.Err(err))
		r.sendError(session, msg.Ref, err)
		return
	}
	session.SetSlotHashes(slotHashes(markup))

	r.sendReply(session, msg.Ref, msg.Topic, map[string]any{
		"rendered":  markup,
		"socket_id": session.ID,
	})
}

// handleEvent dispatches a user event and pushes the resulting diff.
func (r *Router) handleEvent(ctx context.Context, session *LiveViewSession, msg *protocol.Message) {
	session.compMu.Lock()
	defer session.compMu.Unlock()

	if !session.IsMounted() {
		r.sendError(session, msg.Ref, ErrNotJoined)
		return
	}

	if r.events != nil && !r.events.Allow(session.ID) {
		r.metrics.RecordError("rate_limit")
		r.sendError(session, msg.Ref, limits.ErrRateLimited)
		return
	}

	payload := msg.Payload
	if payload == nil {
		payload = make(map[string]any)
	}

	eventCtx, cancel := context.WithTimeout(ctx, r.timeouts.ComponentEvent)
	err := session.Component.HandleEvent(eventCtx, msg.Event, payload)
	cancel()

	if err != nil {
		logging.L(ctx).Warn("event failed", logging.String("event", msg.Event), logging.Err(err))
		r.metrics.RecordError("event")
		r.sendError(session, msg.Ref, err)
		if session.Socket.Fail() >= r.maxErrors {
			logging.L(ctx).Warn("closing socket after repeated errors")
			session.Socket.Close()
		}
		return
	}
	session.Socket.Recover()

	r.renderAndSendDiff(ctx, session)
	r.sendReply(session, msg.Ref, msg.Topic, nil)
}

// renderAndSendDiff renders the component and sends the changed slots.
func (r *Router) renderAndSendDiff(ctx context.Context, session *LiveViewSession) {
	markup, err := r.render(ctx, session.Component)
	if err != nil {
		logging.L(ctx).Error("render failed", logging.Err(err))
		r.metrics.RecordError("render")
		return
	}

	payload := buildDiffPayload(session, markup)
	if payload == nil {
		return
	}

	r.metrics.RecordDiff(payload.Size())
	if err := session.Socket.SendDiff(payload); err != nil {
		logging.L(ctx).Warn("send diff failed", logging.Err(err))
	}
}

// handleDisconnect terminates the component and forgets the session. Only the
// first call for a session has an effect.
func (r *Router) handleDisconnect(session *LiveViewSession, reason core.TerminateReason) {
	session.closeOnce.Do(func() {
		if session.cancel != nil {
			session.cancel()
		}

		session.compMu.Lock()
		if session.IsMounted() {
			ctx := logging.ContextWithLogger(context.Background(), r.logger.With(logging.String("socket_id", session.ID)))
			if err := session.Component.Terminate(ctx, reason); err != nil {
				r.logger.Warn("terminate failed", logging.String("socket_id", session.ID), logging.Err(err))
			}
			r.metrics.ConnectionClosed()
		}
		session.compMu.Unlock()

		r.sessions.Remove(session.ID)
		r.sockets.Remove(session.ID)
		if r.events != nil {
			r.events.Forget(session.ID)
		}
		session.Socket.Close()

		r.logger.Debug("socket disconnected",
			logging.String("socket_id", session.ID),
			logging.String("reason", reason.String()),
		)
	})
}

// RunReaper closes idle sockets until ctx is done.
func (r *Router) RunReaper(ctx context.Context) {
	r.sockets.RunReaper(ctx, r.timeouts.SessionCleanup, r.timeouts.IdleTimeout)
}

// Shutdown stops accepting sockets and terminates every joined component.
func (r *Router) Shutdown(ctx context.Context) error {
	return r.sockets.Shutdown(ctx)
}

func (r *Router) sendReply(session *LiveViewSession, ref, topic string, response map[string]any) {
	if topic == "" {
		topic = session.Topic()
	}
	if response == nil {
		response = map[string]any{}
	}
	if err := session.Socket.Send(protocol.OkReply(ref, topic, response)); err != nil {
		r.logger.Debug("reply dropped", logging.String("socket_id", session.ID), logging.Err(err))
	}
}

func (r *Router) sendError(session *LiveViewSession, ref string, err error) {
	if sendErr := session.Socket.Send(protocol.ErrorReply(ref, session.Topic(), err.Error())); sendErr != nil {
		r.logger.Debug("error reply dropped", logging.String("socket_id", session.ID), logging.Err(sendErr))
	}
}

// extractParams collects the first value of every query parameter.
func extractParams(req *http.Request) core.Params {
	params := make(core.Params)
	for key, values := range req.URL.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}
	return params
}

// extractSession carries cookies and the request id into the component session.
func extractSession(req *http.Request) core.Session {
	session := make(core.Session)
	if id := GetRequestID(req.Context()); id != "" {
		session["request_id"] = id
	}
	for _, cookie := range req.Cookies() {
		session["cookie:"+cookie.Name] = cookie.Value
	}
	return session
}
