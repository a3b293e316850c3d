package router

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/consenterra/website/pkg/core"
	"github.com/consenterra/website/pkg/limits"
	"github.com/consenterra/website/pkg/protocol"
)

// switchComponent renders two slots: one toggled by events, one echoing the
// mount path.
type switchComponent struct {
	core.BaseComponent
	on         bool
	path       string
	terminated chan core.TerminateReason
}

func newSwitch(terminated chan core.TerminateReason) func() core.Component {
	return func() core.Component {
		return &switchComponent{terminated: terminated}
	}
}

func (c *switchComponent) Name() string { return "switch" }

func (c *switchComponent) Mount(ctx context.Context, params core.Params, session core.Session) error {
	c.path = params.GetDefault("path", "/")
	return nil
}

func (c *switchComponent) Render(ctx context.Context) core.Renderer {
	state := "off"
	if c.on {
		state = "on"
	}
	return core.HTML(fmt.Sprintf(
		`<header><div data-slot="state"><span class="%s">%s</span></div><div data-slot="path">%s</div></header>`,
		state, state, c.path))
}

func (c *switchComponent) HandleEvent(ctx context.Context, event string, payload map[string]any) error {
	switch event {
	case "toggle":
		c.on = !c.on
	case "fail":
		return errors.New("cannot handle")
	case "push":
		return c.Socket().Push("navigate", map[string]any{"href": "/about"})
	}
	return nil
}

func (c *switchComponent) Terminate(ctx context.Context, reason core.TerminateReason) error {
	if c.terminated != nil {
		c.terminated <- reason
	}
	return nil
}

func TestRouter_RenderStatic(t *testing.T) {
	r := New()

	html, err := r.RenderStatic(context.Background(), newSwitch(nil), core.Params{"path": "/about"})
	require.NoError(t, err)
	assert.Contains(t, html, `<div data-slot="path">/about</div>`)
	assert.Contains(t, html, `<span class="off">off</span>`)
}

func TestRouter_SocketHandler_Rejects(t *testing.T) {
	r := New()
	r.Mount("switch", newSwitch(nil))

	tests := []struct {
		name  string
		query string
		code  int
	}{
		{name: "unknown view", query: "?view=missing", code: http.StatusNotFound},
		{name: "no view", query: "", code: http.StatusNotFound},
		{name: "unknown codec", query: "?view=switch&vsn=phoenix", code: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.SocketHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/_live/websocket"+tt.query, nil))
			assert.Equal(t, tt.code, w.Code)
		})
	}
}

type liveClient struct {
	t     *testing.T
	conn  *websocket.Conn
	codec protocol.Codec
	ctx   context.Context
}

func dialLive(t *testing.T, ctx context.Context, srv *httptest.Server, query string, codec protocol.Codec) *liveClient {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/_live/websocket" + query
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	return &liveClient{t: t, conn: conn, codec: codec, ctx: ctx}
}

func (c *liveClient) send(msg *protocol.Message) {
	c.t.Helper()
	data, err := c.codec.Encode(msg)
	require.NoError(c.t, err)
	typ := websocket.MessageText
	if c.codec.Binary() {
		typ = websocket.MessageBinary
	}
	require.NoError(c.t, c.conn.Write(c.ctx, typ, data))
}

func (c *liveClient) read() *protocol.Message {
	c.t.Helper()
	_, data, err := c.conn.Read(c.ctx)
	require.NoError(c.t, err)
	msg, err := c.codec.Decode(data)
	require.NoError(c.t, err)
	return msg
}

// drain reads until the connection fails so the server's close handshake can
// complete. The returned channel closes when reading stops.
func (c *liveClient) drain() <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := c.conn.Read(c.ctx); err != nil {
				return
			}
		}
	}()
	return done
}

func TestRouter_LiveRoundTrip(t *testing.T) {
	for _, codec := range []protocol.Codec{protocol.NewJSONCodec(), protocol.NewMsgPackCodec()} {
		t.Run(codec.Name(), func(t *testing.T) {
			defer goleak.VerifyNone(t)

			terminated := make(chan core.TerminateReason, 1)
			r := New()
			r.Mount("switch", newSwitch(terminated))
			r.Handle("/_live/websocket", r.SocketHandler())

			srv := httptest.NewServer(r)
			defer srv.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			c := dialLive(t, ctx, srv, "?view=switch&path=/career&vsn="+codec.Name(), codec)
			defer c.conn.CloseNow()

			// Events before join are refused.
			c.send(protocol.NewMessage(protocol.MsgEvent, "lv:x", "toggle").WithRef("0"))
			early := c.read()
			assert.Equal(t, "error", early.Payload["status"])

			c.send(protocol.NewMessage(protocol.MsgJoin, "lv:x", protocol.EventJoin).WithRef("1"))
			join := c.read()
			require.Equal(t, protocol.EventReply, join.Event)
			assert.Equal(t, "1", join.Ref)
			assert.Equal(t, "ok", join.Payload["status"])
			response, ok := join.Payload["response"].(map[string]any)
			require.True(t, ok, "join response should be a map, got %T", join.Payload["response"])
			assert.Contains(t, response["rendered"], "/career")
			assert.Equal(t, 1, r.SessionManager().Count())

			c.send(protocol.NewMessage(protocol.MsgEvent, "lv:x", "toggle").WithRef("2"))
			diff := c.read()
			require.Equal(t, protocol.EventDiff, diff.Event)
			slots, ok := diff.Payload["h"].(map[string]any)
			require.True(t, ok, "diff slots should be a map, got %T", diff.Payload["h"])
			assert.Len(t, slots, 1, "only the changed slot is sent")
			assert.Equal(t, `<span class="on">on</span>`, slots["state"])
			reply := c.read()
			assert.Equal(t, "2", reply.Ref)

			c.send(protocol.NewMessage(protocol.MsgEvent, "lv:x", "push").WithRef("3"))
			push := c.read()
			assert.Equal(t, protocol.MsgPush, push.Type)
			assert.Equal(t, "navigate", push.Event)
			assert.Equal(t, "/about", push.PayloadString("href"))
			// Nothing re-rendered, so the reply follows without a diff.
			assert.Equal(t, "3", c.read().Ref)

			c.send(protocol.NewMessage(protocol.MsgHeartbeat, "phoenix", protocol.EventHeartbeat).WithRef("4"))
			assert.Equal(t, "4", c.read().Ref)

			c.send(protocol.NewMessage(protocol.MsgLeave, "lv:x", protocol.EventLeave).WithRef("5"))

			select {
			case reason := <-terminated:
				assert.Equal(t, core.TerminateNormal, reason)
			case <-ctx.Done():
				t.Fatal("component was not terminated")
			}

			_, _, err := c.conn.Read(ctx)
			assert.Error(t, err, "server closes the socket after leave")
			assert.Eventually(t, func() bool { return r.SocketManager().Count() == 0 }, time.Second, 10*time.Millisecond)
		})
	}
}

func TestRouter_ClosesAfterRepeatedErrors(t *testing.T) {
	defer goleak.VerifyNone(t)

	terminated := make(chan core.TerminateReason, 1)
	r := New(WithMaxErrors(2))
	r.Mount("switch", newSwitch(terminated))

	srv := httptest.NewServer(r.SocketHandler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c := dialLive(t, ctx, srv, "?view=switch", protocol.NewJSONCodec())
	defer c.conn.CloseNow()

	c.send(protocol.NewMessage(protocol.MsgJoin, "lv:x", protocol.EventJoin).WithRef("1"))
	c.read()

	c.send(protocol.NewMessage(protocol.MsgEvent, "lv:x", "fail").WithRef("f1"))
	failed := c.read()
	assert.Equal(t, "error", failed.Payload["status"])

	// The second failure closes the socket; its reply may race the close.
	c.send(protocol.NewMessage(protocol.MsgEvent, "lv:x", "fail").WithRef("f2"))
	done := c.drain()

	select {
	case reason := <-terminated:
		assert.Equal(t, core.TerminateNormal, reason)
	case <-ctx.Done():
		t.Fatal("socket was not closed")
	}
	<-done
}

func TestRouter_RateLimitsEvents(t *testing.T) {
	defer goleak.VerifyNone(t)

	events := limits.NewTokenBucket(0, 1)
	terminated := make(chan core.TerminateReason, 1)
	r := New(WithEventLimiter(events))
	r.Mount("switch", newSwitch(terminated))

	srv := httptest.NewServer(r.SocketHandler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c := dialLive(t, ctx, srv, "?view=switch", protocol.NewJSONCodec())
	defer c.conn.CloseNow()

	c.send(protocol.NewMessage(protocol.MsgJoin, "lv:x", protocol.EventJoin).WithRef("1"))
	c.read()

	c.send(protocol.NewMessage(protocol.MsgEvent, "lv:x", "toggle").WithRef("2"))
	assert.Equal(t, protocol.EventDiff, c.read().Event)
	assert.Equal(t, "2", c.read().Ref)

	c.send(protocol.NewMessage(protocol.MsgEvent, "lv:x", "toggle").WithRef("3"))
	limited := c.read()
	assert.Equal(t, "3", limited.Ref)
	assert.Equal(t, "error", limited.Payload["status"])
	response := limited.Payload["response"].(map[string]any)
	assert.Equal(t, limits.ErrRateLimited.Error(), response["reason"])

	c.send(protocol.NewMessage(protocol.MsgLeave, "lv:x", protocol.EventLeave).WithRef("4"))
	<-terminated
	assert.Eventually(t, func() bool { return events.Len() == 0 }, 2*time.Second, 10*time.Millisecond)
	<-c.drain()
}

func TestRouter_ShutdownTerminatesSockets(t *testing.T) {
	defer goleak.VerifyNone(t)

	terminated := make(chan core.TerminateReason, 1)
	r := New()
	r.Mount("switch", newSwitch(terminated))

	srv := httptest.NewServer(r.SocketHandler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c := dialLive(t, ctx, srv, "?view=switch", protocol.NewJSONCodec())
	defer c.conn.CloseNow()

	c.send(protocol.NewMessage(protocol.MsgJoin, "lv:x", protocol.EventJoin).WithRef("1"))
	c.read()
	done := c.drain()

	require.NoError(t, r.Shutdown(ctx))
	<-done

	select {
	case reason := <-terminated:
		assert.Equal(t, core.TerminateShutdown, reason)
	case <-ctx.Done():
		t.Fatal("component was not terminated on shutdown")
	}

	w := httptest.NewRecorder()
	r.SocketHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/?view=switch", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
