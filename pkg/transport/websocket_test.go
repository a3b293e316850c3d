package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/goleak"

	"github.com/consenterra/website/pkg/protocol"
)

func TestWebSocket_OriginValidation(t *testing.T) {
	tests := []struct {
		name          string
		wsConfig      *WebSocketConfig
		origin        string
		host          string
		expectAllowed bool
	}{
		{
			name:          "same-origin allowed",
			wsConfig:      &WebSocketConfig{},
			origin:        "https://consenterra.com",
			host:          "consenterra.com",
			expectAllowed: true,
		},
		{
			name:          "no origin allowed",
			wsConfig:      &WebSocketConfig{},
			origin:        "",
			host:          "consenterra.com",
			expectAllowed: true,
		},
		{
			name:          "explicit origin allowed",
			wsConfig:      &WebSocketConfig{AllowedOrigins: []string{"https://preview.consenterra.com"}},
			origin:        "https://preview.consenterra.com",
			host:          "consenterra.com",
			expectAllowed: true,
		},
		{
			name:          "origin not in list blocked",
			wsConfig:      &WebSocketConfig{AllowedOrigins: []string{"https://preview.consenterra.com"}},
			origin:        "https://attacker.com",
			host:          "consenterra.com",
			expectAllowed: false,
		},
		{
			name:          "wildcard allows all",
			wsConfig:      &WebSocketConfig{AllowedOrigins: []string{"*"}},
			origin:        "https://any-site.com",
			host:          "consenterra.com",
			expectAllowed: true,
		},
		{
			name:          "insecure dev mode allows all",
			wsConfig:      &WebSocketConfig{InsecureDevMode: true},
			origin:        "https://attacker.com",
			host:          "consenterra.com",
			expectAllowed: true,
		},
		{
			name:          "allow-listed host matches any scheme",
			wsConfig:      &WebSocketConfig{AllowedOrigins: []string{"https://preview.consenterra.com"}},
			origin:        "http://preview.consenterra.com",
			host:          "consenterra.com",
			expectAllowed: true,
		},
		{
			name:          "unparseable origin blocked",
			wsConfig:      &WebSocketConfig{},
			origin:        "://bad",
			host:          "consenterra.com",
			expectAllowed: false,
		},
		{
			name:          "cross-origin blocked by default",
			wsConfig:      &WebSocketConfig{},
			origin:        "https://other-site.com",
			host:          "consenterra.com",
			expectAllowed: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allowed := tt.wsConfig.allows(tt.origin, tt.host)

			if allowed != tt.expectAllowed {
				t.Errorf("allows(%q, %q) = %v, want %v",
					tt.origin, tt.host, allowed, tt.expectAllowed)
			}
		})
	}
}

func TestWebSocket_RejectsInvalidOrigin(t *testing.T) {
	transport := NewWebSocketTransport(DefaultConfig(), &WebSocketConfig{
		AllowedOrigins: []string{"https://preview.consenterra.com"},
	}, nil)

	req := httptest.NewRequest("GET", "/_live/websocket", nil)
	req.Header.Set("Origin", "https://attacker.com")
	req.Header.Set("Upgrade", "websocket")
	req.Header.Set("Connection", "Upgrade")
	req.Host = "consenterra.com"

	w := httptest.NewRecorder()

	err := transport.Upgrade(w, req)

	if err != ErrOriginNotAllowed {
		t.Errorf("Expected ErrOriginNotAllowed, got %v", err)
	}

	if w.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", w.Code)
	}
}

func TestWebSocket_SendBeforeUpgrade(t *testing.T) {
	transport := NewWebSocketTransport(nil, nil, nil)

	if err := transport.Send(protocol.NewMessage(protocol.MsgPush, "lv:x", "navigate")); err != ErrNotConnected {
		t.Errorf("Expected ErrNotConnected, got %v", err)
	}
}

func TestWebSocket_EchoRoundTrip(t *testing.T) {
	defer goleak.VerifyNone(t)

	accepted := make(chan *WebSocketTransport, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tr := NewWebSocketTransport(DefaultConfig(), nil, protocol.NewJSONCodec())
		if err := tr.Upgrade(w, r); err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		accepted <- tr
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	server := <-accepted

	if err := conn.Write(ctx, websocket.MessageText, []byte(`{"t":2,"ref":"1","topic":"lv:x","event":"toggle-menu"}`)); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case msg := <-server.Receive():
		if msg.Event != "toggle-menu" {
			t.Errorf("Expected toggle-menu, got %q", msg.Event)
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for client event")
	}

	if err := server.Send(protocol.PushMessage("lv:x", "navigate", map[string]any{"href": "/about"})); err != nil {
		t.Fatalf("send: %v", err)
	}

	typ, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if typ != websocket.MessageText {
		t.Errorf("Expected text frame for json codec, got %v", typ)
	}

	msg, err := protocol.NewJSONCodec().Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.PayloadString("href") != "/about" {
		t.Errorf("Expected href /about, got %q", msg.PayloadString("href"))
	}

	conn.Close(websocket.StatusNormalClosure, "done")

	select {
	case <-server.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("server transport did not observe close")
	}
	if server.IsConnected() {
		t.Error("transport should report disconnected after close")
	}
}

func TestDefaultWebSocketConfig(t *testing.T) {
	config := DefaultWebSocketConfig()

	if config.InsecureDevMode {
		t.Error("InsecureDevMode should be false by default")
	}

	if config.AllowedOrigins != nil {
		t.Error("AllowedOrigins should be nil by default (same-origin only)")
	}
}

func TestConfig_OrDefault(t *testing.T) {
	var nilCfg *Config
	if got := nilCfg.orDefault(); *got != *DefaultConfig() {
		t.Errorf("nil config should fall back to defaults, got %+v", got)
	}

	got := (&Config{ReadTimeout: time.Second, SendBufferSize: 1}).orDefault()
	if got.ReadTimeout != time.Second || got.SendBufferSize != 1 {
		t.Errorf("explicit values must survive, got %+v", got)
	}
	if got.WriteTimeout != DefaultConfig().WriteTimeout || got.MaxMessageSize != 64<<10 {
		t.Errorf("zero values should take defaults, got %+v", got)
	}
}
