package router

import (
	"github.com/consenterra/website/pkg/metrics"
	"github.com/consenterra/website/pkg/protocol"
	"github.com/consenterra/website/pkg/transport"
)

// TransportAdapter adapts transport.WebSocketTransport to core.Transport and
// counts outbound messages.
type TransportAdapter struct {
	ws      *transport.WebSocketTransport
	metrics *metrics.Metrics
}

// NewTransportAdapter wraps ws. m may be nil.
func NewTransportAdapter(ws *transport.WebSocketTransport, m *metrics.Metrics) *TransportAdapter {
	return &TransportAdapter{ws: ws, metrics: m}
}

// Send implements core.Transport.
func (a *TransportAdapter) Send(msg *protocol.Message) error {
	if err := a.ws.Send(msg); err != nil {
		return err
	}
	a.metrics.MessageSent(msg.Event)
	return nil
}

// Close implements core.Transport.
func (a *TransportAdapter) Close() error {
	return a.ws.Close()
}

// IsConnected implements core.Transport.
func (a *TransportAdapter) IsConnected() bool {
	return a.ws.IsConnected()
}

// WebSocket returns the underlying transport.
func (a *TransportAdapter) WebSocket() *transport.WebSocketTransport {
	return a.ws
}
