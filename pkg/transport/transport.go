// Package transport moves protocol frames over a server side websocket.
package transport

import (
	"errors"
	"time"
)

var (
	ErrNotConnected     = errors.New("transport not connected")
	ErrConnectionClosed = errors.New("connection closed")
	ErrSendTimeout      = errors.New("send timeout")
	ErrTransportFull    = errors.New("transport buffer full")
	ErrOriginNotAllowed = errors.New("origin not allowed")
)

// Config bounds a single connection. ReadTimeout must exceed the client's
// heartbeat period or idle sockets get dropped.
type Config struct {
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	PingInterval      time.Duration
	MaxMessageSize    int64
	SendBufferSize    int
	ReceiveBufferSize int
}

func DefaultConfig() *Config {
	return &Config{
		ReadTimeout:       time.Minute,
		WriteTimeout:      10 * time.Second,
		PingInterval:      30 * time.Second,
		MaxMessageSize:    64 << 10,
		SendBufferSize:    64,
		ReceiveBufferSize: 64,
	}
}

// orDefault fills zero fields from DefaultConfig.
func (c *Config) orDefault() *Config {
	def := DefaultConfig()
	if c == nil {
		return def
	}
	out := *c
	if out.ReadTimeout <= 0 {
		out.ReadTimeout = def.ReadTimeout
	}
	if out.WriteTimeout <= 0 {
		out.WriteTimeout = def.WriteTimeout
	}
	if out.PingInterval <= 0 {
		out.PingInterval = def.PingInterval
	}
	if out.MaxMessageSize <= 0 {
		out.MaxMessageSize = def.MaxMessageSize
	}
	if out.SendBufferSize < 0 {
		out.SendBufferSize = def.SendBufferSize
	}
	if out.ReceiveBufferSize < 0 {
		out.ReceiveBufferSize = def.ReceiveBufferSize
	}
	return &out
}
