package transport

import "net/url"

// WebSocketConfig decides which browser origins may open a live socket.
// With no AllowedOrigins only same host requests pass. "*" allows any.
type WebSocketConfig struct {
	AllowedOrigins  []string
	InsecureDevMode bool // skips the check entirely
}

func DefaultWebSocketConfig() *WebSocketConfig {
	return &WebSocketConfig{}
}

// allows reports whether a request carrying origin may upgrade on host.
// Requests without an Origin header come from non-browser clients.
func (c *WebSocketConfig) allows(origin, host string) bool {
	if c.InsecureDevMode || origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if u.Host == host {
		return true
	}
	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
		if a, err := url.Parse(allowed); err == nil && a.Host != "" && a.Host == u.Host {
			return true
		}
	}
	return false
}
