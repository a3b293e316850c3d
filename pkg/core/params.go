package core

// Params are the query parameters of the live connection, or the values a
// page passes to a static render.
type Params map[string]string

func (p Params) Get(key string) string {
	return p[key]
}

// GetDefault returns def when key is absent.
func (p Params) GetDefault(key, def string) string {
	if v, ok := p[key]; ok {
		return v
	}
	return def
}

// Session carries request scoped values from the upgrade request: the
// request id and cookies prefixed with "cookie:".
type Session map[string]any

func (s Session) GetString(key string) string {
	v, _ := s[key].(string)
	return v
}
