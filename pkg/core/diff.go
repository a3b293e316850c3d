package core

// DiffPayload is what a client applies after an event: the inner markup of
// each changed data-slot element, or the whole render when the markup has
// no slots. Version increases with every diff of a socket.
type DiffPayload struct {
	Version   uint64            `json:"v"`
	HTMLSlots map[string]string `json:"h,omitempty"`
	Full      string            `json:"f,omitempty"`
}

// Empty is true for a nil payload too.
func (d *DiffPayload) Empty() bool {
	return d == nil || (len(d.HTMLSlots) == 0 && d.Full == "")
}

// Size is the number of markup bytes carried.
func (d *DiffPayload) Size() int {
	n := len(d.Full)
	for _, html := range d.HTMLSlots {
		n += len(html)
	}
	return n
}

// Map is the frame payload: {"v", "h"} or {"v", "f"}.
func (d *DiffPayload) Map() map[string]any {
	m := map[string]any{"v": d.Version}
	if len(d.HTMLSlots) > 0 {
		m["h"] = d.HTMLSlots
	}
	if d.Full != "" {
		m["f"] = d.Full
	}
	return m
}
