package core

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"sort"
	"sync"
)

// Assigns holds the values a component publishes about its state. Every
// write is fingerprinted so writers can tell which keys actually moved.
type Assigns struct {
	mu     sync.RWMutex
	values map[string]any
	prints map[string]uint64
	dirty  map[string]struct{}
}

// NewAssigns returns an empty store.
func NewAssigns() *Assigns {
	return &Assigns{
		values: make(map[string]any),
		prints: make(map[string]uint64),
		dirty:  make(map[string]struct{}),
	}
}

func (a *Assigns) Get(key string) any {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.values[key]
}

func (a *Assigns) GetString(key string) string {
	s, _ := a.Get(key).(string)
	return s
}

func (a *Assigns) GetBool(key string) bool {
	b, _ := a.Get(key).(bool)
	return b
}

// Set stores value under key.
func (a *Assigns) Set(key string, value any) {
	a.mu.Lock()
	a.put(key, value)
	a.mu.Unlock()
}

// SetAll stores every entry of values under one lock.
func (a *Assigns) SetAll(values map[string]any) {
	a.mu.Lock()
	for k, v := range values {
		a.put(k, v)
	}
	a.mu.Unlock()
}

func (a *Assigns) put(key string, value any) {
	fp := fingerprint(value)
	if old, ok := a.prints[key]; !ok || old != fp {
		a.dirty[key] = struct{}{}
	}
	a.prints[key] = fp
	a.values[key] = value
}

// Changed returns the keys whose value differs since the previous call, in
// sorted order, and forgets them.
func (a *Assigns) Changed() []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	keys := make([]string, 0, len(a.dirty))
	for k := range a.dirty {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	clear(a.dirty)
	return keys
}

// Data returns a copy of the stored values.
func (a *Assigns) Data() map[string]any {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make(map[string]any, len(a.values))
	for k, v := range a.values {
		out[k] = v
	}
	return out
}

// fingerprint hashes the kinds of values components publish. Anything else
// goes through its JSON encoding.
func fingerprint(v any) uint64 {
	h := fnv.New64a()
	switch val := v.(type) {
	case nil:
		h.Write([]byte{0})
	case bool:
		fmt.Fprintf(h, "b:%t", val)
	case string:
		fmt.Fprintf(h, "s:%s", val)
	case int, int64, uint64:
		fmt.Fprintf(h, "i:%d", val)
	default:
		data, err := json.Marshal(val)
		if err != nil {
			fmt.Fprintf(h, "x:%#v", val)
		} else {
			h.Write(data)
		}
	}
	return h.Sum64()
}
