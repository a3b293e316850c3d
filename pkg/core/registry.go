package core

import (
	"sort"
	"sync"
)

// ComponentRegistry maps view names to component factories.
type ComponentRegistry struct {
	mu        sync.RWMutex
	factories map[string]func() Component
}

func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{factories: make(map[string]func() Component)}
}

// Register binds name to factory, replacing any earlier binding.
func (r *ComponentRegistry) Register(name string, factory func() Component) {
	r.mu.Lock()
	r.factories[name] = factory
	r.mu.Unlock()
}

func (r *ComponentRegistry) Get(name string) (func() Component, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[name]
	return f, ok
}

// Names returns the registered view names, sorted.
func (r *ComponentRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
