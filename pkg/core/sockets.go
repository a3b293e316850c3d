package core

import (
	"context"
	"sync"
	"time"
)

// SocketManager indexes joined sockets by id and evicts idle ones.
type SocketManager struct {
	mu       sync.RWMutex
	sockets  map[string]*Socket
	closing  bool
	onRemove func(*Socket, TerminateReason)
}

func NewSocketManager() *SocketManager {
	return &SocketManager{sockets: make(map[string]*Socket)}
}

// OnRemove is called, outside the lock, for sockets the manager evicts on
// its own: idle reaping and shutdown. Explicit Remove calls do not fire it.
func (m *SocketManager) OnRemove(fn func(*Socket, TerminateReason)) {
	m.mu.Lock()
	m.onRemove = fn
	m.mu.Unlock()
}

// Add indexes s. After Shutdown s is closed and ErrSocketClosed returned.
func (m *SocketManager) Add(s *Socket) error {
	m.mu.Lock()
	if m.closing {
		m.mu.Unlock()
		_ = s.Close()
		return ErrSocketClosed
	}
	m.sockets[s.ID()] = s
	m.mu.Unlock()
	return nil
}

func (m *SocketManager) Remove(id string) {
	m.mu.Lock()
	delete(m.sockets, id)
	m.mu.Unlock()
}

func (m *SocketManager) Get(id string) (*Socket, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sockets[id]
	return s, ok
}

func (m *SocketManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sockets)
}

func (m *SocketManager) IsShutdown() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.closing
}

// evict removes every socket match accepts and returns them along
// with the current callback.
func (m *SocketManager) evict(match func(*Socket) bool) ([]*Socket, func(*Socket, TerminateReason)) {
	var out []*Socket
	for id, s := range m.sockets {
		if match(s) {
			out = append(out, s)
			delete(m.sockets, id)
		}
	}
	return out, m.onRemove
}

func release(sockets []*Socket, fn func(*Socket, TerminateReason), reason TerminateReason) {
	for _, s := range sockets {
		if fn != nil {
			fn(s, reason)
		}
		_ = s.Close()
	}
}

// Shutdown refuses new sockets and closes the current ones. Later calls do
// nothing.
func (m *SocketManager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	if m.closing {
		m.mu.Unlock()
		return nil
	}
	m.closing = true
	all, fn := m.evict(func(*Socket) bool { return true })
	m.mu.Unlock()

	for i, s := range all {
		if err := ctx.Err(); err != nil {
			// The rest are closed without notifying their components.
			release(all[i:], nil, TerminateShutdown)
			return err
		}
		release([]*Socket{s}, fn, TerminateShutdown)
	}
	return nil
}

// Reap closes sockets idle for longer than maxIdle and returns how many.
func (m *SocketManager) Reap(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	m.mu.Lock()
	stale, fn := m.evict(func(s *Socket) bool { return s.LastActivity().Before(cutoff) })
	m.mu.Unlock()

	release(stale, fn, TerminateTimeout)
	return len(stale)
}

// RunReaper calls Reap every interval until ctx ends.
func (m *SocketManager) RunReaper(ctx context.Context, interval, maxIdle time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			m.Reap(maxIdle)
		case <-ctx.Done():
			return
		}
	}
}
