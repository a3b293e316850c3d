package router

import (
	"context"
	"sync"
	"time"

	"github.com/consenterra/website/pkg/core"
	"github.com/consenterra/website/pkg/protocol"
	"github.com/consenterra/website/pkg/transport"
)

// LiveViewSession binds one joined WebSocket to one component instance.
type LiveViewSession struct {
	// ID equals the socket ID.
	ID string

	// View is the name the component was mounted under.
	View string

	Component core.Component
	Socket    *core.Socket
	Transport *transport.WebSocketTransport
	Codec     protocol.Codec

	Params  core.Params
	Session core.Session

	CreatedAt time.Time

	joinRef string
	mounted bool
	version uint64

	// Hash of every slot in the last render; the "" key holds the hash of a
	// slotless render.
	slotHashes map[string]uint64

	// compMu serializes callbacks into Component.
	compMu sync.Mutex

	cancel    context.CancelFunc
	closeOnce sync.Once

	mu sync.RWMutex
}

// NewLiveViewSession creates a session for a socket.
func NewLiveViewSession(view string, comp core.Component, socket *core.Socket, params core.Params, session core.Session) *LiveViewSession {
	return &LiveViewSession{
		ID:        socket.ID(),
		View:      view,
		Component: comp,
		Socket:    socket,
		Params:    params,
		Session:   session,
		CreatedAt: time.Now(),
	}
}

// Topic returns the channel topic of the session.
func (s *LiveViewSession) Topic() string {
	return s.Socket.Topic()
}

// SetMounted records whether Mount succeeded.
func (s *LiveViewSession) SetMounted(mounted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mounted = mounted
}

// IsMounted reports whether the component has been mounted.
func (s *LiveViewSession) IsMounted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mounted
}

// SetJoinRef stores the join reference of the client.
func (s *LiveViewSession) SetJoinRef(ref string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.joinRef = ref
}

// JoinRef returns the join reference of the client.
func (s *LiveViewSession) JoinRef() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.joinRef
}

// NextVersion increments and returns the diff version.
func (s *LiveViewSession) NextVersion() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.version++
	return s.version
}

// Version returns the last diff version sent.
func (s *LiveViewSession) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// SlotHashes returns the hashes of the last render.
func (s *LiveViewSession) SlotHashes() map[string]uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.slotHashes
}

// SetSlotHashes stores the hashes of the latest render.
func (s *LiveViewSession) SetSlotHashes(hashes map[string]uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slotHashes = hashes
}

// LiveViewSessionManager tracks the sessions of joined sockets.
type LiveViewSessionManager struct {
	sessions map[string]*LiveViewSession
	mu       sync.RWMutex
}

// NewLiveViewSessionManager creates an empty manager.
func NewLiveViewSessionManager() *LiveViewSessionManager {
	return &LiveViewSessionManager{
		sessions: make(map[string]*LiveViewSession),
	}
}

// Add registers a session.
func (m *LiveViewSessionManager) Add(s *LiveViewSession) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
}

// Get returns the session of a socket.
func (m *LiveViewSessionManager) Get(id string) (*LiveViewSession, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Remove drops a session.
func (m *LiveViewSessionManager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Count returns the number of sessions.
func (m *LiveViewSessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
