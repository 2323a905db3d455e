package registry

import (
	"sync"

	"github.com/roomloop/roomloop/internal/domain"
)

// SessionRegistry maps live connection IDs to their session binding. It is
// the single source of truth for who is connected as whom, in which room,
// scoped to this process. State is deliberately not persisted: presence dies
// with the process.
type SessionRegistry interface {
	// Bind creates or replaces the session for a connection and returns the
	// previous session, if any (room-switch on re-join).
	Bind(connID, username, room string) (prev *domain.Session)
	// Lookup returns the session bound to a connection.
	Lookup(connID string) (*domain.Session, bool)
	// Unbind removes and returns the session bound to a connection.
	Unbind(connID string) (*domain.Session, bool)
	// Len reports the number of bound sessions.
	Len() int
}

type memoryRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
}

// NewMemoryRegistry creates an in-memory session registry.
func NewMemoryRegistry() SessionRegistry {
	return &memoryRegistry{sessions: make(map[string]*domain.Session)}
}

func (r *memoryRegistry) Bind(connID, username, room string) *domain.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev := r.sessions[connID]
	r.sessions[connID] = &domain.Session{
		ConnID:   connID,
		Username: username,
		Room:     room,
	}
	return prev
}

func (r *memoryRegistry) Lookup(connID string) (*domain.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[connID]
	return s, ok
}

func (r *memoryRegistry) Unbind(connID string) (*domain.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[connID]
	if ok {
		delete(r.sessions, connID)
	}
	return s, ok
}

func (r *memoryRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}
