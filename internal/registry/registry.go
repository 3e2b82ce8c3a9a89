// Package registry tracks the game sessions that are currently being played.
// The SSH server registers a session when its engine starts and removes it
// at teardown; the status API lists them.
package registry

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Session describes one running game.
type Session struct {
	ID        string    `json:"id"`
	Player    string    `json:"player"`
	Mode      string    `json:"mode"`
	Remote    string    `json:"remote,omitempty"`
	StartedAt time.Time `json:"started_at"`
}

// Registry is a concurrency-safe set of running sessions keyed by ID.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{sessions: make(map[string]Session)}
}

// Add registers a session. Returns an error if the ID is already in use.
func (r *Registry) Add(s Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[s.ID]; exists {
		return fmt.Errorf("registry: session %q already registered", s.ID)
	}
	r.sessions[s.ID] = s
	return nil
}

// Remove forgets a session. Unknown IDs are ignored.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, id)
}

// Get looks up a session by ID.
func (r *Registry) Get(id string) (Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	return s, ok
}

// List returns all running sessions, oldest first.
func (r *Registry) List() []Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		result = append(result, s)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].StartedAt.Equal(result[j].StartedAt) {
			return result[i].StartedAt.Before(result[j].StartedAt)
		}
		return result[i].ID < result[j].ID
	})

	return result
}

// Len returns the number of running sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}
