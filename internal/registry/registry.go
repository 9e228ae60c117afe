// Package registry tracks the open WebSocket sessions of the LED endpoint.
package registry

import (
	"sort"
	"sync"

	"controlling_led/internal/logger"
)

// Sender is the transport handle of one session.
type Sender interface {
	Send(msg []byte) error
}

// Client is one registry entry.
type Client struct {
	ID     int64
	Sender Sender
}

// Registry is a mutex-guarded set of sessions keyed by client id.
// The lock is held only across map access, never across I/O.
type Registry struct {
	mu      sync.Mutex
	clients map[int64]Sender
	log     *logger.Logger
}

func New(log *logger.Logger) *Registry {
	return &Registry{
		clients: make(map[int64]Sender),
		log:     logger.OrNop(log),
	}
}

// Add inserts a session. A duplicate id is logged and ignored.
func (r *Registry) Add(id int64, sender Sender) {
	r.mu.Lock()
	_, exists := r.clients[id]
	if !exists {
		r.clients[id] = sender
	}
	size := len(r.clients)
	r.mu.Unlock()

	if exists {
		r.log.Warnw("registry_duplicate_client", "client_id", id)
		return
	}
	r.log.Debugw("registry_client_added", "client_id", id, "clients", size)
}

// Remove deletes a session; removing an absent id is a no-op.
func (r *Registry) Remove(id int64) {
	r.mu.Lock()
	_, exists := r.clients[id]
	delete(r.clients, id)
	size := len(r.clients)
	r.mu.Unlock()

	if !exists {
		r.log.Debugw("registry_remove_unknown_client", "client_id", id)
		return
	}
	r.log.Debugw("registry_client_removed", "client_id", id, "clients", size)
}

// Len returns the number of registered sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}

// Snapshot returns a point-in-time copy of the members ordered by id.
func (r *Registry) Snapshot() []Client {
	r.mu.Lock()
	out := make([]Client, 0, len(r.clients))
	for id, s := range r.clients {
		out = append(out, Client{ID: id, Sender: s})
	}
	r.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
