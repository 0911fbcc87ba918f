// Package session keeps live gate sessions for forms evaluated field by field
// over the network.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lsmc/candidature/internal/gate"
	"github.com/lsmc/candidature/pkg/scoring"
)

const (
	DefaultMaxSessions = 256
	DefaultTTL         = 30 * time.Minute
)

// Registry is a thread-safe LRU of sessions with idle expiry.
type Registry struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	now     func() time.Time
	entries map[string]*Session
	order   []string // least recently used first
}

// NewRegistry creates a registry. Non-positive values select the defaults.
func NewRegistry(maxSize int, ttl time.Duration) *Registry {
	if maxSize <= 0 {
		maxSize = DefaultMaxSessions
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Registry{
		maxSize: maxSize,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]*Session),
	}
}

// Create starts a session scored by engine, evicting the least recently used one if full.
func (r *Registry) Create(engine *scoring.Engine) *Session {
	presenter := gate.NewRecordingPresenter()
	s := &Session{
		ID:        uuid.NewString(),
		gate:      gate.New(engine, presenter),
		presenter: presenter,
		fields:    make(map[string]gate.Field),
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for len(r.entries) >= r.maxSize && len(r.order) > 0 {
		oldest := r.order[0]
		r.order = r.order[1:]
		delete(r.entries, oldest)
	}

	s.lastUsed = r.now()
	r.entries[s.ID] = s
	r.order = append(r.order, s.ID)
	return s
}

// Get returns a live session and marks it used. Expired sessions are dropped.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	now := r.now()
	if now.Sub(s.lastUsed) > r.ttl {
		r.remove(id)
		return nil, false
	}

	s.lastUsed = now
	r.moveToEnd(id)
	return s, true
}

// Delete drops a session. It reports whether the session existed.
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[id]; !ok {
		return false
	}
	r.remove(id)
	return true
}

// Len returns the number of sessions held, expired or not.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Registry) remove(id string) {
	delete(r.entries, id)
	for i, k := range r.order {
		if k == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			return
		}
	}
}

func (r *Registry) moveToEnd(id string) {
	for i, k := range r.order {
		if k == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			r.order = append(r.order, id)
			return
		}
	}
}
