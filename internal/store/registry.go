package store

import (
	"sync"
	"time"
)

type registryEntry struct {
	store    *Store
	lastSeen time.Time
}

// Registry keeps one Store per visitor id. Stores only hold view state; the
// session itself lives in the session backend, so an evicted visitor gets a
// fresh Store that restores from it.
type Registry struct {
	mu      sync.Mutex
	stores  map[string]*registryEntry
	factory func(visitorID string) *Store
	now     func() time.Time
}

func NewRegistry(factory func(visitorID string) *Store) *Registry {
	return &Registry{
		stores:  make(map[string]*registryEntry),
		factory: factory,
		now:     time.Now,
	}
}

// For returns the visitor's store, creating it on first sight.
func (r *Registry) For(visitorID string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.stores[visitorID]
	if !ok {
		e = &registryEntry{store: r.factory(visitorID)}
		r.stores[visitorID] = e
	}
	e.lastSeen = r.now()
	return e.store
}

// Evict drops stores not used for longer than idle and reports how many went.
func (r *Registry) Evict(idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-idle)
	n := 0
	for id, e := range r.stores {
		if e.lastSeen.Before(cutoff) {
			delete(r.stores, id)
			n++
		}
	}
	return n
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}
