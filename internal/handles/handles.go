// Package handles keeps Go objects alive while native code holds their
// address.
//
// CEF stores pointers to host-implemented vtables and host-allocated string
// buffers in its own memory, where the garbage collector cannot see them. A
// Registry roots such objects until native code gives them back (through a
// release or destructor call). IDs are never reused, so a stale ID can only
// miss, never alias a newer object.
package handles

import (
	"sync"
)

// Registry is a thread-safe set of rooted Go objects keyed by ID.
// The zero value is ready to use.
type Registry struct {
	mu      sync.RWMutex
	entries map[uintptr]any
	nextID  uintptr
}

// Register roots v and returns its ID. IDs start at 1, so 0 never names an
// entry.
//
// Thread-safe.
func (r *Registry) Register(v any) uintptr {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.entries == nil {
		r.entries = make(map[uintptr]any)
	}
	r.nextID++
	id := r.nextID
	r.entries[id] = v
	return id
}

// Lookup retrieves a rooted object by ID.
// Returns nil if the ID is not registered.
//
// Thread-safe.
func (r *Registry) Lookup(id uintptr) any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.entries[id]
}

// Unregister drops the root for id and reports whether it was present.
// Only the first call for a given ID returns true.
//
// Thread-safe.
func (r *Registry) Unregister(id uintptr) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[id]; !ok {
		return false
	}
	delete(r.entries, id)
	return true
}

// Count returns the number of currently rooted objects.
// Useful for debugging and testing memory leaks.
//
// Thread-safe.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
