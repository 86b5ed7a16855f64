// Package adminview implements the control logic behind the admin
// back-office's resource-management screens: a session-aware authorization
// gate, a debounced search query controller, a paginated list controller and
// a generic tabular view with edit/delete flows. It owns no rendering and no
// storage; entities come from a backing service implementing Service.
package adminview

import "sync"

// Identity is the authenticated caller as resolved by the session layer.
type Identity struct {
	ID   string
	Role string
}

// Store holds the current identity. The gate re-evaluates whenever the
// identity changes (login, logout), so the store is observable.
type Store interface {
	Current() *Identity
	Subscribe(fn func(*Identity)) (cancel func())
}

// MemoryStore is an in-process session store. The back-office shell sets the
// identity after login and clears it on logout.
type MemoryStore struct {
	mu      sync.Mutex
	current *Identity
	subs    map[int]func(*Identity)
	nextSub int
}

// NewMemoryStore creates an empty session store (no identity).
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{subs: make(map[int]func(*Identity))}
}

// Current returns the current identity, or nil when nobody is signed in.
func (s *MemoryStore) Current() *Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Set replaces the current identity and notifies subscribers. Pass nil on
// logout.
func (s *MemoryStore) Set(id *Identity) {
	s.mu.Lock()
	s.current = id
	fns := make([]func(*Identity), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	// Notify outside the lock so subscribers may call back into the store.
	for _, fn := range fns {
		fn(id)
	}
}

// Subscribe registers fn to run on every identity change. The returned cancel
// removes the subscription.
func (s *MemoryStore) Subscribe(fn func(*Identity)) (cancel func()) {
	s.mu.Lock()
	key := s.nextSub
	s.nextSub++
	s.subs[key] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, key)
		s.mu.Unlock()
	}
}
