package ctxsync

import (
	"context"
	"sync"
)

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{mutexes: make(map[string]*Mutex)}
}

// Registry hands out one Mutex per name. A name's Mutex is created on its
// first reference and kept for the lifetime of the Registry, so every caller
// asking for the same name contends on the same lock.
type Registry struct {
	mu      sync.Mutex
	mutexes map[string]*Mutex
}

// Get returns the Mutex for name.
func (r *Registry) Get(name string) *Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.mutexes[name]
	if !ok {
		m = NewMutex()
		r.mutexes[name] = m
	}
	return m
}

// Lock locks the Mutex for name and returns the function releasing it.
func (r *Registry) Lock(ctx context.Context, name string) (func(), error) {
	m := r.Get(name)
	if err := m.Lock(ctx); err != nil {
		return nil, err
	}
	return m.Unlock, nil
}
