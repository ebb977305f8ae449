package provider

import (
	"fmt"
	"sync"
)

// Registry holds the set of available providers and tracks which one is the
// default. Providers are listed in registration order; re-registering an ID
// replaces the instance but keeps its position.
//
// All methods are safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
	order     []string
	defaultID string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
	}
}

// Register inserts or replaces a provider by its ID.
// The first provider ever registered becomes the default.
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := p.ID()
	if _, exists := r.providers[id]; !exists {
		r.order = append(r.order, id)
	}
	r.providers[id] = p

	if r.defaultID == "" {
		r.defaultID = id
	}
}

// Unregister removes a provider. If it was the default, the default moves
// to the first remaining provider in registration order, or is cleared if
// none remain. Removing an unknown ID is a no-op.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[id]; !exists {
		return
	}
	delete(r.providers, id)
	for i, o := range r.order {
		if o == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	if r.defaultID == id {
		r.defaultID = ""
		if len(r.order) > 0 {
			r.defaultID = r.order[0]
		}
	}
}

// Get looks up a provider by ID.
func (r *Registry) Get(id string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[id]
	return p, ok
}

// Default returns the default provider, if any.
func (r *Registry) Default() (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.defaultID == "" {
		return nil, false
	}
	p, ok := r.providers[r.defaultID]
	return p, ok
}

// SetDefault marks a registered provider as the default.
// Returns ErrUnknownProvider if the ID is not registered.
func (r *Registry) SetDefault(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.providers[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProvider, id)
	}
	r.defaultID = id
	return nil
}

// Providers returns all registered providers in registration order.
func (r *Registry) Providers() []Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Provider, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.providers[id])
	}
	return out
}
