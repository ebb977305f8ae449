// Package router resolves which (provider, model) pair serves a task type
// and retries across an ordered fallback chain when a call fails with a
// retryable error.
//
// Routes and fallback chains are configuration: they live in memory,
// mutated only through explicit setters, and are re-populated by the
// caller at startup (see the config package).
package router

import (
	"context"
	"sync"

	"github.com/flowkit-ai/flowkit/provider"
)

// TaskGeneral is the reserved fallback task type: a route for it answers
// any task type without a route of its own.
const TaskGeneral = "general"

// Candidate is one (provider, model) pair.
type Candidate struct {
	Provider string `json:"provider" yaml:"provider" toml:"provider"`
	Model    string `json:"model" yaml:"model" toml:"model"`
}

// Router maps task types to providers and models.
// All methods are safe for concurrent use.
type Router struct {
	mu       sync.RWMutex
	registry *provider.Registry
	routes   map[string]Candidate
	chains   map[string][]Candidate
}

// New creates a router over the given registry with no routes.
func New(registry *provider.Registry) *Router {
	return &Router{
		registry: registry,
		routes:   make(map[string]Candidate),
		chains:   make(map[string][]Candidate),
	}
}

// SetRoute binds a task type to a (provider, model) pair.
func (r *Router) SetRoute(taskType, providerID, modelID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.routes[taskType] = Candidate{Provider: providerID, Model: modelID}
}

// Routes returns a copy of all routes.
func (r *Router) Routes() map[string]Candidate {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]Candidate, len(r.routes))
	for k, v := range r.routes {
		out[k] = v
	}
	return out
}

// RemoveRoute removes a task type's route and any fallback chain
// registered for it.
func (r *Router) RemoveRoute(taskType string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.routes, taskType)
	delete(r.chains, taskType)
}

// SetFallbackChain sets the ordered candidate list tried for a task type
// when calls fail with retryable errors.
func (r *Router) SetFallbackChain(taskType string, chain []Candidate) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.chains[taskType] = append([]Candidate(nil), chain...)
}

// FallbackChains returns a copy of all fallback chains.
func (r *Router) FallbackChains() map[string][]Candidate {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string][]Candidate, len(r.chains))
	for k, v := range r.chains {
		out[k] = append([]Candidate(nil), v...)
	}
	return out
}

// Resolve returns the (provider, model) pair serving a task type, in
// order: the task's explicit route, the "general" route, then the
// registry's default provider with its first-listed model. A route whose
// provider or model is no longer registered is stale configuration and
// falls through to the next stage. Fails with ErrNoProvider only when the
// registry has nothing to offer.
func (r *Router) Resolve(taskType string) (provider.Provider, provider.Model, error) {
	r.mu.RLock()
	route, hasRoute := r.routes[taskType]
	general, hasGeneral := r.routes[TaskGeneral]
	r.mu.RUnlock()

	if hasRoute {
		if p, m, ok := r.lookup(route); ok {
			return p, m, nil
		}
	}
	if hasGeneral {
		if p, m, ok := r.lookup(general); ok {
			return p, m, nil
		}
	}

	p, ok := r.registry.Default()
	if !ok {
		return nil, provider.Model{}, provider.ErrNoProvider
	}
	models := p.Models()
	if len(models) == 0 {
		return nil, provider.Model{}, provider.ErrNoProvider
	}
	return p, models[0], nil
}

// lookup resolves a candidate against the registry.
func (r *Router) lookup(c Candidate) (provider.Provider, provider.Model, bool) {
	p, ok := r.registry.Get(c.Provider)
	if !ok {
		return nil, provider.Model{}, false
	}
	for _, m := range p.Models() {
		if m.ID == c.Model {
			return p, m, true
		}
	}
	return nil, provider.Model{}, false
}

// CompleteWithFallback issues the request through the task type's fallback
// chain, trying candidates strictly in order. Each candidate's provider is
// re-resolved from the registry and its model substituted into the
// request. A retryable error advances to the next candidate; a
// non-retryable error propagates immediately; an exhausted chain
// propagates the last error encountered.
//
// When no chain is registered for the task type, the router makes a
// single attempt through Resolve.
func (r *Router) CompleteWithFallback(ctx context.Context, taskType string, req provider.Request) (*provider.Response, error) {
	r.mu.RLock()
	chain := r.chains[taskType]
	r.mu.RUnlock()

	if len(chain) == 0 {
		p, m, err := r.Resolve(taskType)
		if err != nil {
			return nil, err
		}
		req.Model = m.ID
		return p.Complete(ctx, req)
	}

	var lastErr error
	for _, candidate := range chain {
		p, ok := r.registry.Get(candidate.Provider)
		if !ok {
			lastErr = provider.NewError(provider.KindUnavailable, candidate.Provider,
				"complete", "provider not registered")
			continue
		}

		attempt := req
		attempt.Model = candidate.Model
		resp, err := p.Complete(ctx, attempt)
		if err == nil {
			return resp, nil
		}
		if !provider.IsRetryable(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}
