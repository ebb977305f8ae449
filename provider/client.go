// Package provider defines the unified contract for AI backends, the closed
// error taxonomy shared by every flowkit component, and the registry that
// tracks which backends are available.
//
// Concrete adapters (the code that calls a specific vendor's API and maps
// vendor errors into this package's taxonomy) live outside flowkit. They
// implement Provider and register instances with a Registry:
//
//	reg := provider.NewRegistry()
//	reg.Register(claudeAdapter)
//	p, ok := reg.Get("claude")
//
// Adapters must categorize failures at the boundary where they originate:
// wrap every error in *Error with the right ErrorKind and Retryable flag,
// since the router advances fallback chains on the flag alone.
package provider

import "context"

// Provider is the unified interface for AI backends.
// Implementations must be safe for concurrent use.
type Provider interface {
	// ID returns the stable provider identifier (e.g. "claude").
	// At most one instance per ID is registered at a time.
	ID() string

	// Name returns the human-readable display name.
	Name() string

	// Models returns the provider's models in preference order.
	// The first model is used when nothing more specific is routed.
	Models() []Model

	// Complete sends a request and returns the full response.
	Complete(ctx context.Context, req Request) (*Response, error)

	// Stream sends a request and returns a channel of response chunks.
	// The channel is closed after the terminal chunk (check chunk.Done).
	// Errors during streaming are returned via chunk.Error.
	Stream(ctx context.Context, req Request) (<-chan StreamChunk, error)

	// Classify labels a batch of items against a closed label set.
	Classify(ctx context.Context, req ClassifyRequest) (*ClassifyResponse, error)

	// Summarize produces a summary of the given content.
	Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error)

	// Draft produces a reply draft for the given item.
	Draft(ctx context.Context, req DraftRequest) (*DraftResponse, error)

	// IsAvailable reports configuration and connectivity health without
	// making a billable call.
	IsAvailable(ctx context.Context) bool
}
