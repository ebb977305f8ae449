// Package flowkit is the AI-operations core for a developer productivity
// application: it decides which AI backend and model answers a request,
// composes multi-step AI workflows over batches of items, enforces spend
// limits, and fits prompts and conversation history into a model's context
// window.
//
// flowkit is a library, designed to be imported à la carte. Each subpackage
// can be used independently:
//
//   - provider: the backend contract, error taxonomy, and provider registry
//   - tokens: token estimation and context budgets
//   - truncate: token-aware text truncation strategies
//   - prompt: fitting system context and conversation history into a budget
//   - cost: per-request cost computation and spend-limit enforcement
//   - pipeline: multi-step AI workflows (classify, filter, summarize, draft)
//   - router: task-type routing and ordered fallback across providers
//   - config: loading routes, fallback chains, and budgets from files
//
// # Quick Start
//
// Register a provider and route a task:
//
//	reg := provider.NewRegistry()
//	reg.Register(myProvider)
//
//	rt := router.New(reg)
//	rt.SetRoute("classify", "claude", "haiku-3")
//	p, m, _ := rt.Resolve("classify")
//
// Run a pipeline:
//
//	eng := pipeline.NewEngine()
//	result, err := eng.RunDefinition(ctx, def, items, p)
//
// # Design Philosophy
//
//   - Each package usable independently
//   - No network calls and no persistence: backends and ledgers are
//     injected collaborators
//   - Interfaces for extensibility, concrete types for simplicity
//   - Explicit errors carrying provider, operation, and retryability
package flowkit
