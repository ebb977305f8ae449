// Package pipeline runs named sequences of AI operations over batches of
// items, threading accumulated state through the steps.
//
// A pipeline is an ordered list of steps from a closed set: classify,
// filter, summarize, draft, and custom. Steps execute strictly in
// sequence, never concurrently; later steps depend on earlier steps'
// classification and filter results, and the running token totals assume
// one provider call at a time.
//
// Runs are not transactional: a step failure propagates out of Run with
// earlier steps' side effects (accumulated tokens, recorded results)
// already performed.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/flowkit-ai/flowkit/provider"
)

// Engine is a registry of named pipeline definitions.
// All methods are safe for concurrent use.
type Engine struct {
	mu    sync.RWMutex
	defs  map[string]Definition
	order []string
}

// NewEngine creates an empty engine.
func NewEngine() *Engine {
	return &Engine{defs: make(map[string]Definition)}
}

// Register inserts or replaces a definition by its ID, preserving the
// original position on replacement. The definition must be valid.
func (e *Engine) Register(def Definition) error {
	if err := validate(def); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.defs[def.ID]; !exists {
		e.order = append(e.order, def.ID)
	}
	e.defs[def.ID] = def
	return nil
}

// Unregister removes a definition. Unknown IDs are a no-op.
func (e *Engine) Unregister(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.defs[id]; !exists {
		return
	}
	delete(e.defs, id)
	for i, o := range e.order {
		if o == id {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
}

// Get looks up a definition by ID.
func (e *Engine) Get(id string) (Definition, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	def, ok := e.defs[id]
	return def, ok
}

// List returns all definitions in registration order.
func (e *Engine) List() []Definition {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]Definition, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, e.defs[id])
	}
	return out
}

// Run executes a registered pipeline over the items using the provider.
// Fails if the ID is not registered.
func (e *Engine) Run(ctx context.Context, id string, items []Item, p provider.Provider) (*Result, error) {
	def, ok := e.Get(id)
	if !ok {
		return nil, fmt.Errorf("pipeline not found: %q", id)
	}
	return e.run(ctx, def, items, p)
}

// RunDefinition executes an inline definition without registering it.
// The definition is validated first.
func (e *Engine) RunDefinition(ctx context.Context, def Definition, items []Item, p provider.Provider) (*Result, error) {
	if err := validate(def); err != nil {
		return nil, err
	}
	return e.run(ctx, def, items, p)
}

// validate checks that the definition is genuine: every step has a known
// type and custom steps carry a body.
func validate(def Definition) error {
	if def.ID == "" {
		return fmt.Errorf("invalid pipeline definition: missing id")
	}
	for i, step := range def.Steps {
		switch step.Type {
		case StepClassify, StepFilter, StepSummarize, StepDraft:
		case StepCustom:
			if step.Run == nil {
				return fmt.Errorf("invalid pipeline definition: custom step %d has no body", i)
			}
		default:
			return fmt.Errorf("invalid pipeline definition: step %d has unknown type %q", i, step.Type)
		}
	}
	return nil
}

// run executes the steps strictly in sequence. The caller's item slice is
// never mutated; each step receives the current context and returns a new
// one.
func (e *Engine) run(ctx context.Context, def Definition, items []Item, p provider.Provider) (*Result, error) {
	pc := newContext(items)

	for _, step := range def.Steps {
		start := time.Now()
		next, err := e.runStep(ctx, step, pc, p)
		if err != nil {
			return nil, fmt.Errorf("pipeline %s: step %s: %w", def.ID, step.timingName(), err)
		}
		next.Timings = append(next.Timings, StepTiming{
			Step:     step.timingName(),
			Duration: time.Since(start),
		})
		pc = next
	}

	return &Result{
		RunID:             uuid.NewString(),
		Items:             pc.Items,
		Classifications:   pc.Classifications,
		Summaries:         pc.Summaries,
		Drafts:            pc.Drafts,
		TotalInputTokens:  pc.InputTokens,
		TotalOutputTokens: pc.OutputTokens,
		StepTimings:       pc.Timings,
	}, nil
}

func (e *Engine) runStep(ctx context.Context, step Step, pc *Context, p provider.Provider) (*Context, error) {
	switch step.Type {
	case StepClassify:
		return runClassify(ctx, step, pc, p)
	case StepFilter:
		return runFilter(step, pc), nil
	case StepSummarize:
		return runSummarize(ctx, step, pc, p)
	case StepDraft:
		return runDraft(ctx, step, pc, p)
	case StepCustom:
		return step.Run(ctx, pc, p)
	default:
		return nil, fmt.Errorf("unknown step type %q", step.Type)
	}
}

// runClassify labels the working items in one provider call. With zero
// items the provider is never called.
func runClassify(ctx context.Context, step Step, pc *Context, p provider.Provider) (*Context, error) {
	next := pc.clone()
	if len(next.Items) == 0 {
		return next, nil
	}

	reqItems := make([]provider.ClassifyItem, len(next.Items))
	for i, it := range next.Items {
		reqItems[i] = provider.ClassifyItem{ID: it.ID, Title: it.Title, Body: it.Body, Preview: it.Preview}
	}

	resp, err := p.Classify(ctx, provider.ClassifyRequest{
		Items:   reqItems,
		Labels:  step.Labels,
		Context: step.Context,
		Model:   step.Model,
		Schema:  classificationSchema(),
	})
	if err != nil {
		return nil, err
	}

	for id, cls := range resp.Results {
		next.Classifications[id] = cls
	}
	next.addUsage(resp.Usage)
	return next, nil
}

// runFilter is pure and synchronous: it retains items whose classification
// label is kept and whose confidence clears the floor. Unclassified items
// are dropped.
func runFilter(step Step, pc *Context) *Context {
	keep := make(map[string]bool, len(step.KeepLabels))
	for _, label := range step.KeepLabels {
		keep[label] = true
	}

	next := pc.clone()
	filtered := next.Items[:0]
	for _, it := range next.Items {
		cls, ok := next.Classifications[it.ID]
		if !ok {
			continue
		}
		if keep[cls.Label] && cls.Confidence >= step.MinConfidence {
			filtered = append(filtered, it)
		}
	}
	next.Items = filtered
	return next
}

// runSummarize summarizes every remaining item, one provider call at a
// time.
func runSummarize(ctx context.Context, step Step, pc *Context, p provider.Provider) (*Context, error) {
	next := pc.clone()
	for _, it := range next.Items {
		resp, err := p.Summarize(ctx, provider.SummarizeRequest{
			Content:   it.Title + "\n\n" + it.content(),
			Style:     step.Style,
			MaxLength: step.MaxLength,
			Model:     step.Model,
		})
		if err != nil {
			return nil, err
		}
		next.Summaries[it.ID] = resp.Summary
		next.addUsage(resp.Usage)
	}
	return next, nil
}

// runDraft drafts a reply for every remaining item, sequentially.
func runDraft(ctx context.Context, step Step, pc *Context, p provider.Provider) (*Context, error) {
	next := pc.clone()
	for _, it := range next.Items {
		itemType := it.Type
		if itemType == "" {
			itemType = "unknown"
		}
		resp, err := p.Draft(ctx, provider.DraftRequest{
			Item: provider.DraftItem{
				ID:    it.ID,
				Title: it.Title,
				Body:  it.content(),
				Type:  itemType,
			},
			Intent: step.Intent,
			Tone:   step.Tone,
			Model:  step.Model,
		})
		if err != nil {
			return nil, err
		}
		next.Drafts[it.ID] = resp.Draft
		next.addUsage(resp.Usage)
	}
	return next, nil
}
