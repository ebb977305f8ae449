package pipeline

import (
	"time"

	"github.com/flowkit-ai/flowkit/provider"
)

// Item is one unit of work flowing through a pipeline (an email, a ticket,
// a notification).
type Item struct {
	ID      string `json:"id"`
	Title   string `json:"title,omitempty"`
	Body    string `json:"body,omitempty"`
	Preview string `json:"preview,omitempty"`
	Type    string `json:"type,omitempty"`
}

// content returns the best available body text: body, else preview, else
// empty.
func (it Item) content() string {
	if it.Body != "" {
		return it.Body
	}
	return it.Preview
}

// StepTiming records one step's wall-clock duration.
type StepTiming struct {
	Step     string        `json:"step"`
	Duration time.Duration `json:"duration"`
}

// Context is the working state threaded through one pipeline run. It is
// owned exclusively by that run: steps return a new context rather than
// mutating the one they received.
type Context struct {
	// Items is the current working list. Only filter shrinks it; no step
	// ever adds items.
	Items []Item

	// Classifications, Summaries, and Drafts accumulate per-item results
	// keyed by item ID.
	Classifications map[string]provider.Classification
	Summaries       map[string]string
	Drafts          map[string]string

	// InputTokens and OutputTokens are running totals, monotonically
	// non-decreasing across the run.
	InputTokens  int
	OutputTokens int

	// Timings lists per-step durations in execution order.
	Timings []StepTiming
}

// newContext seeds a run from a shallow copy of the caller's items.
func newContext(items []Item) *Context {
	working := make([]Item, len(items))
	copy(working, items)
	return &Context{
		Items:           working,
		Classifications: make(map[string]provider.Classification),
		Summaries:       make(map[string]string),
		Drafts:          make(map[string]string),
	}
}

// clone copies the context so a step can build its successor without
// touching the original.
func (c *Context) clone() *Context {
	next := &Context{
		Items:           make([]Item, len(c.Items)),
		Classifications: make(map[string]provider.Classification, len(c.Classifications)),
		Summaries:       make(map[string]string, len(c.Summaries)),
		Drafts:          make(map[string]string, len(c.Drafts)),
		InputTokens:     c.InputTokens,
		OutputTokens:    c.OutputTokens,
		Timings:         append([]StepTiming(nil), c.Timings...),
	}
	copy(next.Items, c.Items)
	for k, v := range c.Classifications {
		next.Classifications[k] = v
	}
	for k, v := range c.Summaries {
		next.Summaries[k] = v
	}
	for k, v := range c.Drafts {
		next.Drafts[k] = v
	}
	return next
}

// addUsage folds one provider response's token counts into the totals.
func (c *Context) addUsage(u provider.TokenUsage) {
	c.InputTokens += u.InputTokens
	c.OutputTokens += u.OutputTokens
}

// Result is the caller-facing output of one pipeline run.
type Result struct {
	// RunID correlates this run's usage records.
	RunID string `json:"run_id"`

	// Items is the final working list.
	Items []Item `json:"items"`

	Classifications map[string]provider.Classification `json:"classifications"`
	Summaries       map[string]string                  `json:"summaries"`
	Drafts          map[string]string                  `json:"drafts"`

	TotalInputTokens  int `json:"total_input_tokens"`
	TotalOutputTokens int `json:"total_output_tokens"`

	// StepTimings lists one entry per executed step, in declared order.
	StepTimings []StepTiming `json:"step_timings"`
}
