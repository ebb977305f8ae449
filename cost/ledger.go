// Package cost computes per-request cost, records usage to an external
// ledger, and enforces daily and monthly spend ceilings.
//
// The package holds no usage data itself: every status query re-aggregates
// from the ledger, and records are append-only.
package cost

import (
	"context"
	"time"
)

// Record is one immutable usage entry. Records are never mutated or
// deleted after creation.
type Record struct {
	// ID uniquely identifies the record.
	ID string `json:"id"`

	// Timestamp is when the operation completed.
	Timestamp time.Time `json:"timestamp"`

	// Provider is the originating provider ID.
	Provider string `json:"provider"`

	// Model is the model ID used.
	Model string `json:"model"`

	// Operation is the kind of call ("complete", "classify", "summarize",
	// "draft").
	Operation string `json:"operation"`

	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	CostUSD      float64 `json:"cost_usd"`

	// Duration is how long the operation took, if measured.
	Duration time.Duration `json:"duration,omitempty"`

	// Correlation IDs, all optional.
	PluginID    string `json:"plugin_id,omitempty"`
	PipelineID  string `json:"pipeline_id,omitempty"`
	ItemID      string `json:"item_id,omitempty"`
	ExecutionID string `json:"execution_id,omitempty"`
}

// ProviderUsage is a per-provider aggregate over a time window.
type ProviderUsage struct {
	Provider     string  `json:"provider"`
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	CostUSD      float64 `json:"cost_usd"`
	Operations   int     `json:"operations"`
}

// Ledger is the persistence collaborator behind the tracker. flowkit never
// persists anything itself; implementations live outside this module.
type Ledger interface {
	// Create appends one usage record.
	Create(ctx context.Context, rec Record) error

	// UsageSummary returns per-provider aggregates for records at or
	// after since.
	UsageSummary(ctx context.Context, since time.Time) ([]ProviderUsage, error)

	// PluginCost returns the USD total for one plugin's records at or
	// after since.
	PluginCost(ctx context.Context, pluginID string, since time.Time) (float64, error)
}
