package cost

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/flowkit-ai/flowkit/provider"
)

// Budget caps spend and operation count for one period.
// Nil fields mean unlimited.
type Budget struct {
	MaxCostUSD    *float64 `json:"max_cost_usd,omitempty" yaml:"max_cost_usd,omitempty" toml:"max_cost_usd,omitempty"`
	MaxOperations *int     `json:"max_operations,omitempty" yaml:"max_operations,omitempty" toml:"max_operations,omitempty"`
}

// Snapshot aggregates usage over a time window. Derived from the ledger on
// every query, never stored.
type Snapshot struct {
	CostUSD      float64 `json:"cost_usd"`
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	Operations   int     `json:"operations"`
}

// Status reports a period's usage against its budget.
type Status struct {
	Snapshot

	Budget Budget `json:"budget"`

	// RemainingCostUSD is max(0, limit - used); nil when unlimited.
	RemainingCostUSD *float64 `json:"remaining_cost_usd,omitempty"`

	// RemainingOperations is max(0, limit - used); nil when unlimited.
	RemainingOperations *int `json:"remaining_operations,omitempty"`

	// Exceeded is true once usage reaches either limit. Hitting a cap
	// exactly counts as exceeded.
	Exceeded bool `json:"exceeded"`
}

// RecordParams describes one billable operation to record.
type RecordParams struct {
	// ProviderID is the provider that served the call.
	ProviderID string

	// Model prices the call and names the model in the record.
	Model provider.Model

	// Operation is the call kind ("complete", "classify", ...).
	Operation string

	InputTokens  int
	OutputTokens int

	// Duration is the wall-clock duration, if measured.
	Duration time.Duration

	// Correlation IDs, all optional.
	PluginID    string
	PipelineID  string
	ItemID      string
	ExecutionID string
}

// Tracker computes per-request cost, appends usage records to a ledger,
// and enforces daily and monthly ceilings.
//
// Budget checks are read-then-act: nothing stops two concurrent callers
// from both passing AssertBudget and jointly overshooting. The check is
// advisory, made immediately before issuing a billable request.
type Tracker struct {
	mu      sync.RWMutex
	ledger  Ledger
	daily   Budget
	monthly Budget

	now func() time.Time
}

// NewTracker creates a tracker over the given ledger with unlimited
// budgets.
func NewTracker(ledger Ledger) *Tracker {
	return &Tracker{
		ledger: ledger,
		now:    time.Now,
	}
}

// WithClock overrides the time source, for tests.
func (t *Tracker) WithClock(now func() time.Time) *Tracker {
	t.now = now
	return t
}

// SetDailyBudget replaces the daily budget.
func (t *Tracker) SetDailyBudget(b Budget) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.daily = b
}

// SetMonthlyBudget replaces the monthly budget.
func (t *Tracker) SetMonthlyBudget(b Budget) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.monthly = b
}

// DailyBudget returns the configured daily budget.
func (t *Tracker) DailyBudget() Budget {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.daily
}

// MonthlyBudget returns the configured monthly budget.
func (t *Tracker) MonthlyBudget() Budget {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.monthly
}

// EstimateCost computes the USD cost of a call against a model's pricing.
func (t *Tracker) EstimateCost(model provider.Model, inputTokens, outputTokens int) float64 {
	return float64(inputTokens)/1000*model.InputCostPer1K +
		float64(outputTokens)/1000*model.OutputCostPer1K
}

// Record computes the call's cost, appends an immutable usage record to
// the ledger, and returns the cost.
func (t *Tracker) Record(ctx context.Context, p RecordParams) (float64, error) {
	costUSD := t.EstimateCost(p.Model, p.InputTokens, p.OutputTokens)

	rec := Record{
		ID:           uuid.NewString(),
		Timestamp:    t.now(),
		Provider:     p.ProviderID,
		Model:        p.Model.ID,
		Operation:    p.Operation,
		InputTokens:  p.InputTokens,
		OutputTokens: p.OutputTokens,
		CostUSD:      costUSD,
		Duration:     p.Duration,
		PluginID:     p.PluginID,
		PipelineID:   p.PipelineID,
		ItemID:       p.ItemID,
		ExecutionID:  p.ExecutionID,
	}
	if err := t.ledger.Create(ctx, rec); err != nil {
		return 0, fmt.Errorf("record usage: %w", err)
	}
	return costUSD, nil
}

// DailyStatus aggregates usage since local midnight against the daily
// budget.
func (t *Tracker) DailyStatus(ctx context.Context) (*Status, error) {
	return t.status(ctx, startOfDay(t.now()), t.DailyBudget())
}

// MonthlyStatus aggregates usage since the 1st of the local month against
// the monthly budget.
func (t *Tracker) MonthlyStatus(ctx context.Context) (*Status, error) {
	return t.status(ctx, startOfMonth(t.now()), t.MonthlyBudget())
}

// AssertBudget fails with a budget_exceeded error when the daily or
// monthly ceiling has been reached, checking daily first. Call it
// immediately before issuing a billable request.
func (t *Tracker) AssertBudget(ctx context.Context) error {
	daily, err := t.DailyStatus(ctx)
	if err != nil {
		return err
	}
	if daily.Exceeded {
		return budgetError("daily", daily)
	}

	monthly, err := t.MonthlyStatus(ctx)
	if err != nil {
		return err
	}
	if monthly.Exceeded {
		return budgetError("monthly", monthly)
	}
	return nil
}

// TotalUsage aggregates all usage ever recorded.
func (t *Tracker) TotalUsage(ctx context.Context) (Snapshot, error) {
	return t.aggregate(ctx, time.Time{})
}

// PluginMonthlyUsage returns one plugin's USD total for the current month.
func (t *Tracker) PluginMonthlyUsage(ctx context.Context, pluginID string) (float64, error) {
	return t.ledger.PluginCost(ctx, pluginID, startOfMonth(t.now()))
}

func (t *Tracker) status(ctx context.Context, since time.Time, budget Budget) (*Status, error) {
	snap, err := t.aggregate(ctx, since)
	if err != nil {
		return nil, err
	}

	st := &Status{Snapshot: snap, Budget: budget}
	if budget.MaxCostUSD != nil {
		remaining := *budget.MaxCostUSD - snap.CostUSD
		if remaining < 0 {
			remaining = 0
		}
		st.RemainingCostUSD = &remaining
		if snap.CostUSD >= *budget.MaxCostUSD {
			st.Exceeded = true
		}
	}
	if budget.MaxOperations != nil {
		remaining := *budget.MaxOperations - snap.Operations
		if remaining < 0 {
			remaining = 0
		}
		st.RemainingOperations = &remaining
		if snap.Operations >= *budget.MaxOperations {
			st.Exceeded = true
		}
	}
	return st, nil
}

func (t *Tracker) aggregate(ctx context.Context, since time.Time) (Snapshot, error) {
	summary, err := t.ledger.UsageSummary(ctx, since)
	if err != nil {
		return Snapshot{}, fmt.Errorf("usage summary: %w", err)
	}

	var snap Snapshot
	for _, u := range summary {
		snap.CostUSD += u.CostUSD
		snap.InputTokens += u.InputTokens
		snap.OutputTokens += u.OutputTokens
		snap.Operations += u.Operations
	}
	return snap, nil
}

func budgetError(period string, st *Status) error {
	msg := fmt.Sprintf("%s budget exceeded", period)
	if st.Budget.MaxCostUSD != nil && st.CostUSD >= *st.Budget.MaxCostUSD {
		msg = fmt.Sprintf("%s cost budget exceeded: $%.4f of $%.4f used",
			period, st.CostUSD, *st.Budget.MaxCostUSD)
	} else if st.Budget.MaxOperations != nil && st.Operations >= *st.Budget.MaxOperations {
		msg = fmt.Sprintf("%s operation budget exceeded: %d of %d used",
			period, st.Operations, *st.Budget.MaxOperations)
	}
	return provider.NewError(provider.KindBudgetExceeded, "", "assert_budget", msg)
}

// startOfDay returns local midnight of the given time.
func startOfDay(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// startOfMonth returns the 1st of the given time's local month.
func startOfMonth(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}
