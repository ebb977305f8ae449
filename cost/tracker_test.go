package cost

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowkit-ai/flowkit/provider"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

var testModel = provider.Model{
	ID:              "sonnet-4",
	ContextWindow:   200000,
	InputCostPer1K:  0.003,
	OutputCostPer1K: 0.015,
}

func TestEstimateCost(t *testing.T) {
	tr := NewTracker(NewMemoryLedger())

	got := tr.EstimateCost(testModel, 1000, 500)
	assert.InDelta(t, 0.0105, got, 1e-4)

	assert.Zero(t, tr.EstimateCost(testModel, 0, 0))
}

func TestRecord_AppendsToLedger(t *testing.T) {
	ledger := NewMemoryLedger()
	tr := NewTracker(ledger)

	costUSD, err := tr.Record(context.Background(), RecordParams{
		ProviderID:   "claude",
		Model:        testModel,
		Operation:    "classify",
		InputTokens:  1000,
		OutputTokens: 500,
		PluginID:     "inbox",
		PipelineID:   "triage",
		ItemID:       "item-1",
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.0105, costUSD, 1e-4)

	recs := ledger.Records()
	require.Len(t, recs, 1)
	assert.NotEmpty(t, recs[0].ID)
	assert.Equal(t, "claude", recs[0].Provider)
	assert.Equal(t, "sonnet-4", recs[0].Model)
	assert.Equal(t, "classify", recs[0].Operation)
	assert.Equal(t, "inbox", recs[0].PluginID)
	assert.InDelta(t, costUSD, recs[0].CostUSD, 1e-9)
}

func TestDailyStatus_AggregatesSinceMidnight(t *testing.T) {
	ledger := NewMemoryLedger()

	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)
	clock := now
	tr := NewTracker(ledger).WithClock(func() time.Time { return clock })

	// Yesterday's usage must not count.
	clock = now.AddDate(0, 0, -1)
	_, err := tr.Record(context.Background(), RecordParams{ProviderID: "p", Model: testModel, Operation: "complete", InputTokens: 1000, OutputTokens: 500})
	require.NoError(t, err)

	clock = now
	_, err = tr.Record(context.Background(), RecordParams{ProviderID: "p", Model: testModel, Operation: "complete", InputTokens: 2000, OutputTokens: 1000})
	require.NoError(t, err)

	st, err := tr.DailyStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, st.Operations)
	assert.Equal(t, 2000, st.InputTokens)
	assert.InDelta(t, 0.021, st.CostUSD, 1e-6)
	assert.False(t, st.Exceeded)
	assert.Nil(t, st.RemainingCostUSD, "unlimited budget has no remaining")
}

func TestStatus_ExceededBoundary(t *testing.T) {
	ledger := NewMemoryLedger()
	tr := NewTracker(ledger)
	tr.SetDailyBudget(Budget{MaxOperations: intPtr(3)})

	record := func() {
		_, err := tr.Record(context.Background(), RecordParams{ProviderID: "p", Model: testModel, Operation: "complete"})
		require.NoError(t, err)
	}

	record()
	record()
	st, err := tr.DailyStatus(context.Background())
	require.NoError(t, err)
	assert.False(t, st.Exceeded, "limit-1 operations is not exceeded")
	require.NotNil(t, st.RemainingOperations)
	assert.Equal(t, 1, *st.RemainingOperations)

	record()
	st, err = tr.DailyStatus(context.Background())
	require.NoError(t, err)
	assert.True(t, st.Exceeded, "hitting the cap exactly counts as exceeded")
	assert.Equal(t, 0, *st.RemainingOperations)
}

func TestStatus_RemainingCostClampedAtZero(t *testing.T) {
	tr := NewTracker(NewMemoryLedger())
	tr.SetDailyBudget(Budget{MaxCostUSD: floatPtr(0.01)})

	_, err := tr.Record(context.Background(), RecordParams{ProviderID: "p", Model: testModel, InputTokens: 10000, OutputTokens: 5000})
	require.NoError(t, err)

	st, err := tr.DailyStatus(context.Background())
	require.NoError(t, err)
	assert.True(t, st.Exceeded)
	require.NotNil(t, st.RemainingCostUSD)
	assert.Zero(t, *st.RemainingCostUSD)
}

func TestAssertBudget(t *testing.T) {
	tr := NewTracker(NewMemoryLedger())
	tr.SetDailyBudget(Budget{MaxOperations: intPtr(1)})
	tr.SetMonthlyBudget(Budget{MaxCostUSD: floatPtr(100)})

	require.NoError(t, tr.AssertBudget(context.Background()))

	_, err := tr.Record(context.Background(), RecordParams{ProviderID: "p", Model: testModel})
	require.NoError(t, err)

	err = tr.AssertBudget(context.Background())
	require.Error(t, err)
	assert.Equal(t, provider.KindBudgetExceeded, provider.KindOf(err))
	assert.False(t, provider.IsRetryable(err))
	assert.Contains(t, err.Error(), "daily")
}

func TestAssertBudget_ChecksDailyBeforeMonthly(t *testing.T) {
	tr := NewTracker(NewMemoryLedger())
	tr.SetDailyBudget(Budget{MaxOperations: intPtr(1)})
	tr.SetMonthlyBudget(Budget{MaxOperations: intPtr(1)})

	_, err := tr.Record(context.Background(), RecordParams{ProviderID: "p", Model: testModel})
	require.NoError(t, err)

	err = tr.AssertBudget(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "daily", "daily is reported first")
}

func TestTotalUsage_LifetimeAggregate(t *testing.T) {
	ledger := NewMemoryLedger()

	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)
	clock := now
	tr := NewTracker(ledger).WithClock(func() time.Time { return clock })

	clock = now.AddDate(-1, 0, 0)
	_, err := tr.Record(context.Background(), RecordParams{ProviderID: "p", Model: testModel, InputTokens: 100})
	require.NoError(t, err)

	clock = now
	_, err = tr.Record(context.Background(), RecordParams{ProviderID: "q", Model: testModel, InputTokens: 200})
	require.NoError(t, err)

	snap, err := tr.TotalUsage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Operations)
	assert.Equal(t, 300, snap.InputTokens)
}

func TestPluginMonthlyUsage(t *testing.T) {
	ledger := NewMemoryLedger()

	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)
	clock := now
	tr := NewTracker(ledger).WithClock(func() time.Time { return clock })

	// Last month's spend for the plugin: excluded.
	clock = now.AddDate(0, -1, 0)
	_, err := tr.Record(context.Background(), RecordParams{ProviderID: "p", Model: testModel, InputTokens: 1000, PluginID: "inbox"})
	require.NoError(t, err)

	clock = now
	_, err = tr.Record(context.Background(), RecordParams{ProviderID: "p", Model: testModel, InputTokens: 1000, PluginID: "inbox"})
	require.NoError(t, err)
	_, err = tr.Record(context.Background(), RecordParams{ProviderID: "p", Model: testModel, InputTokens: 1000, PluginID: "other"})
	require.NoError(t, err)

	total, err := tr.PluginMonthlyUsage(context.Background(), "inbox")
	require.NoError(t, err)
	assert.InDelta(t, 0.003, total, 1e-6)
}
