package cost

import (
	"context"
	"sync"
	"time"
)

// MemoryLedger is an in-memory Ledger for tests and ephemeral use.
// Safe for concurrent use.
type MemoryLedger struct {
	mu      sync.RWMutex
	records []Record
}

// NewMemoryLedger creates an empty in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{}
}

// Create implements Ledger.
func (l *MemoryLedger) Create(ctx context.Context, rec Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.records = append(l.records, rec)
	return nil
}

// UsageSummary implements Ledger.
func (l *MemoryLedger) UsageSummary(ctx context.Context, since time.Time) ([]ProviderUsage, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	byProvider := make(map[string]*ProviderUsage)
	var order []string
	for _, rec := range l.records {
		if rec.Timestamp.Before(since) {
			continue
		}
		u, ok := byProvider[rec.Provider]
		if !ok {
			u = &ProviderUsage{Provider: rec.Provider}
			byProvider[rec.Provider] = u
			order = append(order, rec.Provider)
		}
		u.InputTokens += rec.InputTokens
		u.OutputTokens += rec.OutputTokens
		u.CostUSD += rec.CostUSD
		u.Operations++
	}

	out := make([]ProviderUsage, 0, len(order))
	for _, id := range order {
		out = append(out, *byProvider[id])
	}
	return out, nil
}

// PluginCost implements Ledger.
func (l *MemoryLedger) PluginCost(ctx context.Context, pluginID string, since time.Time) (float64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var total float64
	for _, rec := range l.records {
		if rec.PluginID == pluginID && !rec.Timestamp.Before(since) {
			total += rec.CostUSD
		}
	}
	return total, nil
}

// Records returns a copy of all stored records, oldest first.
func (l *MemoryLedger) Records() []Record {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}
