// Package prompt fits system context and conversation history into a
// model's context window.
//
// A Manager holds one context budget and an ordered list of persistent
// system sources. Build packs sources by priority into at most 40% of the
// effective budget, then trims conversation history backward from the most
// recent message to fill the rest.
package prompt

import (
	"sort"
	"strings"
	"sync"

	"github.com/flowkit-ai/flowkit/provider"
	"github.com/flowkit-ai/flowkit/tokens"
	"github.com/flowkit-ai/flowkit/truncate"
)

// Built is the result of assembling a request's context.
type Built struct {
	// SystemPrompt is the included sources' content joined by blank lines.
	SystemPrompt string

	// Messages is the conversation history that fits the budget,
	// chronological order, most recent last.
	Messages []provider.Message

	// EstimatedTokens is the system token count plus the kept messages'
	// token estimates.
	EstimatedTokens int
}

// BudgetPatch is a partial budget update; nil fields keep current values.
type BudgetPatch struct {
	MaxTokens      *int
	ReservedOutput *int
}

// Manager assembles prompts within a token budget.
// All methods are safe for concurrent use.
type Manager struct {
	mu      sync.RWMutex
	budget  tokens.Budget
	sources []Source

	counter tokens.Counter
	trunc   *truncate.Truncator
}

// NewManager creates a manager with the default budget and no sources.
func NewManager() *Manager {
	counter := tokens.NewEstimatingCounter()
	return &Manager{
		budget:  tokens.NewBudget(),
		counter: counter,
		trunc:   truncate.NewFromEnd().WithCounter(counter),
	}
}

// WithCounter replaces the token estimator, e.g. with an exact tokenizer.
func (m *Manager) WithCounter(counter tokens.Counter) *Manager {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.counter = counter
	m.trunc = truncate.NewFromEnd().WithCounter(counter)
	return m
}

// SetBudget merges a partial update into the configured budget.
func (m *Manager) SetBudget(patch BudgetPatch) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if patch.MaxTokens != nil {
		m.budget.MaxTokens = *patch.MaxTokens
	}
	if patch.ReservedOutput != nil {
		m.budget.ReservedOutput = *patch.ReservedOutput
	}
}

// Budget returns a copy of the configured budget.
func (m *Manager) Budget() tokens.Budget {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.budget
}

// AddSystemContext adds a persistent system source. Any existing source
// with the same key is removed first, so re-adding a key moves it to the
// end of the list.
func (m *Manager) AddSystemContext(src Source) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.removeLocked(src.Key)
	m.sources = append(m.sources, src)
}

// RemoveSystemContext removes the source with the given key, if present.
func (m *Manager) RemoveSystemContext(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.removeLocked(key)
}

func (m *Manager) removeLocked(key string) {
	for i, src := range m.sources {
		if src.Key == key {
			m.sources = append(m.sources[:i], m.sources[i+1:]...)
			return
		}
	}
}

// SystemContextKeys returns the keys of all persistent sources, in order.
func (m *Manager) SystemContextKeys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, len(m.sources))
	for i, src := range m.sources {
		keys[i] = src.Key
	}
	return keys
}

// BudgetForModel computes the budget for one request against a model:
// the reservation is desiredOutputTokens when positive, else the configured
// default, and the ceiling is capped by what the model's window leaves
// after that reservation. Pure: the configured budget is not modified.
func (m *Manager) BudgetForModel(model provider.Model, desiredOutputTokens int) tokens.Budget {
	m.mu.RLock()
	defer m.mu.RUnlock()

	reserved := m.budget.ReservedOutput
	if desiredOutputTokens > 0 {
		reserved = desiredOutputTokens
	}
	maxTokens := model.ContextWindow - reserved
	if m.budget.MaxTokens < maxTokens {
		maxTokens = m.budget.MaxTokens
	}
	return tokens.Budget{MaxTokens: maxTokens, ReservedOutput: reserved}
}

// Build fits the persistent sources, any one-off extra sources, and the
// conversation history into the model's window.
//
// Sources are scanned in priority order (stable for ties) and included
// while the running system total stays within 40% of the effective budget;
// a source that does not fit is skipped but scanning continues, so a
// smaller lower-priority source can still land after a larger one was
// dropped. Messages then fill the remaining budget: the final message is
// always retained (truncated if it alone exceeds the budget), and older
// messages are kept scanning backward until the first one that does not
// fit.
func (m *Manager) Build(messages []provider.Message, model provider.Model, extra ...Source) Built {
	m.mu.RLock()
	defer m.mu.RUnlock()

	effective := m.budget.EffectiveFor(model.ContextWindow)

	candidates := make([]Source, 0, len(m.sources)+len(extra))
	candidates = append(candidates, m.sources...)
	candidates = append(candidates, extra...)
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Priority > candidates[j].Priority
	})

	systemCap := tokens.SystemCap(effective)
	systemTokens := 0
	var included []string
	for _, src := range candidates {
		cost := m.sourceCost(src)
		if systemTokens+cost > systemCap {
			continue
		}
		included = append(included, src.Content)
		systemTokens += cost
	}
	systemPrompt := strings.Join(included, "\n\n")

	remaining := effective - systemTokens
	kept, msgTokens := m.fitMessages(messages, remaining)

	return Built{
		SystemPrompt:    systemPrompt,
		Messages:        kept,
		EstimatedTokens: systemTokens + msgTokens,
	}
}

// sourceCost is the caller-supplied estimate when present, else the
// heuristic count of the content.
func (m *Manager) sourceCost(src Source) int {
	if src.TokenEstimate > 0 {
		return src.TokenEstimate
	}
	return m.counter.Count(src.Content)
}

// fitMessages trims history to the budget. When everything fits, the input
// slice is returned untouched.
func (m *Manager) fitMessages(messages []provider.Message, budget int) ([]provider.Message, int) {
	if len(messages) == 0 {
		return messages, 0
	}

	total := 0
	for _, msg := range messages {
		total += m.counter.Count(msg.Content)
	}
	if total <= budget {
		return messages, total
	}

	last := messages[len(messages)-1]
	lastCost := m.counter.Count(last.Content)

	// The final message alone busts the budget: truncate it and drop
	// everything else.
	if lastCost > budget {
		content, _ := m.trunc.Truncate(last.Content, budget)
		last.Content = content
		return []provider.Message{last}, m.counter.Count(content)
	}

	// Scan backward, keeping messages while they fit what the final
	// message leaves over. Stop at the first that does not fit: older
	// messages are dropped even if a smaller one would still squeeze in.
	kept := []provider.Message{last}
	left := budget - lastCost
	for i := len(messages) - 2; i >= 0; i-- {
		cost := m.counter.Count(messages[i].Content)
		if cost > left {
			break
		}
		kept = append(kept, messages[i])
		left -= cost
	}

	// Restore chronological order.
	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		kept[i], kept[j] = kept[j], kept[i]
	}
	return kept, budget - left
}
