package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowkit-ai/flowkit/provider"
	"github.com/flowkit-ai/flowkit/truncate"
)

func intPtr(v int) *int { return &v }

func testModel(window int) provider.Model {
	return provider.Model{ID: "m", ContextWindow: window}
}

func TestManager_BudgetDefaults(t *testing.T) {
	m := NewManager()

	b := m.Budget()
	assert.Equal(t, 100000, b.MaxTokens)
	assert.Equal(t, 4096, b.ReservedOutput)
}

func TestManager_SetBudgetPartial(t *testing.T) {
	m := NewManager()

	m.SetBudget(BudgetPatch{MaxTokens: intPtr(50000)})

	b := m.Budget()
	assert.Equal(t, 50000, b.MaxTokens)
	assert.Equal(t, 4096, b.ReservedOutput, "unset field keeps its value")
}

func TestManager_AddSystemContext_ReaddMovesToEnd(t *testing.T) {
	m := NewManager()

	m.AddSystemContext(Source{Key: "a", Content: "first"})
	m.AddSystemContext(Source{Key: "b", Content: "second"})
	m.AddSystemContext(Source{Key: "a", Content: "updated"})

	assert.Equal(t, []string{"b", "a"}, m.SystemContextKeys())

	m.RemoveSystemContext("b")
	assert.Equal(t, []string{"a"}, m.SystemContextKeys())
}

func TestManager_Build_PriorityGreedyPacking(t *testing.T) {
	// Effective budget 10000 => system cap 4000 tokens.
	m := NewManager()
	m.SetBudget(BudgetPatch{MaxTokens: intPtr(10000), ReservedOutput: intPtr(0)})

	m.AddSystemContext(Source{Key: "high", Content: "HIGH", Priority: 100, TokenEstimate: 3000})
	m.AddSystemContext(Source{Key: "low", Content: "LOW", Priority: 50, TokenEstimate: 2000})

	built := m.Build(nil, testModel(1000000))

	// 3000 fits the 4000 cap; 3000+2000 does not. Greedy by priority,
	// not globally optimal.
	assert.Contains(t, built.SystemPrompt, "HIGH")
	assert.NotContains(t, built.SystemPrompt, "LOW")
	assert.Equal(t, 3000, built.EstimatedTokens)
}

func TestManager_Build_SkippedSourceDoesNotStopScan(t *testing.T) {
	m := NewManager()
	m.SetBudget(BudgetPatch{MaxTokens: intPtr(10000), ReservedOutput: intPtr(0)})

	m.AddSystemContext(Source{Key: "big", Content: "BIG", Priority: 100, TokenEstimate: 3500})
	m.AddSystemContext(Source{Key: "huge", Content: "HUGE", Priority: 90, TokenEstimate: 3000})
	m.AddSystemContext(Source{Key: "small", Content: "SMALL", Priority: 10, TokenEstimate: 400})

	built := m.Build(nil, testModel(1000000))

	// big (3500) included, huge (3000) skipped at 6500 > 4000, but the
	// scan continues and small (400) still lands.
	assert.Contains(t, built.SystemPrompt, "BIG")
	assert.NotContains(t, built.SystemPrompt, "HUGE")
	assert.Contains(t, built.SystemPrompt, "SMALL")
}

func TestManager_Build_ExtraSourcesAndTieOrder(t *testing.T) {
	m := NewManager()
	m.AddSystemContext(Source{Key: "persistent", Content: "P", Priority: 5})

	built := m.Build(nil, testModel(1000000),
		Source{Key: "x1", Content: "X1", Priority: 5},
		Source{Key: "x2", Content: "X2", Priority: 5},
	)

	// Equal priorities keep persistent-then-extra order.
	assert.Equal(t, "P\n\nX1\n\nX2", built.SystemPrompt)
}

func TestManager_Build_MessagesPassThroughWhenTheyFit(t *testing.T) {
	m := NewManager()

	messages := []provider.Message{
		{Role: provider.RoleUser, Content: "hello"},
		{Role: provider.RoleAssistant, Content: "hi"},
		{Role: provider.RoleUser, Content: "how are you?"},
	}

	built := m.Build(messages, testModel(200000))

	require.Len(t, built.Messages, 3)
	// Round-trip: the exact input slice, no copies or reordering.
	assert.Same(t, &messages[0], &built.Messages[0])
	assert.Equal(t, messages, built.Messages)
}

func TestManager_Build_TrimKeepsFinalMessage(t *testing.T) {
	m := NewManager()
	m.SetBudget(BudgetPatch{MaxTokens: intPtr(100), ReservedOutput: intPtr(0)})

	messages := []provider.Message{
		{Role: provider.RoleUser, Content: strings.Repeat("a", 360)},      // 90 tokens
		{Role: provider.RoleAssistant, Content: strings.Repeat("b", 360)}, // 90 tokens
		{Role: provider.RoleUser, Content: strings.Repeat("c", 80)},       // 20 tokens
	}

	built := m.Build(messages, testModel(1000000))

	require.Len(t, built.Messages, 1)
	assert.Equal(t, strings.Repeat("c", 80), built.Messages[0].Content)
	assert.Equal(t, 20, built.EstimatedTokens)
}

func TestManager_Build_TruncatesOversizedFinalMessage(t *testing.T) {
	m := NewManager()
	m.SetBudget(BudgetPatch{MaxTokens: intPtr(10), ReservedOutput: intPtr(0)})

	messages := []provider.Message{
		{Role: provider.RoleUser, Content: "earlier message"},
		{Role: provider.RoleUser, Content: strings.Repeat("z", 400)}, // 100 tokens
	}

	built := m.Build(messages, testModel(1000000))

	require.Len(t, built.Messages, 1, "every other message is discarded")
	content := built.Messages[0].Content
	assert.True(t, strings.HasSuffix(content, truncate.Marker))
	// Body cut to budget x 4 characters.
	body := strings.TrimSuffix(content, "\n"+truncate.Marker)
	assert.Equal(t, strings.Repeat("z", 40), body)
}

func TestManager_Build_BackwardScanStopsAtFirstNonFit(t *testing.T) {
	m := NewManager()
	m.SetBudget(BudgetPatch{MaxTokens: intPtr(50), ReservedOutput: intPtr(0)})

	messages := []provider.Message{
		{Role: provider.RoleUser, Content: strings.Repeat("a", 40)},       // 10 tokens, would fit
		{Role: provider.RoleAssistant, Content: strings.Repeat("b", 200)}, // 50 tokens, does not fit
		{Role: provider.RoleUser, Content: strings.Repeat("c", 120)},      // 30 tokens, final
	}

	built := m.Build(messages, testModel(1000000))

	// The 50-token message fails first; scanning stops there and the
	// older 10-token message is dropped too.
	require.Len(t, built.Messages, 1)
	assert.Equal(t, strings.Repeat("c", 120), built.Messages[0].Content)
}

func TestManager_Build_KeptMessagesChronological(t *testing.T) {
	m := NewManager()
	m.SetBudget(BudgetPatch{MaxTokens: intPtr(60), ReservedOutput: intPtr(0)})

	messages := []provider.Message{
		{Role: provider.RoleUser, Content: strings.Repeat("a", 400)}, // dropped
		{Role: provider.RoleAssistant, Content: strings.Repeat("b", 80)},
		{Role: provider.RoleUser, Content: strings.Repeat("c", 80)},
		{Role: provider.RoleUser, Content: strings.Repeat("d", 80)},
	}

	built := m.Build(messages, testModel(1000000))

	require.Len(t, built.Messages, 3)
	assert.Equal(t, strings.Repeat("b", 80), built.Messages[0].Content)
	assert.Equal(t, strings.Repeat("c", 80), built.Messages[1].Content)
	assert.Equal(t, strings.Repeat("d", 80), built.Messages[2].Content)
	assert.Equal(t, 60, built.EstimatedTokens)
}

func TestManager_Build_SystemAndMessagesShareBudget(t *testing.T) {
	m := NewManager()
	m.SetBudget(BudgetPatch{MaxTokens: intPtr(100), ReservedOutput: intPtr(0)})
	m.AddSystemContext(Source{Key: "sys", Content: "S", TokenEstimate: 40})

	messages := []provider.Message{
		{Role: provider.RoleUser, Content: strings.Repeat("a", 200)}, // 50 tokens
		{Role: provider.RoleUser, Content: strings.Repeat("b", 40)},  // 10 tokens
	}

	built := m.Build(messages, testModel(1000000))

	// Remaining budget after 40 system tokens is 60: both messages fit.
	require.Len(t, built.Messages, 2)
	assert.Equal(t, 100, built.EstimatedTokens)
}

func TestManager_BudgetForModel(t *testing.T) {
	m := NewManager()

	b := m.BudgetForModel(testModel(8192), 0)
	assert.Equal(t, 4096, b.MaxTokens, "window minus default reservation")
	assert.Equal(t, 4096, b.ReservedOutput)

	b = m.BudgetForModel(testModel(200000), 1000)
	assert.Equal(t, 100000, b.MaxTokens, "configured ceiling wins")
	assert.Equal(t, 1000, b.ReservedOutput)

	// Pure: configured budget untouched.
	assert.Equal(t, 4096, m.Budget().ReservedOutput)
}
