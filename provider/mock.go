package provider

import (
	"context"
	"sync"
	"time"
)

// Mock is a test double for Provider.
// It supports fixed responses, scripted per-call errors, custom handlers,
// and call tracking.
type Mock struct {
	mu           sync.Mutex
	id           string
	name         string
	models       []Model
	available    bool
	responses    []string
	responseIdx  int
	errs         []error // consumed one per call; nil entries mean success
	errIdx       int
	completeFunc func(ctx context.Context, req Request) (*Response, error)
	classifyFunc func(ctx context.Context, req ClassifyRequest) (*ClassifyResponse, error)

	// Call counters for assertions.
	CompleteCalls  []Request
	ClassifyCalls  []ClassifyRequest
	SummarizeCalls []SummarizeRequest
	DraftCalls     []DraftRequest
}

// NewMock creates a mock provider with one model and a fixed response.
func NewMock(id string) *Mock {
	return &Mock{
		id:        id,
		name:      id,
		available: true,
		responses: []string{"mock response"},
		models: []Model{{
			ID:              id + "-model",
			Name:            id + " model",
			ContextWindow:   100000,
			InputCostPer1K:  0.003,
			OutputCostPer1K: 0.015,
			Capabilities:    []Capability{CapCompletion, CapClassification, CapSummarization, CapDrafting, CapStreaming},
		}},
	}
}

// WithModels replaces the mock's model list.
func (m *Mock) WithModels(models ...Model) *Mock {
	m.models = models
	return m
}

// WithResponses configures sequential responses. Each completion-style call
// returns the next response, cycling after exhausting the list.
func (m *Mock) WithResponses(responses ...string) *Mock {
	m.responses = responses
	return m
}

// WithErrors scripts per-call outcomes: each operation consumes the next
// entry, failing when it is non-nil. After the script runs out, calls
// succeed.
func (m *Mock) WithErrors(errs ...error) *Mock {
	m.errs = errs
	return m
}

// WithAvailable sets the health reported by IsAvailable.
func (m *Mock) WithAvailable(available bool) *Mock {
	m.available = available
	return m
}

// WithCompleteFunc sets a custom handler for Complete calls.
func (m *Mock) WithCompleteFunc(fn func(ctx context.Context, req Request) (*Response, error)) *Mock {
	m.completeFunc = fn
	return m
}

// WithClassifyFunc sets a custom handler for Classify calls.
func (m *Mock) WithClassifyFunc(fn func(ctx context.Context, req ClassifyRequest) (*ClassifyResponse, error)) *Mock {
	m.classifyFunc = fn
	return m
}

// ID implements Provider.
func (m *Mock) ID() string { return m.id }

// Name implements Provider.
func (m *Mock) Name() string { return m.name }

// Models implements Provider.
func (m *Mock) Models() []Model { return m.models }

// IsAvailable implements Provider.
func (m *Mock) IsAvailable(ctx context.Context) bool { return m.available }

// nextErr consumes the next scripted outcome. Caller holds m.mu.
func (m *Mock) nextErr() error {
	if m.errIdx < len(m.errs) {
		err := m.errs[m.errIdx]
		m.errIdx++
		return err
	}
	return nil
}

// nextResponse returns the next scripted response text. Caller holds m.mu.
func (m *Mock) nextResponse() string {
	if len(m.responses) == 0 {
		return ""
	}
	resp := m.responses[m.responseIdx%len(m.responses)]
	m.responseIdx++
	return resp
}

// Complete implements Provider.
func (m *Mock) Complete(ctx context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CompleteCalls = append(m.CompleteCalls, req)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if m.completeFunc != nil {
		return m.completeFunc(ctx, req)
	}
	if err := m.nextErr(); err != nil {
		return nil, err
	}

	content := m.nextResponse()
	return &Response{
		Content:      content,
		Model:        req.Model,
		Usage:        TokenUsage{InputTokens: 10, OutputTokens: len(content) / 4, TotalTokens: 10 + len(content)/4},
		FinishReason: "stop",
		Duration:     time.Millisecond,
	}, nil
}

// Stream implements Provider. It emits the next response as a single text
// chunk followed by the terminal chunk.
func (m *Mock) Stream(ctx context.Context, req Request) (<-chan StreamChunk, error) {
	m.mu.Lock()
	if err := m.nextErr(); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	content := m.nextResponse()
	m.mu.Unlock()

	ch := make(chan StreamChunk, 2)
	ch <- StreamChunk{Content: content}
	ch <- StreamChunk{
		Done:  true,
		Model: req.Model,
		Usage: &TokenUsage{InputTokens: 10, OutputTokens: len(content) / 4, TotalTokens: 10 + len(content)/4},
	}
	close(ch)
	return ch, nil
}

// Classify implements Provider. Without a custom handler it assigns the
// first label to every item with confidence 1.
func (m *Mock) Classify(ctx context.Context, req ClassifyRequest) (*ClassifyResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ClassifyCalls = append(m.ClassifyCalls, req)

	if m.classifyFunc != nil {
		return m.classifyFunc(ctx, req)
	}
	if err := m.nextErr(); err != nil {
		return nil, err
	}

	label := ""
	if len(req.Labels) > 0 {
		label = req.Labels[0]
	}
	results := make(map[string]Classification, len(req.Items))
	for _, item := range req.Items {
		results[item.ID] = Classification{Label: label, Confidence: 1}
	}
	return &ClassifyResponse{
		Results: results,
		Usage:   TokenUsage{InputTokens: 20 * len(req.Items), OutputTokens: 5 * len(req.Items)},
	}, nil
}

// Summarize implements Provider.
func (m *Mock) Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SummarizeCalls = append(m.SummarizeCalls, req)

	if err := m.nextErr(); err != nil {
		return nil, err
	}
	return &SummarizeResponse{
		Summary: "summary: " + m.nextResponse(),
		Usage:   TokenUsage{InputTokens: 30, OutputTokens: 10},
	}, nil
}

// Draft implements Provider.
func (m *Mock) Draft(ctx context.Context, req DraftRequest) (*DraftResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DraftCalls = append(m.DraftCalls, req)

	if err := m.nextErr(); err != nil {
		return nil, err
	}
	return &DraftResponse{
		Draft: "draft: " + m.nextResponse(),
		Usage: TokenUsage{InputTokens: 40, OutputTokens: 20},
	}, nil
}
