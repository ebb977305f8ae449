package provider

import (
	"encoding/json"
	"time"
)

// Role identifies the message sender.
type Role string

// Standard message roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
)

// Message is a conversation turn.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// NewTextMessage creates a simple text message.
func NewTextMessage(role Role, content string) Message {
	return Message{Role: role, Content: content}
}

// Request configures a completion call. This is the provider-agnostic
// request format used across all backends.
type Request struct {
	// SystemPrompt sets the system message that guides the model's behavior.
	SystemPrompt string `json:"system_prompt,omitempty"`

	// Messages is the conversation history to send to the model.
	Messages []Message `json:"messages"`

	// Model specifies which model to use (provider-specific ID).
	Model string `json:"model,omitempty"`

	// MaxTokens limits the response length. 0 uses the provider default.
	MaxTokens int `json:"max_tokens,omitempty"`

	// Temperature controls response randomness (0.0 = deterministic).
	Temperature float64 `json:"temperature,omitempty"`
}

// TokenUsage tracks token consumption for one operation.
type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// Add combines token usage from another TokenUsage.
func (u *TokenUsage) Add(other TokenUsage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
	u.TotalTokens += other.TotalTokens
}

// Response is the output of a completion call.
type Response struct {
	// Content is the text response from the model.
	Content string `json:"content"`

	// Model is the actual model used (may differ from requested).
	Model string `json:"model"`

	// Usage tracks token consumption for this request.
	Usage TokenUsage `json:"usage"`

	// FinishReason indicates why the model stopped generating.
	// Common values: "stop", "length".
	FinishReason string `json:"finish_reason,omitempty"`

	// Duration is the time taken for the completion.
	Duration time.Duration `json:"duration,omitempty"`
}

// StreamChunk is a piece of a streaming response. Text chunks arrive first;
// the terminal chunk has Done set and carries usage and model ID.
type StreamChunk struct {
	// Content is the text content in this chunk.
	Content string `json:"content,omitempty"`

	// Usage is the token usage (only set in the terminal chunk).
	Usage *TokenUsage `json:"usage,omitempty"`

	// Model is the model ID (only set in the terminal chunk).
	Model string `json:"model,omitempty"`

	// Done indicates this is the terminal chunk.
	Done bool `json:"done"`

	// Error is non-nil if streaming failed.
	Error error `json:"-"`
}

// ClassifyItem is one item to classify.
type ClassifyItem struct {
	ID      string `json:"id"`
	Title   string `json:"title,omitempty"`
	Body    string `json:"body,omitempty"`
	Preview string `json:"preview,omitempty"`
}

// ClassifyRequest asks a provider to label a batch of items.
type ClassifyRequest struct {
	// Items is the batch to classify.
	Items []ClassifyItem `json:"items"`

	// Labels is the closed label set to choose from.
	Labels []string `json:"labels"`

	// Context is optional extra guidance for the classifier.
	Context string `json:"context,omitempty"`

	// Model overrides the provider's default model.
	Model string `json:"model,omitempty"`

	// Schema is an optional JSON schema for structured output. Adapters
	// that support schema-constrained responses pass it through.
	Schema json.RawMessage `json:"schema,omitempty"`
}

// Classification is the label assigned to one item.
type Classification struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning,omitempty"`
}

// ClassifyResponse carries per-item classifications keyed by item ID.
type ClassifyResponse struct {
	Results map[string]Classification `json:"results"`
	Usage   TokenUsage                `json:"usage"`
}

// SummarizeRequest asks a provider to summarize a piece of content.
type SummarizeRequest struct {
	Content   string `json:"content"`
	Style     string `json:"style,omitempty"`
	MaxLength int    `json:"max_length,omitempty"`
	Model     string `json:"model,omitempty"`
}

// SummarizeResponse is the summary plus token counts.
type SummarizeResponse struct {
	Summary string     `json:"summary"`
	Usage   TokenUsage `json:"usage"`
}

// DraftItem is the item a draft responds to.
type DraftItem struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
	Body  string `json:"body,omitempty"`
	Type  string `json:"type"`
}

// DraftRequest asks a provider to draft a response to an item.
type DraftRequest struct {
	Item   DraftItem `json:"item"`
	Intent string    `json:"intent,omitempty"`
	Tone   string    `json:"tone,omitempty"`
	Model  string    `json:"model,omitempty"`
}

// DraftResponse is the drafted text plus token counts.
type DraftResponse struct {
	Draft string     `json:"draft"`
	Usage TokenUsage `json:"usage"`
}
