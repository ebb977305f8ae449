package provider

// Capability names an operation a model supports.
type Capability string

// Capabilities a model may advertise.
const (
	CapCompletion     Capability = "completion"
	CapClassification Capability = "classification"
	CapSummarization  Capability = "summarization"
	CapDrafting       Capability = "drafting"
	CapStreaming      Capability = "streaming"
)

// Model describes one model offered by a provider. Models are immutable:
// providers define them at construction and never change them.
type Model struct {
	// ID is the provider-specific model identifier.
	ID string `json:"id" yaml:"id"`

	// Name is the human-readable display name.
	Name string `json:"name" yaml:"name"`

	// ContextWindow is the maximum context size in tokens.
	ContextWindow int `json:"context_window" yaml:"context_window"`

	// InputCostPer1K is the USD cost per 1000 input tokens.
	InputCostPer1K float64 `json:"input_cost_per_1k" yaml:"input_cost_per_1k"`

	// OutputCostPer1K is the USD cost per 1000 output tokens.
	OutputCostPer1K float64 `json:"output_cost_per_1k" yaml:"output_cost_per_1k"`

	// Capabilities lists the operations this model supports.
	Capabilities []Capability `json:"capabilities" yaml:"capabilities"`
}

// HasCapability checks if the model advertises a capability.
func (m Model) HasCapability(c Capability) bool {
	for _, cap := range m.Capabilities {
		if cap == c {
			return true
		}
	}
	return false
}
