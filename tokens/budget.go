package tokens

// DefaultMaxTokens is the default maximum context size for one request.
const DefaultMaxTokens = 100000

// DefaultReservedOutput is the default token count reserved for the
// model's output.
const DefaultReservedOutput = 4096

// SystemPercent is the share of the effective budget available to system
// context sources.
const SystemPercent = 40

// Budget bounds the context of a single request: a total token ceiling and
// a slice reserved for the model's output. The zero value is not useful;
// use NewBudget.
type Budget struct {
	// MaxTokens is the maximum total context tokens.
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// ReservedOutput is the token count reserved for the model's output.
	ReservedOutput int `json:"reserved_output" yaml:"reserved_output"`
}

// NewBudget creates a budget with the default limits.
func NewBudget() Budget {
	return Budget{
		MaxTokens:      DefaultMaxTokens,
		ReservedOutput: DefaultReservedOutput,
	}
}

// EffectiveFor returns the usable context budget for a model window:
// the configured ceiling, capped by what the window leaves after the
// output reservation.
func (b Budget) EffectiveFor(contextWindow int) int {
	effective := contextWindow - b.ReservedOutput
	if b.MaxTokens < effective {
		effective = b.MaxTokens
	}
	if effective < 0 {
		return 0
	}
	return effective
}

// SystemCap returns the portion of an effective budget that system context
// sources may occupy.
func SystemCap(effective int) int {
	return effective * SystemPercent / 100
}
