package truncate

import "github.com/flowkit-ai/flowkit/tokens"

// Strategy defines how text is truncated.
type Strategy int

const (
	// FromEnd removes content from the end (default).
	FromEnd Strategy = iota

	// FromMiddle removes content from the middle, keeping start and end.
	FromMiddle

	// FromStart removes content from the start.
	FromStart
)

// Marker is appended (or inserted) where content was removed.
const Marker = "[content truncated]"

// DefaultEndSuffix is the default suffix for end truncation.
const DefaultEndSuffix = "\n" + Marker

// DefaultMiddleSuffix is the default marker for middle truncation.
const DefaultMiddleSuffix = "\n" + Marker + "\n"

// DefaultStartSuffix is the default prefix for start truncation.
const DefaultStartSuffix = Marker + "\n"

// Truncator truncates text to fit within token limits.
//
// The kept body is cut so it alone fits maxTokens; the marker is appended
// on top of that. Budgeting callers account for the marker separately.
type Truncator struct {
	counter  tokens.Counter
	strategy Strategy
	suffix   string
}

// New creates a truncator with the given strategy.
func New(strategy Strategy) *Truncator {
	suffix := DefaultEndSuffix
	switch strategy {
	case FromMiddle:
		suffix = DefaultMiddleSuffix
	case FromStart:
		suffix = DefaultStartSuffix
	}
	return &Truncator{
		counter:  tokens.NewEstimatingCounter(),
		strategy: strategy,
		suffix:   suffix,
	}
}

// NewFromEnd creates a truncator that removes content from the end.
func NewFromEnd() *Truncator {
	return New(FromEnd)
}

// NewFromMiddle creates a truncator that removes content from the middle.
func NewFromMiddle() *Truncator {
	return New(FromMiddle)
}

// NewFromStart creates a truncator that removes content from the start.
func NewFromStart() *Truncator {
	return New(FromStart)
}

// WithCounter sets a custom token counter.
func (t *Truncator) WithCounter(counter tokens.Counter) *Truncator {
	t.counter = counter
	return t
}

// WithSuffix sets a custom truncation marker.
func (t *Truncator) WithSuffix(suffix string) *Truncator {
	t.suffix = suffix
	return t
}

// Truncate reduces the text so the kept body fits within the token limit,
// marking the cut. Returns the text and whether truncation occurred.
func (t *Truncator) Truncate(text string, maxTokens int) (string, bool) {
	if t.counter.FitsInLimit(text, maxTokens) {
		return text, false
	}

	switch t.strategy {
	case FromMiddle:
		return t.truncateMiddle(text, maxTokens), true
	case FromStart:
		return t.truncateStart(text, maxTokens), true
	default:
		return t.truncateEnd(text, maxTokens), true
	}
}

// Strategy returns the truncator's strategy.
func (t *Truncator) Strategy() Strategy {
	return t.strategy
}

// Suffix returns the truncator's marker text.
func (t *Truncator) Suffix() string {
	return t.suffix
}
