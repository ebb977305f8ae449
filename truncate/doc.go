// Package truncate provides token-aware text truncation for managing LLM
// context.
//
// When fitting conversation history into a context budget, an oversized
// message is cut down and the cut is marked with "[content truncated]".
//
// # Strategies
//
// Three truncation strategies are available:
//
//   - FromEnd: Remove content from the end (default)
//   - FromMiddle: Remove content from the middle, keeping start and end
//   - FromStart: Remove content from the start
//
// # Basic Usage
//
//	tr := truncate.NewFromEnd()
//	result, truncated := tr.Truncate("very long text...", 100)
//
// The kept body fits the limit on its own; the marker is appended on top.
//
// # Custom Token Counter
//
// By default, truncation uses an estimating counter (~4 chars/token).
// For exact results, provide a custom counter:
//
//	tr := truncate.NewFromEnd().WithCounter(myCounter)
//
// All truncation counts runes rather than bytes, so multi-byte characters
// are never split.
package truncate
