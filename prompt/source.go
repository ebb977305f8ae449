package prompt

// Source is a named, priority-ranked chunk of text eligible for inclusion
// in a request's system prompt.
type Source struct {
	// Key deduplicates sources: adding a source with an existing key
	// replaces the old one.
	Key string `json:"key" yaml:"key"`

	// Content is the text included in the system prompt.
	Content string `json:"content" yaml:"content"`

	// Priority orders candidates; higher priority is more likely kept.
	Priority int `json:"priority" yaml:"priority"`

	// TokenEstimate is a caller-supplied exact token count.
	// 0 means estimate from Content.
	TokenEstimate int `json:"token_estimate,omitempty" yaml:"token_estimate,omitempty"`
}
