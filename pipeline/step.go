package pipeline

import (
	"context"

	"github.com/flowkit-ai/flowkit/provider"
)

// StepType tags the closed set of step kinds.
type StepType string

// Step kinds.
const (
	StepClassify  StepType = "classify"
	StepFilter    StepType = "filter"
	StepSummarize StepType = "summarize"
	StepDraft     StepType = "draft"
	StepCustom    StepType = "custom"
)

// CustomFunc is a caller-supplied step body. It receives the current
// pipeline context and the provider, and returns a new context; the old
// one is discarded.
type CustomFunc func(ctx context.Context, pc *Context, p provider.Provider) (*Context, error)

// Step is one operation in a pipeline. Type selects which fields apply.
type Step struct {
	// Type selects the step kind.
	Type StepType `json:"type" yaml:"type"`

	// Name labels a custom step in timing records. Ignored for the
	// built-in kinds, which are timed under their type name.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Model overrides the provider's default model for this step.
	Model string `json:"model,omitempty" yaml:"model,omitempty"`

	// --- classify ---

	// Labels is the closed label set for classification.
	Labels []string `json:"labels,omitempty" yaml:"labels,omitempty"`

	// Context is optional extra guidance for the classifier.
	Context string `json:"context,omitempty" yaml:"context,omitempty"`

	// --- filter ---

	// KeepLabels retains items whose classification label is in the set.
	KeepLabels []string `json:"keep_labels,omitempty" yaml:"keep_labels,omitempty"`

	// MinConfidence drops items classified below this confidence.
	// Default 0 keeps any confidence.
	MinConfidence float64 `json:"min_confidence,omitempty" yaml:"min_confidence,omitempty"`

	// --- summarize ---

	Style     string `json:"style,omitempty" yaml:"style,omitempty"`
	MaxLength int    `json:"max_length,omitempty" yaml:"max_length,omitempty"`

	// --- draft ---

	Intent string `json:"intent,omitempty" yaml:"intent,omitempty"`
	Tone   string `json:"tone,omitempty" yaml:"tone,omitempty"`

	// --- custom ---

	// Run is the custom step body. Required when Type is StepCustom.
	Run CustomFunc `json:"-" yaml:"-"`
}

// timingName is the tag recorded for this step's duration.
func (s Step) timingName() string {
	if s.Type == StepCustom && s.Name != "" {
		return s.Name
	}
	return string(s.Type)
}

// Definition is a named, ordered sequence of steps.
type Definition struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Steps []Step `json:"steps" yaml:"steps"`
}
