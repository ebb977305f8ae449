package pipeline

import (
	"encoding/json"
	"sync"

	"github.com/invopop/jsonschema"
)

// classificationOutput is the structured-output shape classify steps ask
// providers to produce, one entry per item.
type classificationOutput struct {
	ItemID     string  `json:"item_id" jsonschema:"required,description=ID of the classified item"`
	Label      string  `json:"label" jsonschema:"required,description=Assigned label from the provided set"`
	Confidence float64 `json:"confidence" jsonschema:"required,minimum=0,maximum=1"`
	Reasoning  string  `json:"reasoning,omitempty" jsonschema:"description=Short justification for the label"`
}

var (
	classifySchemaOnce sync.Once
	classifySchema     json.RawMessage
)

// classificationSchema returns the JSON schema handed to providers that
// support schema-constrained output. Generated once, reused for every
// classify step.
func classificationSchema() json.RawMessage {
	classifySchemaOnce.Do(func() {
		reflector := jsonschema.Reflector{DoNotReference: true}
		schema := reflector.Reflect(&classificationOutput{})
		raw, err := json.Marshal(schema)
		if err != nil {
			// Reflection over a static struct cannot fail at runtime;
			// an empty schema just disables constrained output.
			raw = nil
		}
		classifySchema = raw
	})
	return classifySchema
}
