package dispatcher

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// inputSchema builds the tool's JSON Schema: an object whose action
// property selects one of the per-action variants listed under oneOf.
func (r *registry) inputSchema() (json.RawMessage, error) {
	reflector := &jsonschema.Reflector{
		DoNotReference:            true,
		ExpandedStruct:            true,
		AllowAdditionalProperties: true,
	}

	variants := make([]any, 0, len(r.order))
	for _, a := range r.order {
		variant, err := schemaAsMap(reflector.Reflect(a.paramsPrototype()))
		if err != nil {
			return nil, fmt.Errorf("reflecting params of %s: %w", a.Name(), err)
		}
		delete(variant, "$schema")
		delete(variant, "$id")

		props, _ := variant["properties"].(map[string]any)
		if props == nil {
			props = map[string]any{}
		}
		props["action"] = map[string]any{"const": a.Name()}
		variant["properties"] = props

		required, _ := variant["required"].([]any)
		variant["required"] = append([]any{"action"}, required...)
		variant["title"] = a.Name()
		variant["description"] = a.Description()

		variants = append(variants, variant)
	}

	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"action": map[string]any{
				"type":        "string",
				"enum":        r.names(),
				"description": "Operation to perform. Each action accepts the fields of its oneOf variant.",
			},
		},
		"required": []string{"action"},
		"oneOf":    variants,
	}
	return json.Marshal(schema)
}

func schemaAsMap(s *jsonschema.Schema) (map[string]any, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
