package extract

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildExtractionSchema returns the JSON-Schema (draft 2020-12 subset) an
// extraction response must satisfy, as a generic map. It constrains the
// fields downstream code depends on; the model may return more.
func BuildExtractionSchema() map[string]any {
	partyProp := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name":        map[string]any{"type": "string", "minLength": 1},
			"address":     map[string]any{"type": []string{"string", "null"}},
			"role":        map[string]any{"type": []string{"string", "null"}},
			"entity_type": map[string]any{"type": []string{"string", "null"}},
		},
		"required": []string{"name"},
	}

	confidenceProp := map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"document_type":  map[string]any{"type": "string", "minLength": 1},
			"document_title": map[string]any{"type": []string{"string", "null"}},
			"parties": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"grantors": map[string]any{"type": "array", "items": partyProp},
					"grantees": map[string]any{"type": "array", "items": partyProp},
				},
			},
			"confidence": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"overall":        confidenceProp,
					"parties":        confidenceProp,
					"dates":          confidenceProp,
					"recording_info": confidenceProp,
					"interests":      confidenceProp,
				},
			},
			"exhibit_references": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name": map[string]any{"type": "string", "minLength": 1},
					},
					"required": []string{"name"},
				},
			},
		},
		"required": []string{"document_type"},
	}
}

// ValidateExtraction checks raw response JSON against the extraction
// schema before it is decoded into typed structs.
func ValidateExtraction(data []byte) error {
	b, err := json.Marshal(BuildExtractionSchema())
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("extraction.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("extraction.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("extraction does not match schema: %w", err)
	}
	return nil
}
