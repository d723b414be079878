package extract

import (
	"encoding/json"
	"fmt"
	"strings"
)

// parseResponse decodes a model's extraction reply: markdown code fences
// are stripped if present, the JSON is schema-validated, then decoded.
func parseResponse(responseText string) (*DocumentExtraction, error) {
	text := strings.TrimSpace(responseText)

	if strings.HasPrefix(text, "```json") {
		text = text[len("```json"):]
	} else if strings.HasPrefix(text, "```") {
		text = text[len("```"):]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	text = strings.TrimSpace(text)

	data := []byte(text)
	if err := ValidateExtraction(data); err != nil {
		return nil, err
	}

	var result DocumentExtraction
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decoding extraction: %w", err)
	}
	return &result, nil
}
