package genai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ValidateSchema checks a decoded JSON value against a JSON-Schema
// expressed as a generic map, the same form sent to the provider as the
// structured output constraint.
func ValidateSchema(schema map[string]any, value any) error {
	data, err := json.Marshal(schema)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("response.json", bytes.NewReader(data)); err != nil {
		return fmt.Errorf("load schema: %w", err)
	}

	compiled, err := compiler.Compile("response.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	return compiled.Validate(value)
}

var fenceRegex = regexp.MustCompile("(?s)```(?:json)?\\s*\n?(.*?)\n?```")

// stripFence unwraps JSON from a markdown code fence when a model ignores
// the structured output constraint and fences its answer anyway.
func stripFence(content string) string {
	content = strings.TrimSpace(content)
	if matches := fenceRegex.FindStringSubmatch(content); len(matches) >= 2 {
		return strings.TrimSpace(matches[1])
	}
	return content
}
