package ai

import (
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// toGenaiSchema converts a JSON-schema-shaped map into a genai.Schema so
// that callers can declare structured output without importing the SDK.
// Only the subset used by prompt templates is supported: type, description,
// enum, required, properties, and items.
func toGenaiSchema(m map[string]any) (*genai.Schema, error) {
	if len(m) == 0 {
		return nil, nil
	}
	schema := &genai.Schema{}

	if typeStr, ok := m["type"].(string); ok {
		switch strings.ToLower(typeStr) {
		case "object":
			schema.Type = genai.TypeObject
		case "array":
			schema.Type = genai.TypeArray
		case "string":
			schema.Type = genai.TypeString
		case "number":
			schema.Type = genai.TypeNumber
		case "integer":
			schema.Type = genai.TypeInteger
		case "boolean":
			schema.Type = genai.TypeBoolean
		default:
			return nil, fmt.Errorf("unsupported schema type %q", typeStr)
		}
	}
	if desc, ok := m["description"].(string); ok {
		schema.Description = desc
	}
	schema.Enum = append(schema.Enum, stringSlice(m["enum"])...)
	schema.Required = append(schema.Required, stringSlice(m["required"])...)

	if itemsMap, ok := m["items"].(map[string]any); ok {
		items, err := toGenaiSchema(itemsMap)
		if err != nil {
			return nil, fmt.Errorf("items: %w", err)
		}
		schema.Items = items
	}
	if propsMap, ok := m["properties"].(map[string]any); ok {
		schema.Properties = make(map[string]*genai.Schema, len(propsMap))
		for name, raw := range propsMap {
			propMap, ok := raw.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("property %q is not an object", name)
			}
			prop, err := toGenaiSchema(propMap)
			if err != nil {
				return nil, fmt.Errorf("property %q: %w", name, err)
			}
			schema.Properties[name] = prop
		}
	}
	return schema, nil
}

func stringSlice(v any) []string {
	switch vals := v.(type) {
	case []string:
		return vals
	case []any:
		out := make([]string, 0, len(vals))
		for _, item := range vals {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
