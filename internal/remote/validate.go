package remote

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Wire-contract schemas for the two collaborator services. Responses are
// validated before any field is trusted; a validation failure is an
// ErrInvalidResponse and triggers the caller's fallback path.
var (
	scoreResponseSchema = &payloadSchema{
		name: "score-response",
		definition: map[string]any{
			"type":     "object",
			"required": []any{"score", "percentage", "coins_earned", "message"},
			"properties": map[string]any{
				"score":        map[string]any{"type": "string"},
				"percentage":   map[string]any{"type": "number", "minimum": 0, "maximum": 100},
				"coins_earned": map[string]any{"type": "integer", "minimum": 0},
				"message":      map[string]any{"type": "string"},
			},
		},
	}

	generateResponseSchema = &payloadSchema{
		name: "generate-response",
		definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"basic":  tierArraySchema(),
				"medium": tierArraySchema(),
				"hard":   tierArraySchema(),
			},
		},
	}
)

func tierArraySchema() map[string]any {
	return map[string]any{
		"type": "array",
		"items": map[string]any{
			"type":     "object",
			"required": []any{"questions"},
			"properties": map[string]any{
				"questions": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type":     "object",
						"required": []any{"options"},
						"properties": map[string]any{
							"options": map[string]any{
								"type":  "array",
								"items": map[string]any{"type": "string"},
							},
						},
					},
				},
			},
		},
	}
}

type payloadSchema struct {
	name       string
	definition map[string]any
}

// schemaCache caches compiled schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// validatePayload validates raw JSON against the given contract schema.
// Returns *ErrInvalidResponse on any failure.
func validatePayload(service string, schema *payloadSchema, raw json.RawMessage) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return &ErrInvalidResponse{
			Service: service,
			Content: raw,
			Err:     fmt.Errorf("invalid JSON: %w", err),
		}
	}

	compiled, err := getCompiledSchema(schema)
	if err != nil {
		return &ErrInvalidResponse{
			Service: service,
			Content: raw,
			Err:     fmt.Errorf("compile schema %q: %w", schema.name, err),
		}
	}

	if err := compiled.Validate(parsed); err != nil {
		return &ErrInvalidResponse{
			Service: service,
			Content: raw,
			Err:     fmt.Errorf("schema validation failed: %w", err),
		}
	}

	return nil
}

// getCompiledSchema returns a cached compiled schema or compiles and caches it.
func getCompiledSchema(schema *payloadSchema) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(schema.name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The jsonschema library expects a parsed JSON value (any), not raw
	// bytes. Marshal then unmarshal to get a clean any representation.
	defBytes, err := json.Marshal(schema.definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	schemaURL := fmt.Sprintf("schema://%s.json", schema.name)
	if err := c.AddResource(schemaURL, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}

	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(schema.name, compiled)
	return compiled, nil
}
