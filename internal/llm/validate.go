package llm

import (
	"encoding/json"
	"fmt"
	"sync"

	"mockinterview/api/internal/models"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// compiled schemas keyed by name
var schemaCache sync.Map

// ValidateJSON checks content against schema and returns the decoded value.
// A nil schema only requires content to be valid JSON.
func ValidateJSON(schema *models.ResponseSchema, content string) (any, error) {
	var parsed any
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, invalidResponse(fmt.Errorf("invalid JSON: %w", err))
	}
	if schema == nil {
		return parsed, nil
	}

	compiled, err := compileSchema(schema)
	if err != nil {
		return nil, invalidResponse(fmt.Errorf("compile schema %q: %w", schema.Name, err))
	}
	if err := compiled.Validate(parsed); err != nil {
		return nil, invalidResponse(fmt.Errorf("schema validation failed: %w", err))
	}
	return parsed, nil
}

func compileSchema(schema *models.ResponseSchema) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(schema.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// the compiler wants plain JSON values, not typed Go slices
	raw, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", schema.Name)
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, err
	}
	schemaCache.Store(schema.Name, compiled)
	return compiled, nil
}

func invalidResponse(err error) error {
	return &ProviderError{
		Provider: "validator",
		Code:     ErrCodeInvalidResponse,
		Message:  "response does not match the expected shape",
		Err:      err,
	}
}
