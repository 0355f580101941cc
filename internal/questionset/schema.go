package questionset

import (
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const schemaURL = "schema://wifeymooc/question-set.json"

// setSchema constrains only the top-level shape. Record payloads are read
// leniently by the question package.
var setSchema = map[string]any{
	"$defs": map[string]any{
		"records": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"type":     map[string]any{"type": "string"},
					"question": map[string]any{"type": "string"},
					"hint":     map[string]any{"type": "string"},
				},
			},
		},
	},
	"oneOf": []any{
		map[string]any{"$ref": "#/$defs/records"},
		map[string]any{
			"type":     "object",
			"required": []any{"questions"},
			"properties": map[string]any{
				"format_version": map[string]any{"type": "string"},
				"title":          map[string]any{"type": "string"},
				"questions":      map[string]any{"$ref": "#/$defs/records"},
			},
		},
	},
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, setSchema); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

func validate(doc any) error {
	s, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile question set schema: %w", err)
	}
	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
