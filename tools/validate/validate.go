// Package validate provides a tool that validates an arbitrary JSON document
// against a caller-supplied JSON Schema, using the same gojsonschema engine
// the Schema Composer uses at every node I/O boundary. It lets a
// workflow assert a shape invariant on intermediate data before passing it
// downstream, instead of discovering a shape mismatch only when the next
// tool's own input validation rejects it.
package validate

import (
	"context"
	"fmt"

	"github.com/harshj20/taskflow/pkg/schema"
	"github.com/harshj20/taskflow/pkg/types"
)

// Tool implements registry.Tool. It validates inputs["document"] against
// inputs["schema"] and reports the outcome rather than failing the node on
// a schema mismatch, so a workflow can branch on validity.
type Tool struct{}

// New constructs the validate tool.
func New() *Tool {
	return &Tool{}
}

// Contract describes validate's input/output shape.
func (t *Tool) Contract() types.ToolContract {
	c := types.ToolContract{
		Name:        "validate",
		Description: "Validates a document against a JSON Schema and reports whether it is valid.",
		Category:    types.CategoryUtility,
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"document": map[string]interface{}{},
				"schema": map[string]interface{}{
					"type": "object",
				},
			},
			"required": []interface{}{"document", "schema"},
		},
		OutputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"valid":  map[string]interface{}{"type": "boolean"},
				"errors": map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
			},
			"required": []interface{}{"valid"},
		},
		OutputMappings: map[string]string{"valid": "valid"},
	}
	c.Normalize()
	return c
}

// Execute validates inputs["document"] against inputs["schema"].
func (t *Tool) Execute(ctx context.Context, inputs map[string]interface{}) (map[string]interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	schemaDoc, ok := inputs["schema"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("validate: schema input must be an object")
	}
	document := inputs["document"]

	if err := schema.ValidateInstance(schemaDoc, document); err != nil {
		return map[string]interface{}{
			"valid":  false,
			"errors": []string{err.Error()},
		}, nil
	}

	return map[string]interface{}{
		"valid":  true,
		"errors": []string{},
	}, nil
}
