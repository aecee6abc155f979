// Package echo provides a trivial pass-through tool: its output is its
// "message" input, under the same field name. It exists for exercising the
// engine, runner, and schema composer without any external dependency, and
// as a minimal worked example of the registry.Tool interface.
package echo

import (
	"context"

	"github.com/harshj20/taskflow/pkg/types"
)

// Tool implements registry.Tool. It copies its "message" input straight to
// its "message" output.
type Tool struct{}

// New constructs the echo tool.
func New() *Tool {
	return &Tool{}
}

// Contract describes echo's input/output shape.
func (t *Tool) Contract() types.ToolContract {
	c := types.ToolContract{
		Name:        "echo",
		Description: "Returns its input message unchanged, for testing and examples.",
		Category:    types.CategoryUtility,
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"message": map[string]interface{}{"type": "string"},
			},
			"required": []interface{}{"message"},
		},
		OutputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"message": map[string]interface{}{"type": "string"},
			},
			"required": []interface{}{"message"},
		},
		OutputMappings: map[string]string{"message": "message"},
	}
	c.Normalize()
	return c
}

// Execute returns inputs["message"] as outputs["message"].
func (t *Tool) Execute(ctx context.Context, inputs map[string]interface{}) (map[string]interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	message, _ := inputs["message"].(string)
	return map[string]interface{}{"message": message}, nil
}
