package schema_test

import (
	"context"
	"testing"

	"github.com/harshj20/taskflow/pkg/registry"
	"github.com/harshj20/taskflow/pkg/schema"
	"github.com/harshj20/taskflow/pkg/types"
)

type stubTool struct{ contract types.ToolContract }

func (s stubTool) Contract() types.ToolContract { return s.contract }
func (s stubTool) Execute(context.Context, map[string]interface{}) (map[string]interface{}, error) {
	return nil, nil
}

func TestPipelineSchema_ElidesFieldSuppliedByUpstream(t *testing.T) {
	reg := registry.New()
	reg.MustRegister(stubTool{contract: types.ToolContract{
		Name: "make_id",
		OutputSchema: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{"id": map[string]interface{}{"type": "string"}},
		},
		OutputMappings: map[string]string{"id": "ref_id"},
	}})
	reg.MustRegister(stubTool{contract: types.ToolContract{
		Name: "echo",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"ref_id":  map[string]interface{}{"type": "string"},
				"message": map[string]interface{}{"type": "string"},
			},
			"required": []interface{}{"ref_id", "message"},
		},
	}})

	c := schema.NewComposer(reg)
	composed, err := c.PipelineSchema([]string{"make_id", "echo"})
	if err != nil {
		t.Fatalf("PipelineSchema: %v", err)
	}

	props := composed["properties"].(map[string]interface{})
	if _, ok := props["ref_id"]; ok {
		t.Fatalf("expected ref_id to be elided, got properties: %v", props)
	}
	if _, ok := props["message"]; !ok {
		t.Fatalf("expected message to remain, got properties: %v", props)
	}

	required := composed["required"].([]string)
	for _, r := range required {
		if r == "ref_id" {
			t.Fatalf("expected ref_id not required, got: %v", required)
		}
	}
}

func TestPipelineSchema_PropertyCollisionKeepsFirstToolsDefinition(t *testing.T) {
	reg := registry.New()
	reg.MustRegister(stubTool{contract: types.ToolContract{
		Name: "first",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"name": map[string]interface{}{"type": "string", "description": "from first"},
			},
		},
	}})
	reg.MustRegister(stubTool{contract: types.ToolContract{
		Name: "second",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"name": map[string]interface{}{"type": "integer", "description": "from second"},
			},
		},
	}})

	c := schema.NewComposer(reg)
	composed, err := c.PipelineSchema([]string{"first", "second"})
	if err != nil {
		t.Fatalf("PipelineSchema: %v", err)
	}

	props := composed["properties"].(map[string]interface{})
	nameSchema, ok := props["name"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected name property, got: %v", props)
	}
	if nameSchema["description"] != "from first" {
		t.Fatalf("expected first tool's definition to win on collision, got: %v", nameSchema)
	}
}

func TestStandaloneSchema_ReturnsToolsOwnSchema(t *testing.T) {
	reg := registry.New()
	reg.MustRegister(stubTool{contract: types.ToolContract{
		Name: "echo",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{"message": map[string]interface{}{"type": "string"}},
		},
	}})

	c := schema.NewComposer(reg)
	s, err := c.StandaloneSchema("echo")
	if err != nil {
		t.Fatalf("StandaloneSchema: %v", err)
	}
	if s["type"] != "object" {
		t.Fatalf("unexpected schema: %v", s)
	}
}

func TestValidateInstance_RejectsMissingRequired(t *testing.T) {
	s := map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{"name": map[string]interface{}{"type": "string"}},
		"required":   []interface{}{"name"},
	}
	if err := schema.ValidateInstance(s, map[string]interface{}{}); err == nil {
		t.Fatal("expected validation error for missing required field")
	}
	if err := schema.ValidateInstance(s, map[string]interface{}{"name": "ok"}); err != nil {
		t.Fatalf("expected valid instance to pass, got %v", err)
	}
}
