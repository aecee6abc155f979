package schema

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/harshj20/taskflow/pkg/registry"
	"github.com/harshj20/taskflow/pkg/types"
)

const maxDependencyDepth = 10

// contractLookup is the subset of *registry.Registry the composer needs;
// declaring it as an interface keeps the composer testable without a full
// registry.
type contractLookup interface {
	Contract(name string) (types.ToolContract, error)
}

// Composer builds effective input schemas for standalone tool invocation
// and for multi-tool pipelines.
type Composer struct {
	tools contractLookup
}

// NewComposer builds a Composer backed by reg.
func NewComposer(reg *registry.Registry) *Composer {
	return &Composer{tools: reg}
}

// StandaloneSchema returns a tool's own declared input schema, unmodified,
// for the single-tool invoke endpoint.
func (c *Composer) StandaloneSchema(toolName string) (map[string]interface{}, error) {
	contract, err := c.tools.Contract(toolName)
	if err != nil {
		return nil, err
	}
	return deepCopySchema(contract.InputSchema), nil
}

// PipelineSchema composes the effective input schema a caller must satisfy
// to drive toolNames as an ordered pipeline: fields any upstream tool's
// OutputMappings says it supplies are elided from the composed schema,
// since the engine — not the caller — fills them in from the upstream
// node's output. Each tool's DeclaredDependencies are walked recursively,
// depth-limited to maxDependencyDepth, and their OutputMappings also count
// as satisfied; a dependency's own input fields are not added to the
// composed schema, and unregistered or already-visited dependencies are
// skipped without error.
func (c *Composer) PipelineSchema(toolNames []string) (map[string]interface{}, error) {
	properties := map[string]interface{}{}
	var required []string
	satisfied := map[string]bool{}

	for _, name := range toolNames {
		contract, err := c.tools.Contract(name)
		if err != nil {
			return nil, err
		}

		if err := c.inlineDependencies(contract, satisfied, 0, map[string]bool{name: true}); err != nil {
			return nil, err
		}

		inProps, _ := contract.InputSchema["properties"].(map[string]interface{})
		for fieldName, fieldSchema := range inProps {
			if satisfied[fieldName] {
				continue
			}
			if _, exists := properties[fieldName]; exists {
				continue
			}
			properties[fieldName] = fieldSchema
		}

		for _, r := range asStringSlice(contract.InputSchema["required"]) {
			if satisfied[r] {
				continue
			}
			required = appendUnique(required, r)
		}

		for _, mapped := range contract.OutputMappings {
			satisfied[mapped] = true
		}
	}

	return map[string]interface{}{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}, nil
}

// inlineDependencies walks contract.DeclaredDependencies so that a
// dependency's own output mappings are known to satisfy fields before the
// dependent tool's input schema is merged in.
func (c *Composer) inlineDependencies(contract types.ToolContract, satisfied map[string]bool, depth int, visited map[string]bool) error {
	if depth > maxDependencyDepth {
		return fmt.Errorf("%w: at tool %q", ErrMaxDepthExceeded, contract.Name)
	}

	for _, dep := range contract.DeclaredDependencies {
		if visited[dep] {
			continue
		}
		visited[dep] = true

		depContract, err := c.tools.Contract(dep)
		if err != nil {
			// A declared dependency that isn't registered is a hint the
			// registry can't resolve; it doesn't block composition.
			continue
		}
		if err := c.inlineDependencies(depContract, satisfied, depth+1, visited); err != nil {
			return err
		}
		for _, mapped := range depContract.OutputMappings {
			satisfied[mapped] = true
		}
	}
	return nil
}

// ValidateInstance validates instance (any JSON-marshalable value) against
// schemaDoc, returning a descriptive error on the first violation. Used at
// every node I/O boundary.
func ValidateInstance(schemaDoc map[string]interface{}, instance interface{}) error {
	schemaBytes, err := json.Marshal(schemaDoc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaCompile, err)
	}

	schemaLoader := gojsonschema.NewBytesLoader(schemaBytes)
	docLoader := gojsonschema.NewGoLoader(instance)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaCompile, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("schema validation failed: %v", msgs)
	}
	return nil
}

func deepCopySchema(in map[string]interface{}) map[string]interface{} {
	b, err := json.Marshal(in)
	if err != nil {
		return map[string]interface{}{}
	}
	var out map[string]interface{}
	if err := json.Unmarshal(b, &out); err != nil {
		return map[string]interface{}{}
	}
	return out
}

func asStringSlice(v interface{}) []string {
	raw, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if s, ok := r.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func appendUnique(slice []string, v string) []string {
	for _, existing := range slice {
		if existing == v {
			return slice
		}
	}
	return append(slice, v)
}
