package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/harshj20/taskflow/pkg/breaker"
	"github.com/harshj20/taskflow/pkg/registry"
	"github.com/harshj20/taskflow/pkg/schema"
	"github.com/harshj20/taskflow/pkg/store"
	"github.com/harshj20/taskflow/pkg/types"
)

// Runner executes one NodeSpec at a time: resolve inputs, validate, invoke
// the tool through its circuit breaker, validate the output, persist the
// result.
type Runner struct {
	tools    *registry.Registry
	breakers *breaker.Registry
	store    store.Store
}

// New builds a Runner over the given tool registry, breaker registry, and
// persistence store.
func New(tools *registry.Registry, breakers *breaker.Registry, st store.Store) *Runner {
	return &Runner{tools: tools, breakers: breakers, store: st}
}

// Tools returns the Runner's tool registry, letting callers (the Engine)
// validate a graph's tool references against the same registry that will
// execute them.
func (r *Runner) Tools() *registry.Registry {
	return r.tools
}

// ResolveInputs merges a node's literal inputs with values mapped from
// upstream node outputs. results is keyed by node id, holding each
// upstream node's Outputs map.
func ResolveInputs(node types.NodeSpec, results map[string]map[string]interface{}) (map[string]interface{}, error) {
	inputs := make(map[string]interface{}, len(node.LiteralInputs)+len(node.InputMappings))
	for k, v := range node.LiteralInputs {
		inputs[k] = v
	}

	for source, field := range node.InputMappings {
		sourceNode, sourceField, ok := splitMapping(source)
		if !ok {
			return nil, fmt.Errorf("%w: input mapping %q for field %q is malformed, want \"node.field\"", ErrInput, source, field)
		}
		upstream, ok := results[sourceNode]
		if !ok {
			return nil, fmt.Errorf("%w: input mapping %q references node %q with no recorded output", ErrInput, source, sourceNode)
		}
		value, ok := upstream[sourceField]
		if !ok {
			return nil, fmt.Errorf("%w: upstream node %q has no output field %q", ErrInput, sourceNode, sourceField)
		}
		inputs[field] = value
	}

	return inputs, nil
}

func splitMapping(source string) (node, field string, ok bool) {
	for i := len(source) - 1; i >= 0; i-- {
		if source[i] == '.' {
			return source[:i], source[i+1:], true
		}
	}
	return "", "", false
}

// Run resolves the node's inputs, validates them, invokes the tool, and
// validates the output. A NodeExecution record is created once the inputs
// validate and is updated with the outcome; contract lookup, input
// resolution and input validation failures return before any record exists.
// It returns the tool's outputs on success.
func (r *Runner) Run(ctx context.Context, workflowID string, node types.NodeSpec, results map[string]map[string]interface{}) (map[string]interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCancelled, err)
	}

	contract, err := r.tools.Contract(node.Tool)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInput, err)
	}

	inputs, err := ResolveInputs(node, results)
	if err != nil {
		return nil, err
	}

	if len(contract.InputSchema) > 0 {
		if err := schema.ValidateInstance(contract.InputSchema, inputs); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInput, err)
		}
	}

	ne := &types.NodeExecution{
		ID:             uuid.NewString(),
		WorkflowID:     workflowID,
		NodeID:         node.NodeID,
		Tool:           node.Tool,
		ResolvedInputs: inputs,
		Status:         types.StatusRunning,
	}
	now := time.Now()
	ne.StartedAt = &now
	if r.store != nil {
		if err := r.store.CreateNode(ctx, ne); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrExecution, err)
		}
	}

	tool, err := r.tools.Lookup(node.Tool)
	if err != nil {
		return nil, r.fail(ctx, ne, fmt.Errorf("%w: %v", ErrInput, err))
	}

	outputs, err := r.breakers.Execute(ctx, node.Tool, func(ctx context.Context) (map[string]interface{}, error) {
		return tool.Execute(ctx, inputs)
	})
	if err != nil {
		// A tool returning because its ctx was cancelled is a Cancelled
		// node, not a generic execution failure, even once the error has
		// passed back through the breaker.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, r.fail(ctx, ne, fmt.Errorf("%w: %v", ErrCancelled, ctxErr))
		}
		return nil, r.fail(ctx, ne, fmt.Errorf("%w: %v", ErrExecution, err))
	}

	if len(contract.OutputSchema) > 0 {
		if err := schema.ValidateInstance(contract.OutputSchema, outputs); err != nil {
			return nil, r.fail(ctx, ne, fmt.Errorf("%w: %v", ErrOutputSchema, err))
		}
	}

	ne.Status = types.StatusCompleted
	ne.Outputs = outputs
	completed := time.Now()
	ne.CompletedAt = &completed
	if r.store != nil {
		if err := r.store.UpdateNode(ctx, ne); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrExecution, err)
		}
	}

	return outputs, nil
}

func (r *Runner) fail(ctx context.Context, ne *types.NodeExecution, cause error) error {
	ne.Status = types.StatusFailed
	ne.ErrorMessage = cause.Error()
	completed := time.Now()
	ne.CompletedAt = &completed
	if r.store != nil {
		// Persistence errors on the failure path are secondary to the
		// original tool failure; surface the original error either way.
		_ = r.store.UpdateNode(ctx, ne)
	}
	return cause
}
