package engine

import "errors"

var (
	// ErrGraph wraps failures building or topologically sorting a
	// WorkflowSpec's graph (cycles, unknown node references).
	ErrGraph = errors.New("invalid workflow graph")

	// ErrNodeFailed indicates at least one node in the workflow failed;
	// the underlying node error is wrapped alongside it.
	ErrNodeFailed = errors.New("workflow node execution failed")
)
