package runner

import "errors"

// Sentinel errors for node execution.
var (
	// ErrInput wraps a resolved-input validation failure (InputError).
	ErrInput = errors.New("invalid node input")

	// ErrExecution wraps a tool's own execution failure (ExecutionError).
	ErrExecution = errors.New("tool execution failed")

	// ErrOutputSchema wraps an output-schema validation failure (OutputSchemaError).
	ErrOutputSchema = errors.New("tool output failed schema validation")

	// ErrCancelled is returned when ctx is already done before dispatch, or
	// when the tool call returns after ctx was cancelled.
	ErrCancelled = errors.New("node execution cancelled")
)
