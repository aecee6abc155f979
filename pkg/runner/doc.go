// Package runner implements the Node Runner: given one node
// spec and the outputs collected so far for its workflow, it resolves the
// node's inputs, validates them against the tool's input schema, invokes
// the tool through its per-tool circuit breaker, validates the tool's
// output against its output schema, and returns (or persists) the result
// as a NodeExecution record.
package runner
