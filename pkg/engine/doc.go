// Package engine implements the Workflow Engine: given a
// WorkflowSpec, it builds the dependency graph, persists a WorkflowExecution
// record, and dispatches each topological layer concurrently through the
// Node Runner, streaming a fixed sequence of events (start, node_started,
// node_completed/node_failed, workflow_completed/workflow_failed, complete)
// to any registered Observer.
//
// A workflow fails fast: the first node failure in a batch cancels the
// remaining in-flight nodes of that batch and stops dispatch of later
// batches, but nodes already dispatched are always allowed to finish so
// their NodeExecution records land in a terminal state.
package engine
