// Package graph builds a DAG from a workflow spec and computes its
// execution layering.
//
// Edges come from two sources: explicit WorkflowEdge entries and the
// implicit dependency encoded in each node's input_mappings (a mapping key
// of the form "<node_id>.<field>" implies an edge from that node). Layers
// computes a batched topological order via Kahn's algorithm: all nodes in
// one batch have no dependency on each other and are safe to dispatch
// concurrently.
package graph
