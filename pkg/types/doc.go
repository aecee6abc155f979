// Package types provides shared type definitions for the taskflow workflow engine.
//
// # Overview
//
// This package contains the core data structures used across the registry,
// schema, graph, runner, store and engine packages. It exists to avoid
// circular dependencies: everyone depends on types, and types depends on no
// sibling package except pkg/config, which imports only the standard library.
//
// # Key Components
//
// Tool Contract: the immutable description a tool registers under (name,
// category, input/output JSON-Schema, declared dependencies, output
// mappings).
//
// Workflow Spec: the request payload — nodes, literal inputs, input
// mappings, and explicit edges.
//
// Execution Records: WorkflowExecution and NodeExecution, the persisted
// shapes written by the engine and read back by status queries and the
// recovery coordinator.
//
// # Usage Example
//
//	spec := types.WorkflowSpec{
//	    Nodes: []types.NodeSpec{
//	        {NodeID: "a", Tool: "make_id"},
//	        {NodeID: "b", Tool: "echo", InputMappings: map[string]string{"a.id": "ref"}},
//	    },
//	}
//
// # Thread Safety
//
// Types here are plain data. Concurrent access must be coordinated by the
// caller (the registry and store do this internally).
package types
