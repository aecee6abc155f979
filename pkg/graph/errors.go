package graph

import "errors"

// Sentinel errors for graph operations (the GraphError family).
var (
	ErrEmptyGraph     = errors.New("graph is empty")
	ErrDuplicateNode  = errors.New("duplicate node id")
	ErrUnknownNode    = errors.New("edge or input mapping references an unknown node id")
	ErrCycleDetected  = errors.New("cycle detected in graph")
	ErrSelfReference  = errors.New("node references itself")
	ErrUnknownTool    = errors.New("node references an unregistered tool")
)
