// Package registry implements the Tool Registry: an explicitly
// constructed, thread-safe directory of Tool implementations keyed by name.
//
// There is deliberately no package-level singleton — callers build a
// *Registry with New and register tools onto it at process wiring time
// (see tools.RegisterDefaults): explicit construction, sync.RWMutex,
// Register/MustRegister/lookup-by-key, keyed by tool name instead of node
// type.
package registry
