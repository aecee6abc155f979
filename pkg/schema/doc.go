// Package schema implements the Schema Composer: it builds the
// effective JSON-Schema a caller must satisfy to invoke a tool standalone,
// or a chain of tools as a pipeline, and it validates concrete instances
// against a tool's input/output schema at node boundaries, via
// github.com/xeipuuv/gojsonschema.
//
// Composition elides "intermediate-only" input fields: if an upstream
// tool's OutputMappings says it produces a field that satisfies a
// downstream tool's input field, that field is dropped from the composed
// schema's required/properties set, because the caller never supplies it
// directly — the engine fills it in from the upstream node's output.
// Declared dependencies are walked recursively, depth-limited to 10 to
// bound composition cost on pathological dependency graphs; only their
// output mappings are used, so their own input fields are not added, and
// unregistered or already-visited dependencies are skipped without error.
package schema
