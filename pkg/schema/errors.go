package schema

import "errors"

var (
	// ErrMaxDepthExceeded is returned when dependency inlining recurses
	// past the configured depth limit (depth-limited to 10).
	ErrMaxDepthExceeded = errors.New("schema composition exceeded max dependency depth")

	// ErrSchemaCompile is returned when a tool's declared input or output
	// schema is not valid JSON-Schema.
	ErrSchemaCompile = errors.New("failed to compile schema")
)
