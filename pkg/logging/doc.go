// Package logging provides structured logging capabilities for the workflow engine.
//
// # Overview
//
// The logging package wraps log/slog with a small structured logger that
// carries workflow, execution, node and tool fields.
//
// # Features
//
//   - Structured logging: JSON (default) or text output (Pretty)
//   - Log levels: DEBUG, INFO, WARN, ERROR; a minimum level is set in Config
//   - Contextual fields: WithWorkflowID, WithExecutionID, WithNodeID, WithToolName
//   - Context propagation: WithContext and FromContext store and fetch a logger
//   - Thread-safe: Safe for concurrent use
//   - Flexible output: Write to any io.Writer
//
// # Log Levels
//
// The package supports standard log levels:
//
//   - DEBUG: Detailed diagnostic information
//   - INFO: General informational messages
//   - WARN: Warning messages for potential issues
//   - ERROR: Error messages for failures
//
// # Basic Usage
//
//	import "github.com/harshj20/taskflow/pkg/logging"
//
//	// Create logger
//	logger := logging.New(logging.Config{
//	    Level:  "info",
//	    Output: os.Stdout,
//	})
//
//	// Log messages; fields are attached with the With* methods
//	logger.WithWorkflowID("wf-123").WithField("node_count", 42).Info("Workflow started")
//
//	logger.WithNodeID("node-5").WithError(err).Error("Execution failed")
//
//	// Printf-style forms
//	logger.Infof("processed %d nodes", count)
//
// # Context Integration
//
// WithContext stores the logger in a context and FromContext retrieves it;
// FromContext returns New(DefaultConfig()) when the context holds no logger:
//
//	ctx = logger.WithWorkflowID(id).WithContext(ctx)
//	logging.FromContext(ctx).Info("Node executing")
//
// Fields are not read from other context values.
//
// # Structured Fields
//
// WithFields attaches several fields at once:
//
//	logger.WithFields(map[string]interface{}{
//	    "method":      "GET",
//	    "url":         "https://api.example.com",
//	    "status":      200,
//	    "duration_ms": 145,
//	}).Info("HTTP request completed")
//
// # Output Formats
//
// JSON format (default, Pretty false), one object per line:
//
//	{"time":"2024-01-15T10:30:00.000Z","level":"INFO","msg":"Workflow started","workflow_id":"wf-123"}
//
// Text format (Pretty true):
//
//	time=2024-01-15T10:30:00.000Z level=INFO msg="Workflow started" workflow_id=wf-123
//
// # Configuration
//
// Logger configuration options:
//
//	config := logging.Config{
//	    Level:         "debug",   // "debug", "info", "warn"/"warning", "error"; anything else means info
//	    Output:        os.Stdout, // Where to write logs
//	    Pretty:        true,      // Text output instead of JSON
//	    IncludeCaller: true,      // Include the source file:line
//	}
//
// The package provides no workflow event observer; it logs only what callers
// pass to it.
//
// # Best Practices
//
//   - Use structured fields instead of string formatting
//   - Include execution context (workflow_id, node_id, etc.)
//   - Log at appropriate levels (avoid debug in production)
//   - Add timing information for performance analysis
//   - Include error context (not just error message)
//   - Use consistent field names across the codebase
//
// # Thread Safety
//
// All logger operations are thread-safe and can be used concurrently
// from multiple goroutines without additional synchronization.
//
// # Testing
//
// For testing, use a logger with a buffer:
//
//	buf := &bytes.Buffer{}
//	logger := logging.New(logging.Config{
//	    Level:  "debug",
//	    Output: buf,
//	})
//
//	// Execute code
//	// Verify log output
//	assert.Contains(t, buf.String(), "expected message")
package logging
