// Package observer provides an event-driven observer pattern for workflow execution.
//
// # Overview
//
// The observer package implements the observer pattern to enable monitoring,
// logging, and reacting to workflow execution events. Observers can track
// workflow lifecycle, node execution, state changes, and errors without
// coupling to the engine implementation.
//
// # Features
//
//   - Event-driven: React to workflow and node events
//   - Multiple observers: Register multiple observers simultaneously
//   - Lifecycle events: Observe every stage of execution
//   - Error events: Track node and workflow failures
//   - Timing: Events carry start and elapsed times
//
// # Observer Interface
//
//	type Observer interface {
//	    OnEvent(ctx context.Context, event Event)
//	}
//
// Every notification is an Event whose Type is one of:
//
//   - EventStart ("start"): workflow execution begins
//   - EventNodeStarted ("node_started"): a node is about to run
//   - EventNodeCompleted ("node_completed"): a node succeeded; Outputs is set
//   - EventNodeFailed ("node_failed"): a node failed; Error is set
//   - EventWorkflowCompleted ("workflow_completed"): all nodes succeeded; Results is set
//   - EventWorkflowFailed ("workflow_failed"): the workflow failed; Error is set
//   - EventComplete ("complete"): the final event of every run
//
// # Basic Usage
//
//	import "github.com/harshj20/taskflow/pkg/observer"
//
//	// Create observer
//	obs := observer.NewConsoleObserver()
//
//	// Register with engine
//	e := engine.New(reg, st, engine.WithObserver(obs))
//
//	// Execute workflow - observer receives events
//	result, err := e.Execute(ctx, spec)
//
// # Custom Observer Example
//
//	type CountingObserver struct {
//	    mu     sync.Mutex
//	    failed int
//	}
//
//	func (o *CountingObserver) OnEvent(ctx context.Context, event observer.Event) {
//	    if event.Type == observer.EventNodeFailed {
//	        o.mu.Lock()
//	        o.failed++
//	        o.mu.Unlock()
//	    }
//	}
//
// # Built-in Observers
//
// NoOpObserver:
//   - Ignores every event
//
// ConsoleObserver:
//   - Logs each event through an observer.Logger
//   - NewConsoleObserver uses DefaultLogger; NewConsoleObserverWithLogger takes any Logger
//
// Manager:
//   - Holds several observers and forwards each event to all of them
//
// Other packages implement Observer as well: telemetry.TelemetryObserver
// records spans and metrics, and eventbus.Publisher publishes events to Redis.
//
// # Observer Composition
//
// Multiple observers can be registered with a Manager:
//
//	m := observer.NewManager()
//	m.Register(consoleObserver)
//	m.Register(countingObserver)
//
// Manager.Notify calls every observer synchronously, in registration order.
//
// # Event Timing
//
// Events are emitted at specific points in execution:
//
//	Workflow Lifecycle:
//	  start
//	    → Node Execution (for each node)
//	       node_started
//	         → Execute Node
//	       node_completed or node_failed
//	  workflow_completed or workflow_failed
//	complete
//
// # Context Propagation
//
// Events receive the execution context, which carries the workflow id and
// the run's cancellation signal:
//
//	workflowID := types.GetWorkflowID(ctx)
//
// # Performance Considerations
//
//   - Observers run on the emitting goroutine and should not block
//   - Hand expensive work to another goroutine
//
// # Error Handling
//
// Observer panics do not stop execution:
//
//   - Manager.Notify recovers a panicking observer and discards the panic
//   - Nothing is logged about the panic
//   - Execution continues normally
//   - Other observers still receive events
//
// # Use Cases
//
//   - Logging and auditing
//   - Metrics collection and monitoring
//   - Real-time dashboards
//   - Debugging and troubleshooting
//   - Performance profiling
//   - Event streaming to external systems
//   - Workflow analytics
//   - Alerting and notifications
//
// # Testing
//
// For testing, use a recording observer:
//
//	type RecordingObserver struct {
//	    mu     sync.Mutex
//	    events []observer.Event
//	}
//
//	func (o *RecordingObserver) OnEvent(ctx context.Context, event observer.Event) {
//	    o.mu.Lock()
//	    o.events = append(o.events, event)
//	    o.mu.Unlock()
//	}
//
// # Best Practices
//
//   - Keep observer logic simple and fast
//   - Move expensive operations off the emitting goroutine
//   - Don't modify workflow or node state
//   - Handle errors gracefully (don't panic)
//   - Use structured logging for consistency
//   - Consider observer overhead in production
//
// # Thread Safety
//
// OnEvent may be called concurrently from multiple goroutines: node events
// of one batch come from that batch's node goroutines.
// Implementations must be thread-safe using appropriate synchronization.
package observer
