package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/harshj20/taskflow/pkg/observer"
)

// TelemetryObserver implements observer.Observer and records telemetry data
// for workflow execution events. One instance is expected per in-flight
// workflow run; the engine attaches a fresh TelemetryObserver when it starts
// a workflow and discards it once EventComplete arrives.
type TelemetryObserver struct {
	provider *Provider

	mu sync.Mutex

	workflowSpan      trace.Span
	workflowStartTime time.Time
	totalNodes        int

	nodeSpans      map[string]trace.Span
	nodeStartTimes map[string]time.Time
}

// NewTelemetryObserver creates a new telemetry observer.
func NewTelemetryObserver(provider *Provider) *TelemetryObserver {
	return &TelemetryObserver{
		provider:       provider,
		nodeSpans:      make(map[string]trace.Span),
		nodeStartTimes: make(map[string]time.Time),
	}
}

// OnEvent handles execution events and records telemetry data.
func (o *TelemetryObserver) OnEvent(ctx context.Context, event observer.Event) {
	switch event.Type {
	case observer.EventStart:
		o.handleStart(ctx, event)
	case observer.EventNodeStarted:
		o.handleNodeStarted(ctx, event)
	case observer.EventNodeCompleted:
		o.handleNodeEnd(ctx, event, true)
	case observer.EventNodeFailed:
		o.handleNodeEnd(ctx, event, false)
	case observer.EventWorkflowCompleted:
		o.handleWorkflowEnd(ctx, event, true)
	case observer.EventWorkflowFailed:
		o.handleWorkflowEnd(ctx, event, false)
	}
}

func (o *TelemetryObserver) handleStart(ctx context.Context, event observer.Event) {
	_, span := o.provider.Tracer().Start(ctx, "workflow.execute",
		trace.WithAttributes(
			attribute.String("workflow.id", event.WorkflowID),
			attribute.Int("workflow.total_nodes", event.TotalNodes),
		),
	)

	o.mu.Lock()
	o.workflowSpan = span
	o.workflowStartTime = event.Timestamp
	o.totalNodes = event.TotalNodes
	o.mu.Unlock()
}

func (o *TelemetryObserver) handleWorkflowEnd(ctx context.Context, event observer.Event, success bool) {
	o.mu.Lock()
	duration := time.Since(o.workflowStartTime)
	span := o.workflowSpan
	nodesExecuted := o.totalNodes
	o.mu.Unlock()

	o.provider.RecordWorkflowExecution(ctx, event.WorkflowID, duration, success, nodesExecuted)

	if span == nil {
		return
	}
	if !success && event.Error != "" {
		span.SetStatus(codes.Error, event.Error)
	} else {
		span.SetStatus(codes.Ok, "workflow completed successfully")
	}
	span.End()
}

func (o *TelemetryObserver) handleNodeStarted(ctx context.Context, event observer.Event) {
	o.mu.Lock()
	parent := o.workflowSpan
	o.mu.Unlock()

	spanCtx := ctx
	if parent != nil {
		spanCtx = trace.ContextWithSpan(ctx, parent)
	}

	_, span := o.provider.Tracer().Start(spanCtx, "node.execute",
		trace.WithAttributes(
			attribute.String("node.id", event.NodeID),
			attribute.String("tool", event.Tool),
			attribute.String("workflow.id", event.WorkflowID),
		),
	)

	o.mu.Lock()
	o.nodeSpans[event.NodeID] = span
	o.nodeStartTimes[event.NodeID] = event.Timestamp
	o.mu.Unlock()
}

func (o *TelemetryObserver) handleNodeEnd(ctx context.Context, event observer.Event, success bool) {
	o.mu.Lock()
	startTime, started := o.nodeStartTimes[event.NodeID]
	span := o.nodeSpans[event.NodeID]
	delete(o.nodeStartTimes, event.NodeID)
	delete(o.nodeSpans, event.NodeID)
	o.mu.Unlock()

	duration := event.ElapsedTime
	if duration == 0 && started {
		duration = time.Since(startTime)
	}

	o.provider.RecordNodeExecution(ctx, event.NodeID, event.Tool, duration, success)

	if span == nil {
		return
	}
	if !success && event.Error != "" {
		span.SetStatus(codes.Error, event.Error)
	} else {
		span.SetStatus(codes.Ok, "node completed successfully")
	}
	span.End()
}
