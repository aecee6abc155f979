package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/harshj20/taskflow/pkg/graph"
	"github.com/harshj20/taskflow/pkg/logging"
	"github.com/harshj20/taskflow/pkg/observer"
	"github.com/harshj20/taskflow/pkg/runner"
	"github.com/harshj20/taskflow/pkg/store"
	"github.com/harshj20/taskflow/pkg/types"
)

// Engine coordinates one workflow run at a time: build the graph, persist
// state, dispatch each layer through the Node Runner, and stream events.
type Engine struct {
	runner *runner.Runner
	store  store.Store

	observerMgr      *observer.Manager
	structuredLogger *logging.Logger

	maxExecutionTime time.Duration
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithObserver registers an Observer to receive streamed execution events.
func WithObserver(obs observer.Observer) Option {
	return func(e *Engine) { e.observerMgr.Register(obs) }
}

// WithMaxExecutionTime bounds the wall-clock time a single workflow run may
// take before it is cancelled. Zero means unbounded.
func WithMaxExecutionTime(d time.Duration) Option {
	return func(e *Engine) { e.maxExecutionTime = d }
}

// WithLogger overrides the engine's structured logger.
func WithLogger(logger *logging.Logger) Option {
	return func(e *Engine) { e.structuredLogger = logger }
}

// New builds an Engine over the given Node Runner and persistence Store.
func New(r *runner.Runner, st store.Store, opts ...Option) *Engine {
	e := &Engine{
		runner:           r,
		store:            st,
		observerMgr:      observer.NewManager(),
		structuredLogger: logging.New(logging.DefaultConfig()),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs spec to completion (or first failure), persisting and
// streaming events along the way. A non-nil returned WorkflowExecution
// reflects a terminal status (COMPLETED or FAILED). It is nil when the spec
// is rejected before the run starts (graph, tool or cycle errors, which emit
// only workflow_failed and complete) or when the initial record cannot be
// persisted; the error says which.
func (e *Engine) Execute(ctx context.Context, spec types.WorkflowSpec) (*types.WorkflowExecution, error) {
	workflowID := uuid.NewString()
	logger := e.structuredLogger.WithWorkflowID(workflowID)

	g, err := graph.New(spec)
	if err == nil {
		err = g.ValidateTools(e.runner.Tools())
	}
	var layers [][]string
	if err == nil {
		layers, err = g.Layers()
	}
	if err != nil {
		wrapped := fmt.Errorf("%w: %v", ErrGraph, err)
		now := time.Now()
		logger.WithError(wrapped).Error("workflow graph rejected")
		e.emit(ctx, observer.Event{
			Type:       observer.EventWorkflowFailed,
			Timestamp:  now,
			WorkflowID: workflowID,
			Error:      wrapped.Error(),
		})
		e.emit(ctx, observer.Event{Type: observer.EventComplete, Timestamp: now, WorkflowID: workflowID})
		return nil, wrapped
	}

	if e.maxExecutionTime > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.maxExecutionTime)
		defer cancel()
	}
	ctx = context.WithValue(ctx, types.ContextKeyWorkflowID, workflowID)

	now := time.Now()
	we := &types.WorkflowExecution{
		ID:        workflowID,
		Spec:      spec,
		Status:    types.StatusRunning,
		CreatedAt: now,
		StartedAt: &now,
	}
	if e.store != nil {
		if err := e.store.CreateWorkflow(ctx, we); err != nil {
			return nil, fmt.Errorf("persist workflow: %w", err)
		}
	}

	logger.Info("workflow execution started")
	e.emit(ctx, observer.Event{
		Type:       observer.EventStart,
		Timestamp:  now,
		WorkflowID: workflowID,
		TotalNodes: g.NodeCount(),
	})

	results := make(map[string]map[string]interface{})
	var resultsMu sync.Mutex
	totalNodes := g.NodeCount()

	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()

	var firstErr error
	var firstErrMu sync.Mutex

	for _, batch := range layers {
		if runCtx.Err() != nil {
			break
		}

		var wg sync.WaitGroup
		for _, nodeID := range batch {
			node, _ := g.Node(nodeID)
			wg.Add(1)
			go func(node types.NodeSpec) {
				defer wg.Done()
				e.runNode(runCtx, workflowID, node, results, &resultsMu, totalNodes, logger, &firstErr, &firstErrMu, cancelRun)
			}(node)
		}
		wg.Wait()

		firstErrMu.Lock()
		failed := firstErr
		firstErrMu.Unlock()
		if failed != nil {
			break
		}
	}

	completed := time.Now()
	we.CompletedAt = &completed

	if firstErr != nil {
		we.Status = types.StatusFailed
		we.ErrorMessage = firstErr.Error()
		if e.store != nil {
			_ = e.store.CompleteWorkflow(ctx, workflowID, we.Status, nil, we.ErrorMessage)
		}
		logger.WithError(firstErr).Error("workflow execution failed")
		e.emit(ctx, observer.Event{
			Type:       observer.EventWorkflowFailed,
			Timestamp:  completed,
			WorkflowID: workflowID,
			Error:      firstErr.Error(),
		})
		e.emit(ctx, observer.Event{Type: observer.EventComplete, Timestamp: completed, WorkflowID: workflowID})
		return we, fmt.Errorf("%w: %v", ErrNodeFailed, firstErr)
	}

	finalResults := flattenResults(results)
	we.Status = types.StatusCompleted
	we.Progress = 1.0
	we.Results = finalResults
	if e.store != nil {
		if err := e.store.CompleteWorkflow(ctx, workflowID, we.Status, finalResults, ""); err != nil {
			logger.WithError(err).Warn("failed to persist workflow completion")
		}
	}

	logger.WithField("duration_ms", completed.Sub(now).Milliseconds()).Info("workflow execution completed")
	e.emit(ctx, observer.Event{
		Type:       observer.EventWorkflowCompleted,
		Timestamp:  completed,
		WorkflowID: workflowID,
		Results:    finalResults,
	})
	e.emit(ctx, observer.Event{Type: observer.EventComplete, Timestamp: completed, WorkflowID: workflowID})

	return we, nil
}

func (e *Engine) runNode(
	ctx context.Context,
	workflowID string,
	node types.NodeSpec,
	results map[string]map[string]interface{},
	resultsMu *sync.Mutex,
	totalNodes int,
	logger *logging.Logger,
	firstErr *error,
	firstErrMu *sync.Mutex,
	cancel context.CancelFunc,
) {
	nodeLogger := logger.WithNodeID(node.NodeID).WithToolName(node.Tool)
	started := time.Now()

	e.emit(ctx, observer.Event{
		Type:       observer.EventNodeStarted,
		Timestamp:  started,
		WorkflowID: workflowID,
		NodeID:     node.NodeID,
		Tool:       node.Tool,
		StartTime:  started,
	})

	resultsMu.Lock()
	upstream := make(map[string]map[string]interface{}, len(results))
	for k, v := range results {
		upstream[k] = v
	}
	resultsMu.Unlock()

	outputs, err := e.runner.Run(ctx, workflowID, node, upstream)
	elapsed := time.Since(started)

	if err != nil {
		nodeLogger.WithError(err).Error("node execution failed")
		e.emit(ctx, observer.Event{
			Type:        observer.EventNodeFailed,
			Timestamp:   time.Now(),
			WorkflowID:  workflowID,
			NodeID:      node.NodeID,
			Tool:        node.Tool,
			StartTime:   started,
			ElapsedTime: elapsed,
			Error:       err.Error(),
		})

		if e.store != nil {
			sig := types.NewErrorSignature(node.Tool, fmt.Sprintf("%T", err), err.Error())
			if sigErr := e.store.RecordErrorSignature(ctx, sig); sigErr != nil {
				nodeLogger.WithError(sigErr).Warn("failed to record error signature")
			}
		}

		firstErrMu.Lock()
		if *firstErr == nil {
			*firstErr = fmt.Errorf("node %q: %w", node.NodeID, err)
		}
		firstErrMu.Unlock()
		cancel()
		return
	}

	resultsMu.Lock()
	results[node.NodeID] = outputs
	completedCount := len(results)
	resultsMu.Unlock()

	progress := 1.0
	if totalNodes > 0 {
		progress = float64(completedCount) / float64(totalNodes)
	}

	nodeLogger.WithField("duration_ms", elapsed.Milliseconds()).Info("node execution completed")
	e.emit(ctx, observer.Event{
		Type:        observer.EventNodeCompleted,
		Timestamp:   time.Now(),
		WorkflowID:  workflowID,
		NodeID:      node.NodeID,
		Tool:        node.Tool,
		StartTime:   started,
		ElapsedTime: elapsed,
		Outputs:     outputs,
		Progress:    progress,
	})
}

func (e *Engine) emit(ctx context.Context, event observer.Event) {
	if e.observerMgr.HasObservers() {
		e.observerMgr.Notify(ctx, event)
	}
}

func flattenResults(results map[string]map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(results))
	for nodeID, outputs := range results {
		out[nodeID] = outputs
	}
	return out
}
