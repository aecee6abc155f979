package store

import (
	"context"

	"github.com/harshj20/taskflow/pkg/types"
)

// Store is the Persistence Store interface. Every mutating
// method is expected to be atomic with respect to a single record; SQLStore
// wraps each in one transaction that commits on success and rolls back on
// any returned error.
type Store interface {
	// CreateWorkflow persists a new WorkflowExecution, normally in
	// StatusPending or StatusRunning.
	CreateWorkflow(ctx context.Context, we *types.WorkflowExecution) error

	// UpdateWorkflowStatus transitions a workflow's status/progress and,
	// optionally, its error message.
	UpdateWorkflowStatus(ctx context.Context, id string, status types.Status, progress float64, errMsg string) error

	// CompleteWorkflow writes the final status, results, and completion
	// timestamp for a workflow in one step.
	CompleteWorkflow(ctx context.Context, id string, status types.Status, results map[string]interface{}, errMsg string) error

	// GetWorkflow returns the current WorkflowExecution record for id.
	GetWorkflow(ctx context.Context, id string) (*types.WorkflowExecution, error)

	// CreateNode persists a new NodeExecution, normally in StatusPending.
	CreateNode(ctx context.Context, ne *types.NodeExecution) error

	// UpdateNode overwrites a NodeExecution's mutable fields (status,
	// outputs, timestamps, error message).
	UpdateNode(ctx context.Context, ne *types.NodeExecution) error

	// ListNodes returns every NodeExecution belonging to workflowID, in
	// creation order.
	ListNodes(ctx context.Context, workflowID string) ([]types.NodeExecution, error)

	// ListInFlightWorkflows returns every WorkflowExecution left in
	// StatusPending or StatusRunning, for the Recovery Coordinator to
	// reconcile at startup.
	ListInFlightWorkflows(ctx context.Context) ([]types.WorkflowExecution, error)

	// ListInFlightNodes returns every NodeExecution left in StatusPending
	// or StatusRunning, for the Recovery Coordinator.
	ListInFlightNodes(ctx context.Context) ([]types.NodeExecution, error)

	// RecordErrorSignature upserts the ErrorSignature for a failed node
	// execution, keyed by its stable hash. Write-only from the scheduling
	// path's point of view: the Engine records signatures as nodes fail,
	// but never reads them back to make scheduling decisions.
	RecordErrorSignature(ctx context.Context, sig types.ErrorSignature) error

	// Close releases any held resources (DB connections).
	Close() error
}
