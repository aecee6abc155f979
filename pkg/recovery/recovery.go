package recovery

import (
	"context"
	"fmt"

	"github.com/harshj20/taskflow/pkg/logging"
	"github.com/harshj20/taskflow/pkg/store"
	"github.com/harshj20/taskflow/pkg/types"
)

const interruptedMessage = "interrupted by restart"

// Report summarizes what Coordinator.Reconcile found and reset.
type Report struct {
	RecoveredWorkflowIDs []string
	RecoveredNodeIDs     []string
}

// Coordinator reconciles in-flight state left behind by a process restart.
type Coordinator struct {
	store  store.Store
	logger *logging.Logger
}

// New builds a Coordinator over the given Store.
func New(st store.Store, logger *logging.Logger) *Coordinator {
	if logger == nil {
		logger = logging.New(logging.DefaultConfig())
	}
	return &Coordinator{store: st, logger: logger}
}

// Reconcile marks every PENDING/RUNNING WorkflowExecution and NodeExecution
// row back to PENDING with an interrupted-by-restart error message. It must
// run to completion before the engine is allowed to dispatch new work.
func (c *Coordinator) Reconcile(ctx context.Context) (Report, error) {
	var report Report

	workflows, err := c.store.ListInFlightWorkflows(ctx)
	if err != nil {
		return report, fmt.Errorf("list in-flight workflows: %w", err)
	}
	for _, we := range workflows {
		if err := c.store.UpdateWorkflowStatus(ctx, we.ID, types.StatusPending, we.Progress, interruptedMessage); err != nil {
			return report, fmt.Errorf("reset workflow %s: %w", we.ID, err)
		}
		report.RecoveredWorkflowIDs = append(report.RecoveredWorkflowIDs, we.ID)
	}

	nodes, err := c.store.ListInFlightNodes(ctx)
	if err != nil {
		return report, fmt.Errorf("list in-flight nodes: %w", err)
	}
	for _, ne := range nodes {
		ne.Status = types.StatusPending
		ne.ErrorMessage = interruptedMessage
		if err := c.store.UpdateNode(ctx, &ne); err != nil {
			return report, fmt.Errorf("reset node %s: %w", ne.ID, err)
		}
		report.RecoveredNodeIDs = append(report.RecoveredNodeIDs, ne.ID)
	}

	if len(report.RecoveredWorkflowIDs) > 0 || len(report.RecoveredNodeIDs) > 0 {
		c.logger.
			WithField("recovered_workflows", len(report.RecoveredWorkflowIDs)).
			WithField("recovered_nodes", len(report.RecoveredNodeIDs)).
			Warn("reconciled in-flight state from prior restart")
	}

	return report, nil
}
