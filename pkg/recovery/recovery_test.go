package recovery

import (
	"context"
	"testing"

	"github.com/harshj20/taskflow/pkg/store"
	"github.com/harshj20/taskflow/pkg/types"
)

func TestReconcile_ResetsInFlightWorkflowsAndNodes(t *testing.T) {
	st := store.NewInMemoryStore()
	ctx := context.Background()

	we := &types.WorkflowExecution{ID: "wf-1", Status: types.StatusRunning}
	if err := st.CreateWorkflow(ctx, we); err != nil {
		t.Fatalf("CreateWorkflow: %v", err)
	}

	ne := &types.NodeExecution{ID: "n-1", WorkflowID: "wf-1", NodeID: "a", Status: types.StatusRunning}
	if err := st.CreateNode(ctx, ne); err != nil {
		t.Fatalf("CreateNode: %v", err)
	}

	c := New(st, nil)
	report, err := c.Reconcile(ctx)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if len(report.RecoveredWorkflowIDs) != 1 || report.RecoveredWorkflowIDs[0] != "wf-1" {
		t.Fatalf("unexpected recovered workflows: %+v", report.RecoveredWorkflowIDs)
	}
	if len(report.RecoveredNodeIDs) != 1 || report.RecoveredNodeIDs[0] != "n-1" {
		t.Fatalf("unexpected recovered nodes: %+v", report.RecoveredNodeIDs)
	}

	stored, err := st.GetWorkflow(ctx, "wf-1")
	if err != nil {
		t.Fatalf("GetWorkflow: %v", err)
	}
	if stored.Status != types.StatusPending || stored.ErrorMessage != interruptedMessage {
		t.Fatalf("workflow not reconciled: %+v", stored)
	}

	nodes, err := st.ListNodes(ctx, "wf-1")
	if err != nil {
		t.Fatalf("ListNodes: %v", err)
	}
	if len(nodes) != 1 || nodes[0].Status != types.StatusPending || nodes[0].ErrorMessage != interruptedMessage {
		t.Fatalf("node not reconciled: %+v", nodes)
	}
}

func TestReconcile_NoOpWhenNothingInFlight(t *testing.T) {
	st := store.NewInMemoryStore()
	c := New(st, nil)

	report, err := c.Reconcile(context.Background())
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if len(report.RecoveredWorkflowIDs) != 0 || len(report.RecoveredNodeIDs) != 0 {
		t.Fatalf("expected empty report, got %+v", report)
	}
}
