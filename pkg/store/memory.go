package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/harshj20/taskflow/pkg/types"
)

// InMemoryStore is a sync.RWMutex-guarded, process-local Store
// implementation.
// Every getter returns a defensive copy so callers can't mutate state out
// from under the store.
type InMemoryStore struct {
	mu         sync.RWMutex
	workflows  map[string]*types.WorkflowExecution
	nodes      map[string][]*types.NodeExecution // workflowID -> nodes, creation order
	signatures map[string]*types.ErrorSignature  // hash -> signature
}

// NewInMemoryStore builds an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		workflows:  make(map[string]*types.WorkflowExecution),
		nodes:      make(map[string][]*types.NodeExecution),
		signatures: make(map[string]*types.ErrorSignature),
	}
}

func (s *InMemoryStore) CreateWorkflow(_ context.Context, we *types.WorkflowExecution) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.workflows[we.ID]; exists {
		return fmt.Errorf("%w: workflow %s", ErrAlreadyExists, we.ID)
	}
	cp := *we
	s.workflows[we.ID] = &cp
	return nil
}

func (s *InMemoryStore) UpdateWorkflowStatus(_ context.Context, id string, status types.Status, progress float64, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	we, ok := s.workflows[id]
	if !ok {
		return fmt.Errorf("%w: workflow %s", ErrNotFound, id)
	}
	we.Status = status
	we.Progress = progress
	we.ErrorMessage = errMsg
	if status == types.StatusRunning && we.StartedAt == nil {
		now := time.Now()
		we.StartedAt = &now
	}
	return nil
}

func (s *InMemoryStore) CompleteWorkflow(_ context.Context, id string, status types.Status, results map[string]interface{}, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	we, ok := s.workflows[id]
	if !ok {
		return fmt.Errorf("%w: workflow %s", ErrNotFound, id)
	}
	now := time.Now()
	we.Status = status
	we.Results = results
	we.ErrorMessage = errMsg
	we.CompletedAt = &now
	we.Progress = 1.0
	return nil
}

func (s *InMemoryStore) GetWorkflow(_ context.Context, id string) (*types.WorkflowExecution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	we, ok := s.workflows[id]
	if !ok {
		return nil, fmt.Errorf("%w: workflow %s", ErrNotFound, id)
	}
	cp := *we
	return &cp, nil
}

func (s *InMemoryStore) CreateNode(_ context.Context, ne *types.NodeExecution) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *ne
	s.nodes[ne.WorkflowID] = append(s.nodes[ne.WorkflowID], &cp)
	return nil
}

func (s *InMemoryStore) UpdateNode(_ context.Context, ne *types.NodeExecution) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.nodes[ne.WorkflowID] {
		if existing.ID == ne.ID {
			cp := *ne
			*existing = cp
			return nil
		}
	}
	return fmt.Errorf("%w: node %s", ErrNotFound, ne.ID)
}

func (s *InMemoryStore) ListNodes(_ context.Context, workflowID string) ([]types.NodeExecution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	src := s.nodes[workflowID]
	out := make([]types.NodeExecution, 0, len(src))
	for _, n := range src {
		out = append(out, *n)
	}
	return out, nil
}

func (s *InMemoryStore) ListInFlightWorkflows(_ context.Context) ([]types.WorkflowExecution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []types.WorkflowExecution
	for _, we := range s.workflows {
		if we.Status == types.StatusPending || we.Status == types.StatusRunning {
			out = append(out, *we)
		}
	}
	return out, nil
}

func (s *InMemoryStore) ListInFlightNodes(_ context.Context) ([]types.NodeExecution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []types.NodeExecution
	for _, nodes := range s.nodes {
		for _, n := range nodes {
			if n.Status == types.StatusPending || n.Status == types.StatusRunning {
				out = append(out, *n)
			}
		}
	}
	return out, nil
}

func (s *InMemoryStore) RecordErrorSignature(_ context.Context, sig types.ErrorSignature) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := sig
	s.signatures[sig.Hash] = &cp
	return nil
}

func (s *InMemoryStore) Close() error { return nil }
