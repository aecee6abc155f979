package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/harshj20/taskflow/pkg/registry"
	"github.com/harshj20/taskflow/pkg/types"
)

// Graph is a validated DAG built from a workflow spec.
type Graph struct {
	nodeIDs   []string
	nodeByID  map[string]types.NodeSpec
	adjacency map[string][]string // source -> targets
	inDegree  map[string]int
}

// New builds a Graph from a WorkflowSpec, deriving edges from both the
// spec's explicit Edges and the input_mappings on each node. It validates
// duplicate node ids and dangling references but does not check for
// cycles; call Layers for that.
func New(spec types.WorkflowSpec) (*Graph, error) {
	numNodes := len(spec.Nodes)
	g := &Graph{
		nodeIDs:   make([]string, 0, numNodes),
		nodeByID:  make(map[string]types.NodeSpec, numNodes),
		adjacency: make(map[string][]string, numNodes),
		inDegree:  make(map[string]int, numNodes),
	}

	for _, n := range spec.Nodes {
		if _, exists := g.nodeByID[n.NodeID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateNode, n.NodeID)
		}
		g.nodeByID[n.NodeID] = n
		g.nodeIDs = append(g.nodeIDs, n.NodeID)
		g.inDegree[n.NodeID] = 0
	}

	addEdge := func(from, to string) error {
		if _, ok := g.nodeByID[from]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownNode, from)
		}
		if _, ok := g.nodeByID[to]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownNode, to)
		}
		if from == to {
			return fmt.Errorf("%w: %s", ErrSelfReference, from)
		}
		g.adjacency[from] = append(g.adjacency[from], to)
		g.inDegree[to]++
		return nil
	}

	for _, e := range spec.Edges {
		if err := addEdge(e.From, e.To); err != nil {
			return nil, err
		}
	}

	for _, n := range spec.Nodes {
		for mapping := range n.InputMappings {
			source, _, ok := strings.Cut(mapping, ".")
			if !ok {
				continue
			}
			if err := addEdge(source, n.NodeID); err != nil {
				return nil, err
			}
		}
	}

	return g, nil
}

// Layers computes the batched topological order via Kahn's algorithm: each
// returned batch is a set of node ids with no dependency on one another, in
// dependency order across batches. Within a batch, node ids are sorted for
// deterministic output. Returns ErrCycleDetected if the graph is not a DAG.
func (g *Graph) Layers() ([][]string, error) {
	if len(g.nodeIDs) == 0 {
		return [][]string{}, nil
	}

	remaining := make(map[string]int, len(g.inDegree))
	for id, d := range g.inDegree {
		remaining[id] = d
	}

	var batches [][]string
	processed := 0

	for {
		var batch []string
		for _, id := range g.nodeIDs {
			if remaining[id] == 0 {
				batch = append(batch, id)
			}
		}
		if len(batch) == 0 {
			break
		}
		sort.Strings(batch)

		// Mark consumed so they aren't picked up again, then propagate.
		for _, id := range batch {
			remaining[id] = -1
		}
		for _, id := range batch {
			for _, next := range g.adjacency[id] {
				if remaining[next] > 0 {
					remaining[next]--
				}
			}
		}

		batches = append(batches, batch)
		processed += len(batch)
	}

	if processed != len(g.nodeIDs) {
		return nil, ErrCycleDetected
	}

	return batches, nil
}

// Node returns the NodeSpec for a given node id, or false if absent.
func (g *Graph) Node(nodeID string) (types.NodeSpec, bool) {
	n, ok := g.nodeByID[nodeID]
	return n, ok
}

// Predecessors returns the node ids that have an edge into nodeID.
func (g *Graph) Predecessors(nodeID string) []string {
	var preds []string
	for src, targets := range g.adjacency {
		for _, t := range targets {
			if t == nodeID {
				preds = append(preds, src)
			}
		}
	}
	sort.Strings(preds)
	return preds
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int {
	return len(g.nodeIDs)
}

// ValidateTools checks that every node's tool is registered, returning
// ErrUnknownTool on the first one that isn't. Separate from New so callers
// that build a Graph without a registry (tests, tooling) aren't forced to
// supply one.
func (g *Graph) ValidateTools(reg *registry.Registry) error {
	for _, id := range g.nodeIDs {
		n := g.nodeByID[id]
		if _, err := reg.Lookup(n.Tool); err != nil {
			return fmt.Errorf("%w: %v", ErrUnknownTool, types.ErrUnknownTool(n.Tool))
		}
	}
	return nil
}
