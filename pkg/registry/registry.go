package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/harshj20/taskflow/pkg/types"
)

// Tool is the interface every registered tool must implement. Execute
// receives only resolved inputs (literals plus anything sourced from
// upstream node outputs) and returns the tool's output fields; it must
// respect ctx cancellation and must not retain ctx beyond the call.
type Tool interface {
	Contract() types.ToolContract
	Execute(ctx context.Context, inputs map[string]interface{}) (map[string]interface{}, error)
}

// Registry is a thread-safe, explicitly-constructed directory of tools
// keyed by name.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// New creates an empty Registry. There is no global instance; callers wire
// one up at process startup and pass it down explicitly.
func New() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register binds a tool under its contract's Name. Returns ErrAlreadyRegistered
// if that name is already bound, or ErrEmptyName if the contract has no name.
func (r *Registry) Register(t Tool) error {
	name := t.Contract().Name
	if name == "" {
		return ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, name)
	}
	r.tools[name] = t
	return nil
}

// MustRegister is Register but panics on error. Intended for use only at
// wiring time, where a duplicate or malformed tool contract is a
// programmer error, not a runtime condition to recover from.
func (r *Registry) MustRegister(t Tool) {
	if err := r.Register(t); err != nil {
		panic(fmt.Sprintf("registry: MustRegister: %v", err))
	}
}

// Lookup returns the tool bound to name, or ErrNotFound.
func (r *Registry) Lookup(name string) (Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return t, nil
}

// Contract is a convenience wrapper returning just the named tool's contract.
func (r *Registry) Contract(name string) (types.ToolContract, error) {
	t, err := r.Lookup(name)
	if err != nil {
		return types.ToolContract{}, err
	}
	return t.Contract(), nil
}

// List returns the names of every registered tool, sorted for deterministic
// catalogue output.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Catalogue returns every registered tool's contract projected to its wire
// shape, optionally filtered by category (empty category means all).
func (r *Registry) Catalogue(category types.ToolCategory) []types.ToolCatalogueEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]types.ToolCatalogueEntry, 0, len(r.tools))
	for _, t := range r.tools {
		c := t.Contract()
		if category != "" && c.Category != category {
			continue
		}
		entries = append(entries, types.CatalogueEntry(c))
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}
