package breaker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sony/gobreaker"
)

// Settings configures every breaker the Registry creates.
type Settings struct {
	MaxFailures  uint32
	OpenTimeout  time.Duration
	FailureRatio float64
}

// Registry hands out one *gobreaker.CircuitBreaker per tool name, creating
// it lazily on first use.
type Registry struct {
	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
	settings Settings
}

// NewRegistry builds a breaker Registry with the given per-breaker settings.
func NewRegistry(settings Settings) *Registry {
	return &Registry{
		breakers: make(map[string]*gobreaker.CircuitBreaker),
		settings: settings,
	}
}

func (r *Registry) forTool(tool string) *gobreaker.CircuitBreaker {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b, ok := r.breakers[tool]; ok {
		return b
	}

	b := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        tool,
		MaxRequests: 1,
		Timeout:     r.settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.ConsecutiveFailures >= r.settings.MaxFailures {
				return true
			}
			total := counts.Requests
			if total < r.settings.MaxFailures {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(total)
			return failureRatio >= r.settings.FailureRatio
		},
	})
	r.breakers[tool] = b
	return b
}

// Execute runs fn through tool's breaker, returning gobreaker's open-circuit
// error when the breaker is open instead of invoking fn.
func (r *Registry) Execute(ctx context.Context, tool string, fn func(ctx context.Context) (map[string]interface{}, error)) (map[string]interface{}, error) {
	b := r.forTool(tool)
	out, err := b.Execute(func() (interface{}, error) {
		return fn(ctx)
	})
	if err != nil {
		if out == nil {
			return nil, fmt.Errorf("breaker(%s): %w", tool, err)
		}
		return nil, err
	}
	result, _ := out.(map[string]interface{})
	return result, nil
}

// State reports the current breaker state for a tool, for health checks
// and diagnostics.
func (r *Registry) State(tool string) gobreaker.State {
	return r.forTool(tool).State()
}
