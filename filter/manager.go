package filter

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/s0up4200/nowplaying/nowplaying"
)

// Manager keeps named filter presets and evaluates them or ad-hoc expressions
type Manager struct {
	compiler  Compiler
	evaluator *ConcurrentEvaluator
	filters   map[string]CompiledFilter
	mu        sync.RWMutex
}

// ManagerOption configures a filter manager
type ManagerOption func(*Manager)

// WithCompiler sets a custom compiler
func WithCompiler(compiler Compiler) ManagerOption {
	return func(m *Manager) {
		m.compiler = compiler
	}
}

// WithEvaluator sets a custom evaluator
func WithEvaluator(evaluator *ConcurrentEvaluator) ManagerOption {
	return func(m *Manager) {
		m.evaluator = evaluator
	}
}

// NewManager creates a new filter manager
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		filters: make(map[string]CompiledFilter),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.compiler == nil {
		m.compiler = NewExprCompiler(WithCache(100))
	}
	if m.evaluator == nil {
		m.evaluator = NewConcurrentEvaluator()
	}
	return m
}

// RegisterFilters compiles all presets and registers them only if every one compiles
func (m *Manager) RegisterFilters(presets map[string]string) error {
	compiled := make(map[string]CompiledFilter, len(presets))
	for name, expression := range presets {
		f, err := m.compiler.Compile(expression)
		if err != nil {
			return fmt.Errorf("failed to compile filter '%s': %w", name, err)
		}
		compiled[name] = f
	}

	m.mu.Lock()
	maps.Copy(m.filters, compiled)
	m.mu.Unlock()
	return nil
}

// GetFilter returns a registered preset
func (m *Manager) GetFilter(name string) (CompiledFilter, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.filters[name]
	return f, ok
}

// ListFilters returns the preset names in sorted order
func (m *Manager) ListFilters() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.filters))
}

// EvaluateFilter applies a registered preset to cards
func (m *Manager) EvaluateFilter(ctx context.Context, name string, cards []nowplaying.Card) ([]nowplaying.Card, error) {
	f, ok := m.GetFilter(name)
	if !ok {
		return nil, fmt.Errorf("filter '%s' not found", name)
	}
	return m.evaluator.Evaluate(ctx, f, cards)
}

// EvaluateExpression compiles expression and applies it to cards
func (m *Manager) EvaluateExpression(ctx context.Context, expression string, cards []nowplaying.Card) ([]nowplaying.Card, error) {
	f, err := m.compiler.Compile(expression)
	if err != nil {
		return nil, err
	}
	return m.evaluator.Evaluate(ctx, f, cards)
}

// Close shuts down the evaluator
func (m *Manager) Close(ctx context.Context) error {
	return m.evaluator.Stop(ctx)
}
