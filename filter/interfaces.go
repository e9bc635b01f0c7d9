package filter

import (
	"context"

	"github.com/s0up4200/nowplaying/nowplaying"
)

// Filter decides whether a card is kept
type Filter interface {
	// Evaluate reports whether card matches. A runtime failure of the
	// expression is returned as *EvaluationError.
	Evaluate(card nowplaying.Card) (bool, error)
}

// CompiledFilter is a filter built from an expression
type CompiledFilter interface {
	Filter

	// Expression returns the source the filter was compiled from
	Expression() string
}

// Compiler compiles filter expressions
type Compiler interface {
	Compile(expression string) (CompiledFilter, error)
}

// CachingCompiler remembers compiled filters by expression
type CachingCompiler interface {
	Compiler

	// Clear removes all cached filters
	Clear()

	// Size returns the number of cached filters
	Size() int
}

// Evaluator applies a filter to a list of cards, keeping their order
type Evaluator interface {
	Evaluate(ctx context.Context, filter Filter, cards []nowplaying.Card) ([]nowplaying.Card, error)
}

// WorkerPool runs submitted work with bounded concurrency
type WorkerPool interface {
	// Submit blocks until a worker slot frees up, ctx is done or the pool stops
	Submit(ctx context.Context, work func()) error

	// Stop waits for queued work to finish
	Stop(ctx context.Context) error
}
