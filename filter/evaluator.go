package filter

import (
	"context"
	"runtime"
	"sync"

	"github.com/s0up4200/nowplaying/nowplaying"
)

// EvaluatorOption configures an evaluator
type EvaluatorOption func(*ConcurrentEvaluator)

// WithWorkers sets the number of worker goroutines
func WithWorkers(workers int) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		e.workerCount = workers
	}
}

// WithBatchSize sets the minimum chunk size handed to a worker
func WithBatchSize(size int) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		if size > 0 {
			e.batchSize = size
		}
	}
}

// ConcurrentEvaluator filters cards on a worker pool. Lists shorter than
// the batch size are filtered on the calling goroutine.
type ConcurrentEvaluator struct {
	workerCount int
	batchSize   int
	pool        WorkerPool
}

var _ Evaluator = (*ConcurrentEvaluator)(nil)

// NewConcurrentEvaluator creates a new concurrent evaluator
func NewConcurrentEvaluator(opts ...EvaluatorOption) *ConcurrentEvaluator {
	e := &ConcurrentEvaluator{
		workerCount: runtime.GOMAXPROCS(0),
		batchSize:   100,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.workerCount <= 0 {
		e.workerCount = 1
	}
	e.pool = NewWorkerPool(e.workerCount)
	return e
}

// Evaluate returns the cards matching filter in their original order.
// The first evaluation error aborts the whole run.
func (e *ConcurrentEvaluator) Evaluate(ctx context.Context, filter Filter, cards []nowplaying.Card) ([]nowplaying.Card, error) {
	if len(cards) == 0 {
		return []nowplaying.Card{}, nil
	}
	if len(cards) < e.batchSize {
		return evaluateChunk(filter, cards)
	}
	return e.evaluateConcurrent(ctx, filter, cards)
}

func evaluateChunk(filter Filter, cards []nowplaying.Card) ([]nowplaying.Card, error) {
	matches := make([]nowplaying.Card, 0, len(cards))
	for _, card := range cards {
		ok, err := filter.Evaluate(card)
		if err != nil {
			return nil, err
		}
		if ok {
			matches = append(matches, card)
		}
	}
	return matches, nil
}

func (e *ConcurrentEvaluator) evaluateConcurrent(ctx context.Context, filter Filter, cards []nowplaying.Card) ([]nowplaying.Card, error) {
	chunkSize := max(len(cards)/e.workerCount, e.batchSize)
	chunks := (len(cards) + chunkSize - 1) / chunkSize

	// Each chunk writes only its own slot, so ordering needs no sorting.
	results := make([][]nowplaying.Card, chunks)
	errs := make([]error, chunks)

	var wg sync.WaitGroup
	for i := range chunks {
		start := i * chunkSize
		chunk := cards[start:min(start+chunkSize, len(cards))]

		wg.Add(1)
		err := e.pool.Submit(ctx, func() {
			defer wg.Done()
			if ctx.Err() != nil {
				errs[i] = ctx.Err()
				return
			}
			results[i], errs[i] = evaluateChunk(filter, chunk)
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return nil, err
		}
	}
	wg.Wait()

	total := 0
	for i := range chunks {
		if errs[i] != nil {
			return nil, errs[i]
		}
		total += len(results[i])
	}

	matches := make([]nowplaying.Card, 0, total)
	for _, r := range results {
		matches = append(matches, r...)
	}
	return matches, nil
}

// Stop shuts down the evaluator's worker pool
func (e *ConcurrentEvaluator) Stop(ctx context.Context) error {
	return e.pool.Stop(ctx)
}
