package filter

import (
	"context"
	"errors"
	"sync"
)

// ErrPoolStopped is returned when work is submitted to a stopped pool
var ErrPoolStopped = errors.New("worker pool is stopped")

// workerPool runs work on a fixed set of goroutines
type workerPool struct {
	work    chan func()
	quit    chan struct{}
	mu      sync.RWMutex
	stopped bool
	once    sync.Once
	wg      sync.WaitGroup
}

// NewWorkerPool starts a pool with the given number of workers
func NewWorkerPool(workers int) WorkerPool {
	if workers <= 0 {
		workers = 1
	}

	p := &workerPool{
		work: make(chan func(), workers*2),
		quit: make(chan struct{}),
	}
	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}
	return p
}

func (p *workerPool) worker() {
	defer p.wg.Done()
	for fn := range p.work {
		fn()
	}
}

func (p *workerPool) Submit(ctx context.Context, work func()) error {
	if work == nil {
		return nil
	}

	// The read lock keeps Stop from closing the channel under a pending send.
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return ErrPoolStopped
	}

	select {
	case p.work <- work:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.quit:
		return ErrPoolStopped
	}
}

func (p *workerPool) Stop(ctx context.Context) error {
	p.once.Do(func() {
		close(p.quit)
		p.mu.Lock()
		p.stopped = true
		close(p.work)
		p.mu.Unlock()
	})

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
