package mainqueue

import (
	"bytes"
	"context"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
)

// Scheduler is a single designated execution context
type Scheduler interface {
	// IsCurrent reports whether the caller is running on the scheduler
	IsCurrent() bool
	// Async schedules fn to run on the scheduler without blocking
	Async(fn func())
}

// Queue is a serial FIFO executor bound to one goroutine
type Queue struct {
	mu      sync.Mutex
	pending []func()
	wake    chan struct{}
	owner   atomic.Uint64
	stopped atomic.Bool
	done    chan struct{}
	stop    sync.Once
}

var _ Scheduler = (*Queue)(nil)

// New creates a queue. Nothing runs until Run or Start is called.
func New() *Queue {
	return &Queue{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// Start runs the queue on a new goroutine
func (q *Queue) Start() {
	go q.Run(context.Background())
}

// Run executes queued jobs on the calling goroutine until ctx is done or
// Stop is called. Jobs still pending at that point are dropped, and so is
// everything queued afterwards: a queue that stopped running is stopped.
func (q *Queue) Run(ctx context.Context) {
	q.owner.Store(goroutineID())
	defer q.owner.Store(0)

	for {
		if ctx.Err() != nil {
			q.Stop()
			return
		}
		for _, job := range q.drain() {
			if q.stopped.Load() {
				return
			}
			job()
		}

		select {
		case <-ctx.Done():
			q.Stop()
			return
		case <-q.done:
			return
		case <-q.wake:
		}
	}
}

// Stop ends Run and drops pending jobs. Subsequent Async calls are ignored.
func (q *Queue) Stop() {
	q.stop.Do(func() {
		q.mu.Lock()
		q.stopped.Store(true)
		q.pending = nil
		q.mu.Unlock()
		close(q.done)
	})
}

// IsCurrent reports whether the caller is the goroutine executing Run
func (q *Queue) IsCurrent() bool {
	owner := q.owner.Load()
	return owner != 0 && owner == goroutineID()
}

// Async appends fn to the queue
func (q *Queue) Async(fn func()) {
	if fn == nil {
		return
	}

	// Checked under the lock so a job cannot slip in after Stop cleared the queue.
	q.mu.Lock()
	if q.stopped.Load() {
		q.mu.Unlock()
		return
	}
	q.pending = append(q.pending, fn)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *Queue) drain() []func() {
	q.mu.Lock()
	defer q.mu.Unlock()

	jobs := q.pending
	q.pending = nil
	return jobs
}

// goroutineID parses the current goroutine's id from its stack header
// ("goroutine 123 [running]:").
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	header := bytes.TrimPrefix(buf[:n], []byte("goroutine "))
	if i := bytes.IndexByte(header, ' '); i > 0 {
		header = header[:i]
	}
	id, err := strconv.ParseUint(string(header), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
