package mainqueue

import (
	"context"
	"net/url"
	"sync/atomic"

	"github.com/s0up4200/nowplaying/nowplaying"
)

// Decorator wraps any asynchronous operation so that its completions run on
// a Scheduler. Concrete wrappers embed it and route their completions
// through Dispatch.
type Decorator[T any] struct {
	decoratee T
	scheduler Scheduler
	closed    atomic.Bool
}

// NewDecorator wraps decoratee
func NewDecorator[T any](decoratee T, scheduler Scheduler) *Decorator[T] {
	return &Decorator[T]{
		decoratee: decoratee,
		scheduler: scheduler,
	}
}

// Decoratee returns the wrapped value
func (d *Decorator[T]) Decoratee() T {
	return d.decoratee
}

// Dispatch runs fn on the scheduler: inline when already there, queued otherwise.
// Nothing runs once the decorator is closed.
func (d *Decorator[T]) Dispatch(fn func()) {
	if d.closed.Load() {
		return
	}
	if d.scheduler.IsCurrent() {
		fn()
		return
	}
	d.scheduler.Async(func() {
		if d.closed.Load() {
			return
		}
		fn()
	})
}

// Close drops completions that have not been delivered yet
func (d *Decorator[T]) Close() {
	d.closed.Store(true)
}

// FeedLoader delivers feed completions on the scheduler
type FeedLoader struct {
	*Decorator[nowplaying.FeedLoader]
}

var _ nowplaying.FeedLoader = FeedLoader{}

// NewFeedLoader wraps loader
func NewFeedLoader(loader nowplaying.FeedLoader, scheduler Scheduler) FeedLoader {
	return FeedLoader{NewDecorator(loader, scheduler)}
}

// Load forwards to the wrapped loader
func (l FeedLoader) Load(ctx context.Context, query nowplaying.Query, completion nowplaying.FeedCompletion) {
	l.decoratee.Load(ctx, query, func(feed nowplaying.Feed, err error) {
		l.Dispatch(func() { completion(feed, err) })
	})
}

// ImageDataLoader delivers image completions on the scheduler
type ImageDataLoader struct {
	*Decorator[nowplaying.ImageDataLoader]
}

var _ nowplaying.ImageDataLoader = ImageDataLoader{}

// NewImageDataLoader wraps loader
func NewImageDataLoader(loader nowplaying.ImageDataLoader, scheduler Scheduler) ImageDataLoader {
	return ImageDataLoader{NewDecorator(loader, scheduler)}
}

// Load forwards to the wrapped loader. Cancelling the returned task also
// drops a completion that is already queued on the scheduler.
func (l ImageDataLoader) Load(ctx context.Context, u *url.URL, completion nowplaying.ImageDataCompletion) nowplaying.ImageDataTask {
	task := &imageDataTask{}
	task.decoratee = l.decoratee.Load(ctx, u, func(data []byte, err error) {
		l.Dispatch(func() {
			if task.cancelled.Load() {
				return
			}
			completion(data, err)
		})
	})
	return task
}

type imageDataTask struct {
	decoratee nowplaying.ImageDataTask
	cancelled atomic.Bool
}

func (t *imageDataTask) Cancel() {
	if t.cancelled.Swap(true) {
		return
	}
	if t.decoratee != nil {
		t.decoratee.Cancel()
	}
}
