package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/s0up4200/nowplaying/httpclient"
	"github.com/s0up4200/nowplaying/nowplaying"
)

// RemoteImageDataLoader fetches raw poster bytes through an httpclient.Client
type RemoteImageDataLoader struct {
	client httpclient.Client
}

var _ nowplaying.ImageDataLoader = (*RemoteImageDataLoader)(nil)

// NewRemoteImageDataLoader creates an image loader. No request is issued.
func NewRemoteImageDataLoader(client httpclient.Client) *RemoteImageDataLoader {
	return &RemoteImageDataLoader{client: client}
}

// Load fetches u and returns a task that cancels the fetch. After Cancel the
// completion is never invoked, even if the transport has already answered.
func (l *RemoteImageDataLoader) Load(ctx context.Context, u *url.URL, completion nowplaying.ImageDataCompletion) nowplaying.ImageDataTask {
	wrapper := newClientTaskWrapper(completion)

	if u == nil {
		go wrapper.complete(nil, fmt.Errorf("%w: missing image URL", ErrConnectivity))
		return wrapper
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		go wrapper.complete(nil, fmt.Errorf("%w: %w", ErrConnectivity, err))
		return wrapper
	}

	wrapper.setTask(l.client.Dispatch(req, func(resp *httpclient.Response, err error) {
		if err != nil {
			wrapper.complete(nil, fmt.Errorf("%w: %w", ErrConnectivity, err))
			return
		}
		if resp.StatusCode != http.StatusOK {
			wrapper.complete(nil, fmt.Errorf("%w: unexpected status code %d", ErrInvalidData, resp.StatusCode))
			return
		}
		wrapper.complete(resp.Body, nil)
	}))

	return wrapper
}

// clientTaskWrapper owns the completion of one image load. The completion
// is consumed exactly once: by delivery or by Cancel, whichever comes first.
type clientTaskWrapper struct {
	mu         sync.Mutex
	task       httpclient.Task
	completion nowplaying.ImageDataCompletion
	cancelled  bool
	done       bool
}

func newClientTaskWrapper(completion nowplaying.ImageDataCompletion) *clientTaskWrapper {
	return &clientTaskWrapper{completion: completion}
}

func (w *clientTaskWrapper) setTask(task httpclient.Task) {
	w.mu.Lock()
	switch {
	case w.done:
		// The transport answered before Dispatch returned.
		w.mu.Unlock()
	case w.cancelled:
		w.mu.Unlock()
		task.Cancel()
	default:
		w.task = task
		w.mu.Unlock()
	}
}

func (w *clientTaskWrapper) complete(data []byte, err error) {
	w.mu.Lock()
	completion := w.completion
	w.completion = nil
	w.task = nil
	w.done = true
	w.mu.Unlock()

	if completion != nil {
		completion(data, err)
	}
}

// Cancel cancels the underlying transport task and drops the completion
func (w *clientTaskWrapper) Cancel() {
	w.mu.Lock()
	if w.cancelled || w.done {
		w.mu.Unlock()
		return
	}
	w.cancelled = true
	w.completion = nil
	task := w.task
	w.mu.Unlock()

	if task != nil {
		task.Cancel()
	}
}
