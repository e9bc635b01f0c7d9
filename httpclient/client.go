package httpclient

import (
	"net/http"
)

// Response is the outcome of a completed HTTP exchange
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Completion receives either a response or a transport error, never both
type Completion func(resp *Response, err error)

// Task is a handle to an in-flight exchange
type Task interface {
	// Cancel aborts the exchange and suppresses its completion. Idempotent.
	Cancel()
}

// Client performs a single HTTP request/response exchange.
//
// Dispatch must return before completion is invoked, and completion is
// invoked at most once. Decorators tolerate a nil Task from the client they
// wrap and treat it as nothing to cancel.
type Client interface {
	Dispatch(req *http.Request, completion Completion) Task
}

// ClientFunc adapts a function to the Client interface
type ClientFunc func(req *http.Request, completion Completion) Task

// Dispatch calls f(req, completion)
func (f ClientFunc) Dispatch(req *http.Request, completion Completion) Task {
	return f(req, completion)
}

// cancelTask cancels task if there is one
func cancelTask(task Task) {
	if task != nil {
		task.Cancel()
	}
}

// TaskFunc adapts a function to the Task interface
type TaskFunc func()

// Cancel calls f
func (f TaskFunc) Cancel() {
	if f != nil {
		f()
	}
}
