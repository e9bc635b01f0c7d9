// Package httpclienttest provides a controllable fake httpclient.Client.
package httpclienttest

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/s0up4200/nowplaying/httpclient"
)

type message struct {
	request    *http.Request
	completion httpclient.Completion
}

// Spy records dispatched requests and completes them only when told to.
// It is safe for concurrent use.
type Spy struct {
	mu        sync.Mutex
	messages  []message
	cancelled []string
}

// Dispatch records req and returns a task that records cancellation
func (s *Spy) Dispatch(req *http.Request, completion httpclient.Completion) httpclient.Task {
	s.mu.Lock()
	s.messages = append(s.messages, message{request: req, completion: completion})
	s.mu.Unlock()

	target := req.URL.String()
	return httpclient.TaskFunc(func() {
		s.mu.Lock()
		s.cancelled = append(s.cancelled, target)
		s.mu.Unlock()
	})
}

// RequestedURLs returns the URLs of all dispatched requests in order
func (s *Spy) RequestedURLs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	urls := make([]string, 0, len(s.messages))
	for _, m := range s.messages {
		urls = append(urls, m.request.URL.String())
	}
	return urls
}

// Requests returns the dispatched requests in order
func (s *Spy) Requests() []*http.Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	reqs := make([]*http.Request, 0, len(s.messages))
	for _, m := range s.messages {
		reqs = append(reqs, m.request)
	}
	return reqs
}

// CancelledURLs returns the URLs of cancelled requests in cancellation order
func (s *Spy) CancelledURLs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.cancelled...)
}

// CompleteWithError delivers err to the request at index
func (s *Spy) CompleteWithError(err error, index int) {
	s.completion(index)(nil, err)
}

// CompleteWith delivers a response with the given status and body to the request at index
func (s *Spy) CompleteWith(statusCode int, body []byte, index int) {
	s.completion(index)(&httpclient.Response{
		StatusCode: statusCode,
		Header:     http.Header{},
		Body:       body,
	}, nil)
}

func (s *Spy) completion(index int) httpclient.Completion {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.messages) {
		panic(fmt.Sprintf("httpclienttest: no request at index %d (have %d)", index, len(s.messages)))
	}
	return s.messages[index].completion
}
