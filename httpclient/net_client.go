package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/rs/zerolog"
)

// NetClient is a Client backed by net/http. Every exchange runs on its own
// goroutine, so completions never fire on the dispatching goroutine.
type NetClient struct {
	httpClient   *http.Client
	userAgent    string
	maxBodyBytes int64
	logger       zerolog.Logger
}

// NewNetClient creates a new net/http backed transport
func NewNetClient(logger zerolog.Logger, opts ...Option) *NetClient {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: o.timeout}
	}

	return &NetClient{
		httpClient:   httpClient,
		userAgent:    o.userAgent,
		maxBodyBytes: o.maxBodyBytes,
		logger:       logger,
	}
}

type netTask struct {
	delivery *delivery
	cancel   context.CancelFunc
	once     sync.Once
}

func (t *netTask) Cancel() {
	t.once.Do(func() {
		t.delivery.disarm()
		t.cancel()
	})
}

// Dispatch starts the exchange and returns immediately
func (c *NetClient) Dispatch(req *http.Request, completion Completion) Task {
	ctx, cancel := context.WithCancel(req.Context())
	task := &netTask{
		delivery: newDelivery(completion),
		cancel:   cancel,
	}

	outgoing := req.Clone(ctx)
	if c.userAgent != "" && outgoing.Header.Get("User-Agent") == "" {
		outgoing.Header.Set("User-Agent", c.userAgent)
	}

	go func() {
		defer cancel()
		resp, err := c.do(outgoing)
		task.delivery.deliver(resp, err)
	}()

	return task
}

func (c *NetClient) do(req *http.Request) (*Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > c.maxBodyBytes {
		return nil, fmt.Errorf("%w: limit %d bytes", ErrBodyTooLarge, c.maxBodyBytes)
	}

	c.logger.Trace().
		Str("method", req.Method).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Msg("HTTP exchange finished")

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}
