package httpclient

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
)

// BreakerSettings configures a BreakerClient
type BreakerSettings struct {
	Name        string
	MaxFailures uint32
	OpenTimeout time.Duration
	Interval    time.Duration
}

// BreakerClient guards a Client with a circuit breaker. Transport errors and
// 5xx responses count as failures; everything else counts as success.
type BreakerClient struct {
	decoratee Client
	cb        *gobreaker.TwoStepCircuitBreaker
	logger    zerolog.Logger
}

// NewBreakerClient wraps decoratee with a two-step circuit breaker
func NewBreakerClient(decoratee Client, settings BreakerSettings, logger zerolog.Logger) *BreakerClient {
	if settings.Name == "" {
		settings.Name = "http"
	}
	if settings.MaxFailures == 0 {
		settings.MaxFailures = 3
	}
	if settings.OpenTimeout <= 0 {
		settings.OpenTimeout = 30 * time.Second
	}

	maxFailures := settings.MaxFailures
	cbSettings := gobreaker.Settings{
		Name:        settings.Name,
		MaxRequests: 1,
		Interval:    settings.Interval,
		Timeout:     settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn().
				Str("name", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state changed")
		},
	}

	return &BreakerClient{
		decoratee: decoratee,
		cb:        gobreaker.NewTwoStepCircuitBreaker(cbSettings),
		logger:    logger,
	}
}

// State returns the current breaker state
func (c *BreakerClient) State() gobreaker.State {
	return c.cb.State()
}

// Dispatch forwards req when the breaker allows it. A rejected request
// completes asynchronously with ErrCircuitOpen.
func (c *BreakerClient) Dispatch(req *http.Request, completion Completion) Task {
	done, err := c.cb.Allow()
	if err != nil {
		return c.reject(err, completion)
	}

	// done must be reported exactly once or a half-open breaker never settles.
	var once sync.Once
	report := func(success bool) {
		once.Do(func() { done(success) })
	}

	task := c.decoratee.Dispatch(req, func(resp *Response, err error) {
		report(err == nil && resp != nil && resp.StatusCode < http.StatusInternalServerError)
		completion(resp, err)
	})

	// A cancelled exchange says nothing about the remote, so it does not count
	// as a failure.
	return TaskFunc(func() {
		report(true)
		cancelTask(task)
	})
}

func (c *BreakerClient) reject(cause error, completion Completion) Task {
	if errors.Is(cause, gobreaker.ErrOpenState) || errors.Is(cause, gobreaker.ErrTooManyRequests) {
		cause = fmt.Errorf("%w: %v", ErrCircuitOpen, cause)
	}

	d := newDelivery(completion)
	go d.deliver(nil, cause)
	return TaskFunc(d.disarm)
}
