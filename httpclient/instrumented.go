package httpclient

import (
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/s0up4200/nowplaying/metrics"
)

// InstrumentedClient logs and records metrics for every exchange
type InstrumentedClient struct {
	decoratee Client
	name      string
	logger    zerolog.Logger
}

// NewInstrumentedClient wraps decoratee. name labels the exchanges in metrics.
func NewInstrumentedClient(decoratee Client, name string, logger zerolog.Logger) *InstrumentedClient {
	return &InstrumentedClient{
		decoratee: decoratee,
		name:      name,
		logger:    logger,
	}
}

// Dispatch forwards req unchanged
func (c *InstrumentedClient) Dispatch(req *http.Request, completion Completion) Task {
	requestID := uuid.NewString()
	start := time.Now()
	target := redactURL(req.URL)

	c.logger.Debug().
		Str("request_id", requestID).
		Str("method", req.Method).
		Str("url", target).
		Msg("Dispatching request")
	metrics.RequestsInFlight.WithLabelValues(c.name).Inc()

	var once sync.Once
	finish := func() bool {
		finished := false
		once.Do(func() {
			metrics.RequestsInFlight.WithLabelValues(c.name).Dec()
			finished = true
		})
		return finished
	}

	task := c.decoratee.Dispatch(req, func(resp *Response, err error) {
		elapsed := time.Since(start)
		finish()
		metrics.RequestDuration.WithLabelValues(c.name).Observe(elapsed.Seconds())

		if err != nil {
			metrics.RequestsTotal.WithLabelValues(c.name, "error").Inc()
			c.logger.Debug().
				Err(err).
				Str("request_id", requestID).
				Str("url", target).
				Dur("duration", elapsed).
				Msg("Request failed")
		} else {
			metrics.RequestsTotal.WithLabelValues(c.name, strconv.Itoa(resp.StatusCode)).Inc()
			c.logger.Debug().
				Str("request_id", requestID).
				Str("url", target).
				Int("status", resp.StatusCode).
				Int("bytes", len(resp.Body)).
				Dur("duration", elapsed).
				Msg("Request completed")
		}

		completion(resp, err)
	})

	return TaskFunc(func() {
		if finish() {
			metrics.RequestsCancelled.WithLabelValues(c.name).Inc()
		}
		cancelTask(task)
	})
}

// redactURL hides the API key so it never reaches the logs
func redactURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	q := u.Query()
	if !q.Has(APIKeyParam) {
		return u.String()
	}
	q.Set(APIKeyParam, "REDACTED")
	redacted := *u
	redacted.RawQuery = q.Encode()
	return redacted.String()
}
