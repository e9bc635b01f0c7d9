package httpclient

import "errors"

// Common errors returned by the transport layer.
var (
	// ErrCircuitOpen indicates the circuit breaker rejected the request.
	ErrCircuitOpen = errors.New("circuit breaker is open")

	// ErrBodyTooLarge indicates the response body exceeded the configured limit.
	ErrBodyTooLarge = errors.New("response body too large")
)
