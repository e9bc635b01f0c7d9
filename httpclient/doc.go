// Package httpclient provides the transport used by the remote loaders.
//
// A Client performs one request/response exchange asynchronously and hands
// back a Task that can cancel it. NetClient is the net/http implementation;
// the other types are decorators implementing the same interface:
//
//   - AuthenticatedClient appends the api_key query parameter
//   - BreakerClient rejects requests while a circuit breaker is open
//   - InstrumentedClient logs exchanges and records Prometheus metrics
//
// # Usage
//
//	base := httpclient.NewNetClient(logger, httpclient.WithTimeout(10*time.Second))
//	client := httpclient.NewAuthenticatedClient(
//		httpclient.NewInstrumentedClient(base, "tmdb", logger),
//		httpclient.Credential{APIKey: key},
//	)
//	task := client.Dispatch(req, func(resp *httpclient.Response, err error) {
//		// called once, on a goroutine other than the caller's
//	})
//	defer task.Cancel()
//
// # Cancellation
//
// Cancelling a task guarantees its completion is not observed afterwards.
// The underlying exchange is aborted on a best-effort basis.
package httpclient
