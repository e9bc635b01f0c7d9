// Package api implements the now-playing loaders on top of httpclient.
//
// RemoteFeedLoader issues GET {base}?page=N and maps the JSON response with
// MapFeed. RemoteImageDataLoader issues GET {url} and returns the raw bytes.
// Both report failures as ErrConnectivity (no response) or ErrInvalidData
// (non-200 status or a payload that does not match the schema); neither
// retries or logs.
//
// Request signing is normally left to httpclient.AuthenticatedClient, which
// produces ?page=N&api_key=K. WithCredential moves signing into the feed
// loader and produces ?api_key=K&page=N instead.
package api
