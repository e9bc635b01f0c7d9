package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync/atomic"

	"github.com/s0up4200/nowplaying/httpclient"
	"github.com/s0up4200/nowplaying/nowplaying"
)

// PageParam is the query parameter selecting the feed page
const PageParam = "page"

// FeedLoaderOption configures a RemoteFeedLoader
type FeedLoaderOption func(*RemoteFeedLoader)

// WithCredential makes the loader sign requests itself, placing api_key
// before page. Leave it out when the client is an AuthenticatedClient.
func WithCredential(credential httpclient.Credential) FeedLoaderOption {
	return func(l *RemoteFeedLoader) {
		l.credential = &credential
	}
}

// RemoteFeedLoader loads now-playing pages through an httpclient.Client
type RemoteFeedLoader struct {
	baseURL    *url.URL
	client     httpclient.Client
	credential *httpclient.Credential
	closed     atomic.Bool
}

var _ nowplaying.FeedLoader = (*RemoteFeedLoader)(nil)

// NewRemoteFeedLoader creates a loader for the feed at baseURL. No request is issued.
func NewRemoteFeedLoader(baseURL *url.URL, client httpclient.Client, opts ...FeedLoaderOption) *RemoteFeedLoader {
	l := &RemoteFeedLoader{
		baseURL: baseURL,
		client:  client,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load requests the page described by query. completion receives a wrapped
// ErrConnectivity or ErrInvalidData on failure, and is never invoked once
// the loader has been closed.
func (l *RemoteFeedLoader) Load(ctx context.Context, query nowplaying.Query, completion nowplaying.FeedCompletion) {
	req, err := l.makeRequest(ctx, query)
	if err != nil {
		go l.complete(completion, nowplaying.Feed{}, fmt.Errorf("%w: %w", ErrConnectivity, err))
		return
	}

	l.client.Dispatch(req, func(resp *httpclient.Response, err error) {
		if err != nil {
			l.complete(completion, nowplaying.Feed{}, fmt.Errorf("%w: %w", ErrConnectivity, err))
			return
		}
		feed, err := MapFeed(resp.Body, resp.StatusCode)
		l.complete(completion, feed, err)
	})
}

// Close stops delivery of results for loads still in flight
func (l *RemoteFeedLoader) Close() {
	l.closed.Store(true)
}

func (l *RemoteFeedLoader) complete(completion nowplaying.FeedCompletion, feed nowplaying.Feed, err error) {
	if l.closed.Load() {
		return
	}
	completion(feed, err)
}

func (l *RemoteFeedLoader) makeRequest(ctx context.Context, query nowplaying.Query) (*http.Request, error) {
	if l.baseURL == nil {
		return nil, fmt.Errorf("feed base URL is not configured")
	}

	params := make([]httpclient.QueryParam, 0, 2)
	if l.credential != nil {
		params = append(params, l.credential.QueryParam())
	}
	params = append(params, httpclient.QueryParam{Name: PageParam, Value: strconv.Itoa(query.Page)})

	target := httpclient.AppendQuery(l.baseURL, params...)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}
