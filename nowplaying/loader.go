package nowplaying

import (
	"context"
	"net/url"
)

// FeedCompletion receives the outcome of a feed load
type FeedCompletion func(feed Feed, err error)

// ImageDataCompletion receives the outcome of an image load
type ImageDataCompletion func(data []byte, err error)

// FeedLoader loads one page of the now-playing feed
type FeedLoader interface {
	// Load fetches the page described by query and invokes completion once
	Load(ctx context.Context, query Query, completion FeedCompletion)
}

// ImageDataTask is a handle to an in-flight image load
type ImageDataTask interface {
	// Cancel stops delivery of the load's result. Safe to call more than once.
	Cancel()
}

// ImageDataLoader loads raw poster bytes from an absolute URL
type ImageDataLoader interface {
	Load(ctx context.Context, u *url.URL, completion ImageDataCompletion) ImageDataTask
}
