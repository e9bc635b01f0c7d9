package cmd

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/s0up4200/nowplaying/api"
	"github.com/s0up4200/nowplaying/config"
	"github.com/s0up4200/nowplaying/httpclient"
	"github.com/s0up4200/nowplaying/nowplaying"
)

// application holds the composed loaders shared by the commands
type application struct {
	feed      nowplaying.FeedLoader
	images    nowplaying.ImageDataLoader
	imageBase *url.URL
	closers   []func()
}

// newApplication composes the client chain:
// NetClient -> BreakerClient -> InstrumentedClient [-> AuthenticatedClient].
// Poster downloads use the same chain without the credential.
func newApplication(cfg *config.Config, logger zerolog.Logger) (*application, error) {
	feedURL, err := url.Parse(cfg.TMDB.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid tmdb.url: %w", err)
	}
	imageBase, err := url.Parse(cfg.TMDB.ImageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid tmdb.image_url: %w", err)
	}

	netClient := httpclient.NewNetClient(logger,
		httpclient.WithTimeout(cfg.HTTP.Timeout),
		httpclient.WithUserAgent(cfg.HTTP.UserAgent),
	)

	chain := func(name string) httpclient.Client {
		var c httpclient.Client = netClient
		if cfg.Breaker.Enabled {
			c = httpclient.NewBreakerClient(c, httpclient.BreakerSettings{
				Name:        name,
				MaxFailures: cfg.Breaker.MaxFailures,
				OpenTimeout: cfg.Breaker.OpenTimeout,
			}, logger)
		}
		return httpclient.NewInstrumentedClient(c, name, logger)
	}

	a := &application{imageBase: imageBase}
	credential := httpclient.Credential{APIKey: cfg.TMDB.APIKey}

	var feed *api.RemoteFeedLoader
	switch cfg.TMDB.CredentialPlacement {
	case config.PlacementLoader:
		feed = api.NewRemoteFeedLoader(feedURL, chain("tmdb-api"), api.WithCredential(credential))
	default:
		authenticated := httpclient.NewAuthenticatedClient(chain("tmdb-api"), credential)
		a.closers = append(a.closers, authenticated.Close)
		feed = api.NewRemoteFeedLoader(feedURL, authenticated)
	}
	a.closers = append(a.closers, feed.Close)

	a.feed = feed
	a.images = api.NewRemoteImageDataLoader(chain("tmdb-images"))
	return a, nil
}

// Close drops any completion that has not been delivered yet
func (a *application) Close() {
	for _, c := range a.closers {
		c()
	}
}

type feedResult struct {
	feed nowplaying.Feed
	err  error
}

// loadPage blocks until loader delivers query's page or ctx is done
func loadPage(ctx context.Context, loader nowplaying.FeedLoader, query nowplaying.Query) (nowplaying.Feed, error) {
	results := make(chan feedResult, 1)
	loader.Load(ctx, query, func(feed nowplaying.Feed, err error) {
		results <- feedResult{feed: feed, err: err}
	})

	select {
	case res := <-results:
		return res.feed, res.err
	case <-ctx.Done():
		return nowplaying.Feed{}, ctx.Err()
	}
}

type imageResult struct {
	data []byte
	err  error
}

// loadImage blocks until loader delivers the image, cancelling the task if ctx ends first
func loadImage(ctx context.Context, loader nowplaying.ImageDataLoader, u *url.URL) ([]byte, error) {
	results := make(chan imageResult, 1)
	task := loader.Load(ctx, u, func(data []byte, err error) {
		results <- imageResult{data: data, err: err}
	})

	select {
	case res := <-results:
		return res.data, res.err
	case <-ctx.Done():
		task.Cancel()
		return nil, ctx.Err()
	}
}
