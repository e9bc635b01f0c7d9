// Package nowplaying defines the domain of the now-playing movie feed.
//
// A Feed is one page of the listing returned by the remote API. Each Card in
// the feed carries a relative ImagePath that is resolved against an image
// base URL with PosterURL before being handed to an ImageDataLoader.
//
// # Loaders
//
// FeedLoader and ImageDataLoader are callback based. Implementations invoke
// the completion asynchronously and at most once:
//
//	loader.Load(ctx, nowplaying.Query{Page: 1}, func(feed nowplaying.Feed, err error) {
//		if err != nil {
//			// errors.Is(err, api.ErrConnectivity) / api.ErrInvalidData
//			return
//		}
//		for _, card := range feed.Items {
//			fmt.Println(card.Title)
//		}
//	})
//
// Image loads return an ImageDataTask. Cancelling it guarantees the
// completion is never observed afterwards.
package nowplaying
