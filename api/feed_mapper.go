package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/s0up4200/nowplaying/nowplaying"
)

// remoteFeed is the wire shape of a now-playing page
type remoteFeed struct {
	Page       int          `json:"page"`
	TotalPages int          `json:"total_pages"`
	Results    []remoteCard `json:"results"`
}

type remoteCard struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	PosterPath string `json:"poster_path"`
}

// jsonObject keeps the raw members of a JSON object keyed by their exact
// names. encoding/json matches struct tags case-insensitively, so required
// fields are looked up here instead.
type jsonObject map[string]json.RawMessage

// decode unmarshals the member name into dst. A missing or null member is an error.
func (o jsonObject) decode(name string, dst any) error {
	raw, ok := o[name]
	if !ok || string(raw) == "null" {
		return fmt.Errorf("missing field %q", name)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("field %q: %w", name, err)
	}
	return nil
}

func decodeFeed(data []byte) (nowplaying.Feed, error) {
	var root jsonObject
	if err := json.Unmarshal(data, &root); err != nil {
		return nowplaying.Feed{}, err
	}
	if root == nil {
		return nowplaying.Feed{}, fmt.Errorf("payload is not an object")
	}

	var (
		feed  nowplaying.Feed
		cards []jsonObject
	)
	if err := root.decode("page", &feed.Page); err != nil {
		return nowplaying.Feed{}, err
	}
	if err := root.decode("total_pages", &feed.TotalPages); err != nil {
		return nowplaying.Feed{}, err
	}
	if err := root.decode("results", &cards); err != nil {
		return nowplaying.Feed{}, err
	}

	feed.Items = make([]nowplaying.Card, 0, len(cards))
	for i, raw := range cards {
		if raw == nil {
			return nowplaying.Feed{}, fmt.Errorf("results[%d]: not an object", i)
		}
		var card nowplaying.Card
		if err := raw.decode("id", &card.ID); err != nil {
			return nowplaying.Feed{}, fmt.Errorf("results[%d]: %w", i, err)
		}
		if err := raw.decode("title", &card.Title); err != nil {
			return nowplaying.Feed{}, fmt.Errorf("results[%d]: %w", i, err)
		}
		if err := raw.decode("poster_path", &card.ImagePath); err != nil {
			return nowplaying.Feed{}, fmt.Errorf("results[%d]: %w", i, err)
		}
		feed.Items = append(feed.Items, card)
	}
	return feed, nil
}

// MapFeed converts a now-playing response into a Feed. It succeeds only for
// status 200 with a complete payload whose member names match exactly;
// anything else is ErrInvalidData.
func MapFeed(data []byte, statusCode int) (nowplaying.Feed, error) {
	if statusCode != http.StatusOK {
		return nowplaying.Feed{}, fmt.Errorf("%w: unexpected status code %d", ErrInvalidData, statusCode)
	}

	feed, err := decodeFeed(data)
	if err != nil {
		return nowplaying.Feed{}, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	return feed, nil
}

// EncodeFeed renders feed in the now-playing wire format
func EncodeFeed(feed nowplaying.Feed) ([]byte, error) {
	results := make([]remoteCard, 0, len(feed.Items))
	for _, card := range feed.Items {
		results = append(results, remoteCard{
			ID:         card.ID,
			Title:      card.Title,
			PosterPath: card.ImagePath,
		})
	}
	return json.Marshal(remoteFeed{
		Page:       feed.Page,
		TotalPages: feed.TotalPages,
		Results:    results,
	})
}
