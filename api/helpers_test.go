package api_test

import (
	"encoding/json"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/s0up4200/nowplaying/nowplaying"
)

func mustParseURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func anyURL(t *testing.T) *url.URL {
	return mustParseURL(t, "http://a-url.com")
}

func anyData() []byte {
	return []byte("any data")
}

func anyError() error {
	return errors.New("any error")
}

func makeCard(id int, title, imagePath string) (nowplaying.Card, map[string]any) {
	card := nowplaying.Card{ID: id, Title: title, ImagePath: imagePath}
	wire := map[string]any{
		"id":          id,
		"title":       title,
		"poster_path": imagePath,
	}
	return card, wire
}

func makeFeedJSON(t *testing.T, cards []map[string]any, page, totalPages int) []byte {
	t.Helper()
	if cards == nil {
		cards = []map[string]any{}
	}
	data, err := json.Marshal(map[string]any{
		"page":        page,
		"total_pages": totalPages,
		"results":     cards,
	})
	require.NoError(t, err)
	return data
}
