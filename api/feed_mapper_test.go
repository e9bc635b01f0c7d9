package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/nowplaying/api"
	"github.com/s0up4200/nowplaying/nowplaying"
)

func TestMapFeed_RejectsIncompletePayloads(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing page", body: `{"total_pages":1,"results":[]}`},
		{name: "missing total_pages", body: `{"page":1,"results":[]}`},
		{name: "missing results", body: `{"page":1,"total_pages":1}`},
		{name: "null results", body: `{"page":1,"total_pages":1,"results":null}`},
		{name: "card missing id", body: `{"page":1,"total_pages":1,"results":[{"title":"a","poster_path":"/a.jpg"}]}`},
		{name: "card missing title", body: `{"page":1,"total_pages":1,"results":[{"id":1,"poster_path":"/a.jpg"}]}`},
		{name: "card null poster", body: `{"page":1,"total_pages":1,"results":[{"id":1,"title":"a","poster_path":null}]}`},
		{name: "wrong type", body: `{"page":"1","total_pages":1,"results":[]}`},
		{name: "empty body", body: ``},
		{name: "null body", body: `null`},
		{name: "array body", body: `[]`},
		{name: "card is not an object", body: `{"page":1,"total_pages":1,"results":[1]}`},
		{name: "upper case keys", body: `{"PAGE":1,"Total_Pages":2,"RESULTS":[{"ID":7,"TITLE":"x","Poster_Path":"/p"}]}`},
		{name: "upper case card keys", body: `{"page":1,"total_pages":2,"results":[{"ID":7,"TITLE":"x","Poster_Path":"/p"}]}`},
		{name: "mixed case poster key", body: `{"page":1,"total_pages":2,"results":[{"id":7,"title":"x","Poster_Path":"/p"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := api.MapFeed([]byte(tt.body), http.StatusOK)
			assert.ErrorIs(t, err, api.ErrInvalidData)
		})
	}
}

func TestMapFeed_IgnoresExtraFields(t *testing.T) {
	body := `{
		"dates": {"maximum": "2021-07-06", "minimum": "2021-05-19"},
		"page": 2,
		"total_pages": 55,
		"total_results": 1100,
		"results": [{"id": 508943, "title": "Luca", "poster_path": "/jTswp6KyDYKtvC52GbHagrZbGvD.jpg", "adult": false}]
	}`

	feed, err := api.MapFeed([]byte(body), http.StatusOK)
	require.NoError(t, err)
	assert.Equal(t, nowplaying.Feed{
		Items:      []nowplaying.Card{{ID: 508943, Title: "Luca", ImagePath: "/jTswp6KyDYKtvC52GbHagrZbGvD.jpg"}},
		Page:       2,
		TotalPages: 55,
	}, feed)
}

func TestMapFeed_PrefersExactKeyOverCaseVariant(t *testing.T) {
	body := `{"page":1,"PAGE":9,"total_pages":2,"results":[{"id":7,"ID":8,"title":"x","poster_path":"/p"}]}`

	feed, err := api.MapFeed([]byte(body), http.StatusOK)
	require.NoError(t, err)
	assert.Equal(t, 1, feed.Page)
	assert.Equal(t, 7, feed.Items[0].ID)
}

func TestEncodeFeed_RoundTrips(t *testing.T) {
	feed := nowplaying.Feed{
		Items: []nowplaying.Card{
			{ID: 1, Title: "one", ImagePath: "/1.jpg"},
			{ID: 2, Title: "two", ImagePath: "/2.jpg"},
			{ID: 3, Title: "three", ImagePath: "/3.jpg"},
			{ID: 4, Title: "four", ImagePath: "/4.jpg"},
			{ID: 5, Title: "five", ImagePath: "/5.jpg"},
			{ID: 6, Title: "six", ImagePath: "/6.jpg"},
		},
		Page:       3,
		TotalPages: 9,
	}

	data, err := api.EncodeFeed(feed)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"poster_path":"/1.jpg"`)
	assert.Contains(t, string(data), `"total_pages":9`)

	decoded, err := api.MapFeed(data, http.StatusOK)
	require.NoError(t, err)
	assert.Equal(t, feed, decoded)
}
