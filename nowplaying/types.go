package nowplaying

import (
	"fmt"
	"net/url"
	"strings"
)

// Query identifies which page of the feed to fetch
type Query struct {
	Page int
}

// Validate checks the query describes a fetchable page
func (q Query) Validate() error {
	if q.Page < 1 {
		return fmt.Errorf("page must be >= 1, got %d", q.Page)
	}
	return nil
}

// Card is the displayable summary of a single movie
type Card struct {
	ID        int
	Title     string
	ImagePath string
}

// HasPoster reports whether the card references a poster image
func (c Card) HasPoster() bool {
	return c.ImagePath != ""
}

// Feed is one page of now-playing results in server order
type Feed struct {
	Items      []Card
	Page       int
	TotalPages int
}

// HasMorePages checks if there are more pages to fetch
func (f Feed) HasMorePages() bool {
	return f.Page < f.TotalPages
}

// NextQuery returns the query for the following page, or an error if this is the last one
func (f Feed) NextQuery() (Query, error) {
	if !f.HasMorePages() {
		return Query{}, fmt.Errorf("no more pages available")
	}
	return Query{Page: f.Page + 1}, nil
}

// PosterURL resolves a card's relative image path against the image base URL
func PosterURL(base *url.URL, imagePath string) (*url.URL, error) {
	if base == nil {
		return nil, fmt.Errorf("image base URL is required")
	}
	imagePath = strings.TrimSpace(imagePath)
	if imagePath == "" {
		return nil, fmt.Errorf("image path is empty")
	}
	return base.JoinPath(imagePath), nil
}
