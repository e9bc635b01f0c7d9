package cmd

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/nowplaying/config"
	"github.com/s0up4200/nowplaying/nowplaying"
)

type pagedLoader struct {
	mu         sync.Mutex
	totalPages int
	failOn     int
	requested  []int
}

func (l *pagedLoader) Load(_ context.Context, query nowplaying.Query, completion nowplaying.FeedCompletion) {
	l.mu.Lock()
	l.requested = append(l.requested, query.Page)
	l.mu.Unlock()

	go func() {
		if query.Page == l.failOn {
			completion(nowplaying.Feed{}, errors.New("offline"))
			return
		}
		completion(nowplaying.Feed{
			Items:      []nowplaying.Card{{ID: query.Page, Title: "Movie", ImagePath: "/p.jpg"}},
			Page:       query.Page,
			TotalPages: l.totalPages,
		}, nil)
	}()
}

func TestCollectCards(t *testing.T) {
	logger = zerolog.Nop()

	tests := []struct {
		name          string
		first         int
		all           bool
		failOn        int
		wantIDs       []int
		wantRequested []int
		wantErr       bool
	}{
		{name: "single page", first: 1, wantIDs: []int{1}, wantRequested: []int{1}},
		{name: "all pages", first: 1, all: true, wantIDs: []int{1, 2, 3}, wantRequested: []int{1, 2, 3}},
		{name: "all from middle", first: 2, all: true, wantIDs: []int{2, 3}, wantRequested: []int{2, 3}},
		{name: "failure stops paging", first: 1, all: true, failOn: 2, wantRequested: []int{1, 2}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := &pagedLoader{totalPages: 3, failOn: tt.failOn}

			cards, err := collectCards(context.Background(), loader, nowplaying.Query{Page: tt.first}, tt.all)
			assert.Equal(t, tt.wantRequested, loader.requested)
			if tt.wantErr {
				assert.ErrorContains(t, err, "failed to load page 2")
				return
			}
			require.NoError(t, err)

			ids := make([]int, 0, len(cards))
			for _, c := range cards {
				ids = append(ids, c.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

type silentLoader struct{}

func (silentLoader) Load(context.Context, nowplaying.Query, nowplaying.FeedCompletion) {}

func TestCollectCards_ContextDone(t *testing.T) {
	logger = zerolog.Nop()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := collectCards(ctx, silentLoader{}, nowplaying.Query{Page: 1}, false)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPrintCards(t *testing.T) {
	var buf bytes.Buffer
	printCards(&buf, nil)
	assert.Contains(t, buf.String(), "No movies found.")

	buf.Reset()
	printCards(&buf, []nowplaying.Card{
		{ID: 1, Title: "Luca", ImagePath: "/luca.jpg"},
		{ID: 2, Title: "Untitled"},
	})
	out := buf.String()
	assert.Contains(t, out, "Found 2 movies")
	assert.Contains(t, out, "• Luca (ID: 1)")
	assert.Contains(t, out, "Poster: /luca.jpg")
	assert.Contains(t, out, "• Untitled (ID: 2) [NO POSTER]")
}

const pageJSON = `{"page":1,"total_pages":1,"results":[{"id":7,"title":"Luca","poster_path":"/luca.jpg"}]}`

func testConfig(serverURL, placement string) *config.Config {
	return &config.Config{
		TMDB: config.TMDBConfig{
			URL:                 serverURL + "/3/movie/now_playing",
			APIKey:              "a key",
			ImageURL:            serverURL + "/t/p/w500",
			CredentialPlacement: placement,
		},
		HTTP:    config.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "nowplaying-test"},
		Breaker: config.BreakerConfig{Enabled: true, MaxFailures: 3, OpenTimeout: time.Second},
		Posters: config.PostersConfig{Concurrency: 2},
	}
}

func TestNewApplication_CredentialPlacement(t *testing.T) {
	tests := []struct {
		placement string
		wantQuery string
	}{
		{placement: config.PlacementDecorator, wantQuery: "page=1&api_key=a%20key"},
		{placement: config.PlacementLoader, wantQuery: "api_key=a%20key&page=1"},
	}

	for _, tt := range tests {
		t.Run(tt.placement, func(t *testing.T) {
			queries := make(chan string, 1)
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				queries <- r.URL.RawQuery
				assert.Equal(t, "nowplaying-test", r.UserAgent())
				_, _ = w.Write([]byte(pageJSON))
			}))
			defer ts.Close()

			a, err := newApplication(testConfig(ts.URL, tt.placement), zerolog.Nop())
			require.NoError(t, err)
			defer a.Close()

			feed, err := loadPage(context.Background(), a.feed, nowplaying.Query{Page: 1})
			require.NoError(t, err)
			assert.Equal(t, []nowplaying.Card{{ID: 7, Title: "Luca", ImagePath: "/luca.jpg"}}, feed.Items)
			assert.Equal(t, tt.wantQuery, <-queries)
		})
	}
}

func TestDownloadPosters(t *testing.T) {
	logger = zerolog.Nop()

	var mu sync.Mutex
	var paths []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		assert.Empty(t, r.URL.Query().Get("api_key"))
		_, _ = w.Write([]byte("poster:" + r.URL.Path))
	}))
	defer ts.Close()

	var err error
	app, err = newApplication(testConfig(ts.URL, config.PlacementDecorator), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() {
		app.Close()
		app = nil
	})

	dir := t.TempDir()
	cards := []nowplaying.Card{
		{ID: 1, Title: "Luca", ImagePath: "/luca.jpg"},
		{ID: 2, Title: "No poster"},
		{ID: 3, Title: "Soul", ImagePath: "/soul.jpg"},
	}

	saved, err := downloadPosters(context.Background(), cards, dir, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, saved)
	assert.ElementsMatch(t, []string{"/t/p/w500/luca.jpg", "/t/p/w500/soul.jpg"}, paths)

	data, err := os.ReadFile(filepath.Join(dir, "1.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "poster:/t/p/w500/luca.jpg", string(data))
}

func TestDownloadPosters_SharedPosterPathsGetSeparateFiles(t *testing.T) {
	logger = zerolog.Nop()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("poster"))
	}))
	defer ts.Close()

	var err error
	app, err = newApplication(testConfig(ts.URL, config.PlacementDecorator), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() {
		app.Close()
		app = nil
	})

	dir := t.TempDir()
	cards := []nowplaying.Card{
		{ID: 1, Title: "Luca", ImagePath: "/shared.jpg"},
		{ID: 2, Title: "Luca (dub)", ImagePath: "/shared.jpg"},
		{ID: 3, Title: "Root", ImagePath: "/"},
	}

	saved, err := downloadPosters(context.Background(), cards, dir, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, saved)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		assert.False(t, e.IsDir())
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"1.jpg", "2.jpg", "3"}, names)
}

func TestPosterFileName(t *testing.T) {
	tests := []struct {
		card nowplaying.Card
		want string
	}{
		{nowplaying.Card{ID: 508943, ImagePath: "/jTswp6KyDYKtvC52GbHagrZbGvD.jpg"}, "508943.jpg"},
		{nowplaying.Card{ID: 7, ImagePath: "/nested/poster.png"}, "7.png"},
		{nowplaying.Card{ID: 3, ImagePath: "/"}, "3"},
		{nowplaying.Card{ID: 4, ImagePath: "/../../etc/passwd"}, "4"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, posterFileName(tt.card))
		})
	}
}

func TestDownloadPosters_Failure(t *testing.T) {
	logger = zerolog.Nop()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	var err error
	app, err = newApplication(testConfig(ts.URL, config.PlacementDecorator), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() {
		app.Close()
		app = nil
	})

	_, err = downloadPosters(context.Background(), []nowplaying.Card{{ID: 1, Title: "Luca", ImagePath: "/luca.jpg"}}, t.TempDir(), 1)
	assert.ErrorContains(t, err, `failed to download poster for "Luca"`)
}

func TestLoadImage_CancelsOnContextDone(t *testing.T) {
	task := &countingTask{}
	loader := imageLoaderStub{task: task}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := loadImage(ctx, loader, &url.URL{Scheme: "https", Host: "image.tmdb.org"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, task.calls)
}

type countingTask struct{ calls int }

func (t *countingTask) Cancel() { t.calls++ }

type imageLoaderStub struct{ task *countingTask }

func (s imageLoaderStub) Load(context.Context, *url.URL, nowplaying.ImageDataCompletion) nowplaying.ImageDataTask {
	return s.task
}

func TestSetupLogger(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "log")
	require.NoError(t, err)
	defer f.Close()

	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			setupLogger(config.LoggingConfig{Level: tt.level, Format: "json"}, f)
			assert.Equal(t, tt.want, zerolog.GlobalLevel())
		})
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}
