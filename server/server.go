package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/s0up4200/nowplaying/api"
	"github.com/s0up4200/nowplaying/metrics"
	"github.com/s0up4200/nowplaying/nowplaying"
)

// Server exposes the loaders as a small local HTTP API
type Server struct {
	feed      nowplaying.FeedLoader
	images    nowplaying.ImageDataLoader
	imageBase *url.URL
	logger    zerolog.Logger
	router    *mux.Router
}

// New creates a server. Poster paths are resolved against imageBase.
func New(feed nowplaying.FeedLoader, images nowplaying.ImageDataLoader, imageBase *url.URL, logger zerolog.Logger) *Server {
	s := &Server{
		feed:      feed,
		images:    images,
		imageBase: imageBase,
		logger:    logger.With().Str("component", "server").Logger(),
		router:    mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	s.router.HandleFunc("/api/now_playing", s.handleNowPlaying).Methods(http.MethodGet)
	s.router.HandleFunc("/api/poster/{path:.+}", s.handlePoster).Methods(http.MethodGet)
}

// Handler returns the routed handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// HTTPServer wraps the handler in an *http.Server listening on addr
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, "OK")
}

type feedResult struct {
	feed nowplaying.Feed
	err  error
}

func (s *Server) handleNowPlaying(w http.ResponseWriter, r *http.Request) {
	query, err := parseQuery(r)
	if err != nil {
		metrics.FeedPagesServed.WithLabelValues("bad_request").Inc()
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	results := make(chan feedResult, 1)
	s.feed.Load(ctx, query, func(feed nowplaying.Feed, err error) {
		results <- feedResult{feed: feed, err: err}
	})

	var res feedResult
	select {
	case res = <-results:
	case <-ctx.Done():
		metrics.FeedPagesServed.WithLabelValues("cancelled").Inc()
		return
	}

	if res.err != nil {
		s.logger.Error().Err(res.err).Int("page", query.Page).Msg("Failed to load now playing page")
		metrics.FeedPagesServed.WithLabelValues(errorLabel(res.err)).Inc()
		http.Error(w, res.err.Error(), http.StatusBadGateway)
		return
	}

	body, err := api.EncodeFeed(res.feed)
	if err != nil {
		metrics.FeedPagesServed.WithLabelValues("error").Inc()
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	metrics.FeedPagesServed.WithLabelValues("ok").Inc()
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

type imageResult struct {
	data []byte
	err  error
}

func (s *Server) handlePoster(w http.ResponseWriter, r *http.Request) {
	posterURL, err := nowplaying.PosterURL(s.imageBase, "/"+mux.Vars(r)["path"])
	if err != nil {
		metrics.PostersServed.WithLabelValues("bad_request").Inc()
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	results := make(chan imageResult, 1)
	task := s.images.Load(ctx, posterURL, func(data []byte, err error) {
		results <- imageResult{data: data, err: err}
	})

	var res imageResult
	select {
	case res = <-results:
	case <-ctx.Done():
		task.Cancel()
		s.logger.Debug().Str("url", posterURL.String()).Msg("Client went away, poster load cancelled")
		metrics.PostersServed.WithLabelValues("cancelled").Inc()
		return
	}

	if res.err != nil {
		s.logger.Error().Err(res.err).Str("url", posterURL.String()).Msg("Failed to load poster")
		metrics.PostersServed.WithLabelValues(errorLabel(res.err)).Inc()
		http.Error(w, res.err.Error(), http.StatusBadGateway)
		return
	}

	metrics.PostersServed.WithLabelValues("ok").Inc()
	w.Header().Set("Content-Type", http.DetectContentType(res.data))
	w.Header().Set("Content-Length", strconv.Itoa(len(res.data)))
	_, _ = w.Write(res.data)
}

func parseQuery(r *http.Request) (nowplaying.Query, error) {
	query := nowplaying.Query{Page: 1}
	if raw := r.URL.Query().Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return nowplaying.Query{}, fmt.Errorf("invalid page %q", raw)
		}
		query.Page = page
	}
	if err := query.Validate(); err != nil {
		return nowplaying.Query{}, err
	}
	return query, nil
}

func errorLabel(err error) string {
	switch {
	case errors.Is(err, api.ErrConnectivity):
		return "connectivity"
	case errors.Is(err, api.ErrInvalidData):
		return "invalid_data"
	default:
		return "error"
	}
}
