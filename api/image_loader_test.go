package api_test

import (
	"context"
	"net/http"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/nowplaying/api"
	"github.com/s0up4200/nowplaying/httpclient"
	"github.com/s0up4200/nowplaying/httpclient/httpclienttest"
)

func makeImageSUT() (*api.RemoteImageDataLoader, *httpclienttest.Spy) {
	spy := &httpclienttest.Spy{}
	return api.NewRemoteImageDataLoader(spy), spy
}

type imageResult struct {
	data []byte
	err  error
}

func expectImage(t *testing.T, sut *api.RemoteImageDataLoader, action func()) imageResult {
	t.Helper()
	var results []imageResult
	sut.Load(context.Background(), anyURL(t), func(data []byte, err error) {
		results = append(results, imageResult{data: data, err: err})
	})

	action()

	require.Len(t, results, 1, "expected exactly one completion")
	return results[0]
}

func TestRemoteImageDataLoader_DoesNotRequestOnInit(t *testing.T) {
	_, spy := makeImageSUT()

	assert.Empty(t, spy.RequestedURLs())
}

func TestRemoteImageDataLoader_RequestsURL(t *testing.T) {
	sut, spy := makeImageSUT()
	u := mustParseURL(t, "https://image.tmdb.org/t/p/w500/a.jpg")

	sut.Load(context.Background(), u, func([]byte, error) {})

	assert.Equal(t, []string{u.String()}, spy.RequestedURLs())
	assert.Equal(t, http.MethodGet, spy.Requests()[0].Method)
}

func TestRemoteImageDataLoader_LoadTwiceRequestsTwice(t *testing.T) {
	sut, spy := makeImageSUT()

	sut.Load(context.Background(), anyURL(t), func([]byte, error) {})
	sut.Load(context.Background(), anyURL(t), func([]byte, error) {})

	assert.Equal(t, []string{"http://a-url.com", "http://a-url.com"}, spy.RequestedURLs())
}

func TestRemoteImageDataLoader_DeliversConnectivityErrorOnClientError(t *testing.T) {
	sut, spy := makeImageSUT()

	r := expectImage(t, sut, func() {
		spy.CompleteWithError(anyError(), 0)
	})

	assert.ErrorIs(t, r.err, api.ErrConnectivity)
	assert.Nil(t, r.data)
}

func TestRemoteImageDataLoader_DeliversInvalidDataOnNon200Response(t *testing.T) {
	for _, code := range []int{199, 201, 300, 400, 500} {
		t.Run(strconv.Itoa(code), func(t *testing.T) {
			sut, spy := makeImageSUT()

			r := expectImage(t, sut, func() {
				spy.CompleteWith(code, anyData(), 0)
			})

			assert.ErrorIs(t, r.err, api.ErrInvalidData)
		})
	}
}

func TestRemoteImageDataLoader_DeliversDataOn200(t *testing.T) {
	sut, spy := makeImageSUT()

	r := expectImage(t, sut, func() {
		spy.CompleteWith(http.StatusOK, anyData(), 0)
	})

	require.NoError(t, r.err)
	assert.Equal(t, anyData(), r.data)
}

func TestRemoteImageDataLoader_CancelSuppressesDelivery(t *testing.T) {
	tests := []struct {
		name     string
		complete func(spy *httpclienttest.Spy)
	}{
		{name: "success", complete: func(spy *httpclienttest.Spy) { spy.CompleteWith(http.StatusOK, anyData(), 0) }},
		{name: "failure", complete: func(spy *httpclienttest.Spy) { spy.CompleteWithError(anyError(), 0) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sut, spy := makeImageSUT()
			u := anyURL(t)

			called := false
			task := sut.Load(context.Background(), u, func([]byte, error) {
				called = true
			})

			task.Cancel()
			tt.complete(spy)

			assert.Equal(t, []string{u.String()}, spy.CancelledURLs())
			assert.False(t, called)
		})
	}
}

func TestRemoteImageDataLoader_CancelIsIdempotent(t *testing.T) {
	sut, spy := makeImageSUT()

	task := sut.Load(context.Background(), anyURL(t), func([]byte, error) {})
	task.Cancel()
	task.Cancel()

	assert.Len(t, spy.CancelledURLs(), 1)
}

func TestRemoteImageDataLoader_CancelAfterCompletionIsNoop(t *testing.T) {
	sut, spy := makeImageSUT()

	calls := 0
	task := sut.Load(context.Background(), anyURL(t), func([]byte, error) {
		calls++
	})
	spy.CompleteWith(http.StatusOK, anyData(), 0)
	task.Cancel()

	assert.Equal(t, 1, calls)
	assert.Empty(t, spy.CancelledURLs())
}

func TestRemoteImageDataLoader_MissingURL(t *testing.T) {
	sut, spy := makeImageSUT()

	done := make(chan error, 1)
	sut.Load(context.Background(), nil, func(_ []byte, err error) {
		done <- err
	})

	assert.ErrorIs(t, <-done, api.ErrConnectivity)
	assert.Empty(t, spy.RequestedURLs())
}

func TestRemoteImageDataLoader_CancelAfterEarlyAnswerIsNoop(t *testing.T) {
	var transportCancels atomic.Int32
	// The transport answers on another goroutine before Dispatch returns.
	client := httpclient.ClientFunc(func(_ *http.Request, completion httpclient.Completion) httpclient.Task {
		answered := make(chan struct{})
		go func() {
			completion(&httpclient.Response{StatusCode: http.StatusOK, Body: anyData()}, nil)
			close(answered)
		}()
		<-answered
		return httpclient.TaskFunc(func() { transportCancels.Add(1) })
	})
	sut := api.NewRemoteImageDataLoader(client)

	var completions atomic.Int32
	task := sut.Load(context.Background(), anyURL(t), func([]byte, error) {
		completions.Add(1)
	})
	task.Cancel()

	assert.EqualValues(t, 1, completions.Load())
	assert.EqualValues(t, 0, transportCancels.Load())
}
