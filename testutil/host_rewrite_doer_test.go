package testutil

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingDoer struct {
	lastRequest *http.Request
}

func (doer *recordingDoer) Do(request *http.Request) (*http.Response, error) {
	doer.lastRequest = request
	return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody}, nil
}

type errorDoer struct {
	err error
}

func (doer errorDoer) Do(*http.Request) (*http.Response, error) {
	return nil, doer.err
}

func TestNewHostRewriteDoer(t *testing.T) {
	t.Run("rejects nil next", func(t *testing.T) {
		_, err := NewHostRewriteDoer("https://example.com", nil)
		assert.ErrorContains(t, err, "next doer is nil")
	})

	t.Run("rejects invalid server URL", func(t *testing.T) {
		_, err := NewHostRewriteDoer(":", errorDoer{err: errors.New("unused")})
		assert.ErrorContains(t, err, "parse server url")
	})

	t.Run("rejects URL without host", func(t *testing.T) {
		_, err := NewHostRewriteDoer("https://", errorDoer{err: errors.New("unused")})
		assert.ErrorContains(t, err, "scheme and host")
	})

	t.Run("rewrites scheme and host but keeps the path", func(t *testing.T) {
		next := &recordingDoer{}
		doer, err := NewHostRewriteDoer("http://127.0.0.1:8443", next)
		if !assert.NoError(t, err) {
			return
		}

		request, err := http.NewRequest(http.MethodGet, "https://codecov.io/api/gh/meza/covgate?branch=main", nil)
		if !assert.NoError(t, err) {
			return
		}

		response, err := doer.Do(request)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, response.StatusCode)
		assert.NoError(t, response.Body.Close())

		if assert.NotNil(t, next.lastRequest) {
			assert.Equal(t, "127.0.0.1:8443", next.lastRequest.URL.Host)
			assert.Equal(t, "http", next.lastRequest.URL.Scheme)
			assert.Equal(t, "/api/gh/meza/covgate", next.lastRequest.URL.Path)
			assert.Equal(t, "branch=main", next.lastRequest.URL.RawQuery)
		}
		assert.Equal(t, "codecov.io", request.URL.Host)
		assert.Equal(t, 1, doer.Requests())
	})

	t.Run("passes through transport errors", func(t *testing.T) {
		doer := MustNewHostRewriteDoer("http://127.0.0.1:1", errorDoer{err: errors.New("refused")})
		request, err := http.NewRequest(http.MethodGet, "https://codecov.io/", nil)
		if !assert.NoError(t, err) {
			return
		}

		_, err = doer.Do(request)
		assert.EqualError(t, err, "refused")
	})
}

func TestMustNewHostRewriteDoer(t *testing.T) {
	t.Run("panics on invalid input", func(t *testing.T) {
		assert.Panics(t, func() {
			_ = MustNewHostRewriteDoer(":", errorDoer{err: errors.New("unused")})
		})
	})

	t.Run("returns doer on valid input", func(t *testing.T) {
		doer := MustNewHostRewriteDoer("https://example.com:8443", &recordingDoer{})
		assert.NotNil(t, doer)
		assert.Zero(t, doer.Requests())
	})
}
