// Package testutil holds shared test helpers.
package testutil

import (
	"net/http"
	"net/url"
	"sync/atomic"

	"github.com/meza/covgate/internal/httpclient"
	"github.com/pkg/errors"
)

// HostRewriteDoer sends every request to a local test server while keeping the
// path and query the caller asked for.
type HostRewriteDoer struct {
	base     *url.URL
	next     httpclient.Doer
	requests atomic.Int64
}

func NewHostRewriteDoer(serverURL string, next httpclient.Doer) (*HostRewriteDoer, error) {
	if next == nil {
		return nil, errors.New("next doer is nil")
	}

	base, err := url.Parse(serverURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse server url")
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, errors.Errorf("server url %q must include scheme and host", serverURL)
	}

	return &HostRewriteDoer{
		base: base,
		next: next,
	}, nil
}

func MustNewHostRewriteDoer(serverURL string, next httpclient.Doer) *HostRewriteDoer {
	doer, err := NewHostRewriteDoer(serverURL, next)
	if err != nil {
		panic(err)
	}
	return doer
}

func (doer *HostRewriteDoer) Do(request *http.Request) (*http.Response, error) {
	doer.requests.Add(1)
	cloned := request.Clone(request.Context())
	cloned.URL.Scheme = doer.base.Scheme
	cloned.URL.Host = doer.base.Host
	cloned.Host = doer.base.Host
	return doer.next.Do(cloned)
}

// Requests reports how many requests went through the doer.
func (doer *HostRewriteDoer) Requests() int {
	return int(doer.requests.Load())
}
