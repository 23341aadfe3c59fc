// Package httpclient provides the traced HTTP client used for remote coverage lookups.
package httpclient

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/meza/covgate/internal/constants"
	"github.com/meza/covgate/internal/environment"
	"github.com/meza/covgate/internal/perf"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
)

type Doer interface {
	Do(request *http.Request) (*http.Response, error)
}

// Client sends each request exactly once. Failed requests are not retried.
type Client struct {
	client    *http.Client
	userAgent string
}

// NewClient wraps transport with otelhttp. A nil transport means http.DefaultTransport.
func NewClient(transport http.RoundTripper) *Client {
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &Client{
		client: &http.Client{
			Transport: otelhttp.NewTransport(transport),
		},
		userAgent: fmt.Sprintf("%s/%s", constants.AppName, environment.AppVersion()),
	}
}

func (client *Client) Do(request *http.Request) (*http.Response, error) {
	ctx, requestSpan := perf.StartSpan(request.Context(), "net.http.request",
		perf.WithAttributes(
			attribute.String("url", request.URL.String()),
			attribute.String("method", request.Method),
			attribute.String("host", request.URL.Host),
		),
	)
	defer requestSpan.End()

	outgoing := request.Clone(ctx)
	if outgoing.Header.Get("User-Agent") == "" {
		outgoing.Header.Set("User-Agent", client.userAgent)
	}

	response, err := client.client.Do(outgoing)
	if err != nil {
		requestSpan.SetAttributes(
			attribute.Bool("success", false),
			attribute.String("error_type", fmt.Sprintf("%T", err)),
		)
		return nil, WrapTimeoutError(err)
	}

	requestSpan.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("status", response.StatusCode),
	)
	return response, nil
}

// DrainAndClose empties the body so the connection can be reused, then closes it.
func DrainAndClose(body io.ReadCloser) error {
	if body == nil {
		return nil
	}

	_, readErr := io.Copy(io.Discard, body)
	closeErr := body.Close()
	if readErr != nil && closeErr != nil {
		return errors.Join(readErr, closeErr)
	}
	if readErr != nil {
		return readErr
	}
	return closeErr
}
