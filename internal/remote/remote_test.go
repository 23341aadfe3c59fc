package remote

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/meza/covgate/internal/coverage"
	"github.com/meza/covgate/internal/globalerrors"
	"github.com/stretchr/testify/assert"
	"shanhu.io/g/https/httpstest"
)

const summaryURL = "https://codecov.io/api/gh/meza/covgate/commits"

type doerFunc func(*http.Request) (*http.Response, error)

func (doer doerFunc) Do(req *http.Request) (*http.Response, error) {
	return doer(req)
}

type failingBody struct{}

func (failingBody) Read([]byte) (int, error) { return 0, errors.New("connection reset") }
func (failingBody) Close() error             { return nil }

func writeResponse(t *testing.T, writer http.ResponseWriter, payload string) {
	t.Helper()
	if _, err := writer.Write([]byte(payload)); err != nil {
		t.Fatalf("failed to write response: %v", err)
	}
}

func newSummaryServer(t *testing.T, status int, payload string) *httpstest.Server {
	t.Helper()
	server, err := httpstest.NewServer([]string{
		"codecov.io",
	}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/gh/meza/covgate/commits" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodGet {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		w.WriteHeader(status)
		writeResponse(t, w, payload)
	}))
	if err != nil {
		t.Fatalf("failed to start server: %v", err)
	}
	t.Cleanup(func() { server.Close() })
	return server
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    Result
	}{
		{
			name:    "string coverage above threshold",
			payload: `{"commits":[{"totals":{"c":"70"}}]}`,
			want:    Result{Value: 70, Found: true},
		},
		{
			name:    "string coverage below threshold",
			payload: `{"commits":[{"totals":{"c":"60"}}]}`,
			want:    Result{Value: 60, Found: true},
		},
		{
			name:    "numeric coverage",
			payload: `{"commits":[{"totals":{"c":81.25,"n":12}},{"totals":{"c":"10"}}]}`,
			want:    Result{Value: 81.25, Found: true},
		},
		{
			name:    "padded string coverage",
			payload: `{"commits":[{"totals":{"c":" 70 "}}]}`,
			want:    Result{Value: 70, Found: true},
		},
		{
			name:    "repeated c keeps the last value",
			payload: `{"commits":[{"totals":{"c":"60","c":"70"}}]}`,
			want:    Result{Value: 70, Found: true},
		},
		{
			name:    "repeated totals keeps the last object",
			payload: `{"commits":[{"totals":{"c":"90"},"totals":{}}]}`,
			want:    Result{MissingField: CoverageField},
		},
		{
			name:    "repeated commits keeps the last array",
			payload: `{"commits":[{"totals":{"c":"10"}}],"commits":[{"totals":{"c":"80"}}]}`,
			want:    Result{Value: 80, Found: true},
		},
		{
			name:    "commits is not an array",
			payload: `{"commits":{"totals":{"c":"70"}}}`,
			want:    Result{MissingField: CommitsField},
		},
		{
			name:    "first commit is not an object",
			payload: `{"commits":["abc"]}`,
			want:    Result{MissingField: TotalsField},
		},
		{
			name:    "missing c",
			payload: `{"commits":[{"totals":{}}]}`,
			want:    Result{MissingField: CoverageField},
		},
		{
			name:    "missing totals",
			payload: `{"commits":[{"commitid":"abc"}]}`,
			want:    Result{MissingField: TotalsField},
		},
		{
			name:    "empty commits",
			payload: `{"commits":[]}`,
			want:    Result{MissingField: CommitsField},
		},
		{
			name:    "no commits key",
			payload: `{"repo":"covgate"}`,
			want:    Result{MissingField: CommitsField},
		},
		{
			name:    "empty object",
			payload: `{}`,
			want:    Result{MissingField: CommitsField},
		},
		{
			name:    "empty array",
			payload: `[]`,
			want:    Result{MissingField: CommitsField},
		},
		{
			name:    "scalar document",
			payload: `42`,
			want:    Result{MissingField: CommitsField},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.payload))
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRejectsInvalidJSON(t *testing.T) {
	_, err := Parse([]byte(`{"commits": [`))
	assert.ErrorContains(t, err, "not valid JSON")
}

func TestParseRejectsInvalidUTF8(t *testing.T) {
	_, err := Parse([]byte{'"', 0xff, 0xfe, '"'})
	assert.ErrorContains(t, err, "not valid UTF-8")
}

func TestParseRejectsNonNumericCoverage(t *testing.T) {
	_, err := Parse([]byte(`{"commits":[{"totals":{"c":"n/a"}}]}`))
	assert.ErrorContains(t, err, `coverage value "n/a" is not a number`)

	_, err = Parse([]byte(`{"commits":[{"totals":{"c":null}}]}`))
	assert.ErrorContains(t, err, "coverage value null is not a number")
}

func TestCheck(t *testing.T) {
	server := newSummaryServer(t, http.StatusOK, `{"commits":[{"totals":{"c":"72.50"}}]}`)

	result, err := Check(context.Background(), server.Client(), summaryURL)
	assert.NoError(t, err)
	assert.True(t, result.Found)
	assert.Equal(t, coverage.Percentage(72.5), result.Value)
}

func TestCheckMalformedJSON(t *testing.T) {
	server := newSummaryServer(t, http.StatusOK, `<html>not json</html>`)

	_, err := Check(context.Background(), server.Client(), summaryURL)
	assert.True(t, globalerrors.IsKind(err, globalerrors.MalformedJSON))
	assert.Equal(t, 6, globalerrors.ExitCodeFor(err))
}

func TestCheckUnexpectedStatus(t *testing.T) {
	server := newSummaryServer(t, http.StatusNotFound, `{"error":"not found"}`)

	_, err := Check(context.Background(), server.Client(), summaryURL)
	assert.True(t, globalerrors.IsKind(err, globalerrors.NetworkFailure))
	assert.ErrorContains(t, err, "unexpected status code: 404")
}

func TestFetchTransportError(t *testing.T) {
	client := doerFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("dial tcp: connection refused")
	})

	_, err := Fetch(context.Background(), client, summaryURL)
	assert.True(t, globalerrors.IsKind(err, globalerrors.NetworkFailure))
	assert.ErrorContains(t, err, "connection refused")
}

func TestFetchInvalidURL(t *testing.T) {
	client := doerFunc(func(*http.Request) (*http.Response, error) {
		t.Fatal("request should not be sent")
		return nil, nil
	})

	_, err := Fetch(context.Background(), client, "://missing-scheme")
	assert.True(t, globalerrors.IsKind(err, globalerrors.NetworkFailure))
}

func TestFetchBodyReadError(t *testing.T) {
	client := doerFunc(func(*http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: http.StatusOK, Body: failingBody{}}, nil
	})

	_, err := Fetch(context.Background(), client, summaryURL)
	assert.True(t, globalerrors.IsKind(err, globalerrors.NetworkFailure))
	assert.ErrorContains(t, err, "failed to read response body")
}
