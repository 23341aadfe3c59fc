// Package remote reads the latest commit coverage from a remote coverage service's JSON summary.
package remote

import (
	"context"
	"io"
	"net/http"
	"unicode/utf8"

	"github.com/meza/covgate/internal/coverage"
	"github.com/meza/covgate/internal/globalerrors"
	"github.com/meza/covgate/internal/httpclient"
	"github.com/meza/covgate/internal/perf"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"
)

const (
	CommitsField  = "commits"
	TotalsField   = "totals"
	CoverageField = "c"
)

// Result is the outcome of reading a summary. When Found is false, MissingField names
// the first guarded field that was absent and Value is meaningless.
type Result struct {
	Value        coverage.Percentage
	Found        bool
	MissingField string
}

// Check fetches url and reads the latest commit coverage from the response.
func Check(ctx context.Context, client httpclient.Doer, url string) (Result, error) {
	ctx, span := perf.StartSpan(ctx, "remote.check",
		perf.WithAttributes(attribute.String("url", url)),
	)
	defer span.End()

	body, err := Fetch(ctx, client, url)
	if err != nil {
		span.SetAttributes(attribute.Bool("success", false))
		return Result{}, err
	}

	result, err := Parse(body)
	if err != nil {
		span.SetAttributes(attribute.Bool("success", false))
		return Result{}, globalerrors.Wrap(globalerrors.MalformedJSON, url, err)
	}

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Bool("found", result.Found),
	)
	return result, nil
}

func Fetch(ctx context.Context, client httpclient.Doer, url string) ([]byte, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, globalerrors.Wrap(globalerrors.NetworkFailure, url, errors.Wrap(err, "invalid request"))
	}

	response, err := client.Do(request)
	if err != nil {
		return nil, globalerrors.Wrap(globalerrors.NetworkFailure, url, err)
	}

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		_ = httpclient.DrainAndClose(response.Body) // #nosec G104 -- the status is what gets reported.
		return nil, globalerrors.Wrap(globalerrors.NetworkFailure, url, errors.Errorf("unexpected status code: %d", response.StatusCode))
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, globalerrors.Wrap(globalerrors.NetworkFailure, url, errors.Wrap(err, "failed to read response body"))
	}
	return body, nil
}

// Parse walks commits[0].totals.c. Absent guarded fields are not an error; they yield Found == false.
func Parse(body []byte) (Result, error) {
	if !utf8.Valid(body) {
		return Result{}, errors.New("response body is not valid UTF-8")
	}
	if !gjson.ValidBytes(body) {
		return Result{}, errors.New("response body is not valid JSON")
	}

	document := gjson.ParseBytes(body)
	if isEmptyCollection(document) {
		return Result{MissingField: CommitsField}, nil
	}

	commits := lastMember(document, CommitsField)
	if !commits.IsArray() || len(commits.Array()) == 0 {
		return Result{MissingField: CommitsField}, nil
	}

	totals := lastMember(commits.Array()[0], TotalsField)
	if !totals.Exists() {
		return Result{MissingField: TotalsField}, nil
	}

	value := lastMember(totals, CoverageField)
	if !value.Exists() {
		return Result{MissingField: CoverageField}, nil
	}

	percentage, err := toPercentage(value)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Value: percentage,
		Found: true,
	}, nil
}

func isEmptyCollection(document gjson.Result) bool {
	if !document.IsObject() && !document.IsArray() {
		return true
	}
	empty := true
	document.ForEach(func(_, _ gjson.Result) bool {
		empty = false
		return false
	})
	return empty
}

// lastMember returns the value of the final occurrence of key in object.
func lastMember(object gjson.Result, key string) gjson.Result {
	if !object.IsObject() {
		return gjson.Result{}
	}
	var member gjson.Result
	object.ForEach(func(name, value gjson.Result) bool {
		if name.String() == key {
			member = value
		}
		return true
	})
	return member
}

func toPercentage(value gjson.Result) (coverage.Percentage, error) {
	switch value.Type {
	case gjson.Number:
		return coverage.Percentage(value.Float()), nil
	case gjson.String:
		percentage, err := coverage.ParsePercentage(value.Str)
		if err != nil {
			return 0, errors.Wrapf(err, "coverage value %q is not a number", value.Str)
		}
		return percentage, nil
	default:
		return 0, errors.Errorf("coverage value %s is not a number", value.Raw)
	}
}
