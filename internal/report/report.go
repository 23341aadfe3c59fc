// Package report extracts the coverage percentage from a local text coverage report.
package report

import (
	"context"
	"io"
	"regexp"

	"github.com/meza/covgate/internal/coverage"
	"github.com/meza/covgate/internal/fileutils"
	"github.com/meza/covgate/internal/globalerrors"
	"github.com/meza/covgate/internal/perf"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.opentelemetry.io/otel/attribute"
)

const (
	// SummaryLineIndex is the zero-based line holding the totals.
	SummaryLineIndex = 2
	// SummaryTokenIndex is the zero-based numeric token on that line holding the percentage.
	SummaryTokenIndex = 2
)

var (
	numericToken = regexp.MustCompile(`[-+]?\d*\.\d+|\d+`)
	lineBreak    = regexp.MustCompile(`\r\n|\r|\n`)
)

type Result struct {
	Line  string
	Value coverage.Percentage
}

// ReadFile opens path on filesystem and extracts the coverage from its summary line.
func ReadFile(ctx context.Context, filesystem afero.Fs, path string) (Result, error) {
	_, span := perf.StartSpan(ctx, "report.read",
		perf.WithAttributes(attribute.String("path", path)),
	)
	defer span.End()

	if !fileutils.FileExists(path, filesystem) {
		span.SetAttributes(attribute.Bool("success", false))
		return Result{}, globalerrors.Wrap(globalerrors.FileNotFound, path, nil)
	}

	content, err := afero.ReadFile(filesystem, path)
	if err != nil {
		span.SetAttributes(attribute.Bool("success", false))
		return Result{}, globalerrors.Wrap(globalerrors.MalformedReport, path, errors.Wrap(err, "failed to read report"))
	}

	result, err := Summary(string(content))
	if err != nil {
		span.SetAttributes(attribute.Bool("success", false))
		return Result{}, globalerrors.Wrap(globalerrors.MalformedReport, path, err)
	}

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Float64("coverage", float64(result.Value)),
	)
	return result, nil
}

// Extract reads the whole report from reader and parses it with Summary.
func Extract(reader io.Reader) (Result, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return Result{}, errors.Wrap(err, "failed to read report")
	}
	return Summary(string(content))
}

// Summary takes the third numeric token of the third line. Lines end at "\r\n", "\r" or "\n".
func Summary(content string) (Result, error) {
	lines := Lines(content)
	if len(lines) <= SummaryLineIndex {
		return Result{}, errors.Errorf("expected at least %d lines, found %d", SummaryLineIndex+1, len(lines))
	}
	line := lines[SummaryLineIndex]

	tokens := NumericTokens(line)
	if len(tokens) <= SummaryTokenIndex {
		return Result{}, errors.Errorf("expected at least %d numeric values on line %d, found %d", SummaryTokenIndex+1, SummaryLineIndex+1, len(tokens))
	}

	value, err := coverage.ParsePercentage(tokens[SummaryTokenIndex])
	if err != nil {
		return Result{}, errors.Wrapf(err, "invalid coverage value %q", tokens[SummaryTokenIndex])
	}

	return Result{
		Line:  line,
		Value: value,
	}, nil
}

// Lines splits content on any line ending. A final line ending does not start another line.
func Lines(content string) []string {
	if content == "" {
		return nil
	}
	lines := lineBreak.Split(content, -1)
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func NumericTokens(line string) []string {
	return numericToken.FindAllString(line, -1)
}
