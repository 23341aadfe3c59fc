package globalerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGateErrorMessage(t *testing.T) {
	err := Wrap(FileNotFound, "coverage.txt", errors.New("open coverage.txt: no such file"))
	assert.Equal(t, "file not found: coverage.txt: open coverage.txt: no such file", err.Error())

	bare := &GateError{Kind: MissingField, Source: "commits"}
	assert.Equal(t, "missing field: commits", bare.Error())
}

func TestGateErrorIs(t *testing.T) {
	err := Wrap(MalformedJSON, "https://example.com", errors.New("boom"))

	assert.True(t, errors.Is(err, &GateError{Kind: MalformedJSON, Source: "https://example.com"}))
	assert.False(t, errors.Is(err, &GateError{Kind: MalformedJSON, Source: "https://other.example.com"}))
	assert.False(t, errors.Is(err, &GateError{Kind: NetworkFailure, Source: "https://example.com"}))
	assert.False(t, errors.Is(err, errors.New("boom")))
}

func TestGateErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(NetworkFailure, "https://example.com", cause)

	assert.ErrorIs(t, err, cause)
}

func TestDistinctExitCodes(t *testing.T) {
	seen := map[int]Kind{}
	for _, kind := range []Kind{FileNotFound, MalformedReport, NetworkFailure, MalformedJSON, MissingField} {
		code := kind.ExitCode()
		assert.NotEqual(t, 0, code, kind.String())
		assert.NotEqual(t, 1, code, kind.String())
		_, duplicate := seen[code]
		assert.False(t, duplicate, "exit code %d reused by %s", code, kind)
		seen[code] = kind
	}
}

func TestUnknownKind(t *testing.T) {
	assert.Equal(t, "unknown", Kind(99).String())
	assert.Equal(t, UnknownExitCode, Kind(99).ExitCode())
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("checking: %w", Wrap(MalformedReport, "report.txt", nil))

	assert.True(t, IsKind(err, MalformedReport))
	assert.False(t, IsKind(err, FileNotFound))
	assert.False(t, IsKind(errors.New("plain"), MalformedReport))
}

type codedError struct{ code int }

func (e codedError) Error() string { return "coded" }
func (e codedError) ExitCode() int { return e.code }

func TestExitCodeFor(t *testing.T) {
	assert.Equal(t, 0, ExitCodeFor(nil))
	assert.Equal(t, 4, ExitCodeFor(Wrap(MalformedReport, "report.txt", nil)))
	assert.Equal(t, 1, ExitCodeFor(fmt.Errorf("wrapped: %w", codedError{code: 1})))
	assert.Equal(t, UnknownExitCode, ExitCodeFor(errors.New("plain")))
}
