// Package globalerrors defines the error kinds shared by both checkers and their exit codes.
package globalerrors

import (
	"errors"
	"fmt"
)

type Kind int

const (
	FileNotFound Kind = iota + 1
	MalformedReport
	NetworkFailure
	MalformedJSON
	MissingField
)

// UnknownExitCode is used for errors that carry no exit code of their own.
const UnknownExitCode = 2

var kindNames = map[Kind]string{
	FileNotFound:    "file not found",
	MalformedReport: "malformed report",
	NetworkFailure:  "network failure",
	MalformedJSON:   "malformed json",
	MissingField:    "missing field",
}

var kindExitCodes = map[Kind]int{
	FileNotFound:    3,
	MalformedReport: 4,
	NetworkFailure:  5,
	MalformedJSON:   6,
	MissingField:    7,
}

func (kind Kind) String() string {
	if name, ok := kindNames[kind]; ok {
		return name
	}
	return "unknown"
}

func (kind Kind) ExitCode() int {
	if code, ok := kindExitCodes[kind]; ok {
		return code
	}
	return UnknownExitCode
}

type ExitCoder interface {
	ExitCode() int
}

type GateError struct {
	Kind   Kind
	Source string
	Err    error
}

func (e *GateError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Source)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Source, e.Err)
}

func (e *GateError) Is(target error) bool {
	t, ok := target.(*GateError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Source == t.Source
}

func (e *GateError) Unwrap() error {
	return e.Err
}

func (e *GateError) ExitCode() int {
	return e.Kind.ExitCode()
}

func Wrap(kind Kind, source string, err error) error {
	return &GateError{
		Kind:   kind,
		Source: source,
		Err:    err,
	}
}

// IsKind reports whether any GateError in the chain has the given kind.
func IsKind(err error, kind Kind) bool {
	var gateErr *GateError
	if !errors.As(err, &gateErr) {
		return false
	}
	return gateErr.Kind == kind
}

// ExitCodeFor maps an error to the process exit status. nil is success.
func ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	var coder ExitCoder
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return UnknownExitCode
}
