package tui

import (
	"io"

	"golang.org/x/term"
)

type fdWriter interface {
	Fd() uintptr
}

var isTerminalFunc = term.IsTerminal

// SetIsTerminalFuncForTesting overrides the terminal detection function and returns a restore function.
func SetIsTerminalFuncForTesting(fn func(int) bool) func() {
	previous := isTerminalFunc
	isTerminalFunc = fn
	return func() {
		isTerminalFunc = previous
	}
}

// IsTerminalWriter reports whether the writer wraps a file descriptor bound to a terminal.
func IsTerminalWriter(writer io.Writer) bool {
	if w, ok := writer.(fdWriter); ok {
		return isTerminalFunc(int(w.Fd()))
	}
	return false
}

// TerminalWidth returns the writer's terminal width, or 0 when it is not a terminal.
func TerminalWidth(writer io.Writer) int {
	w, ok := writer.(fdWriter)
	if !ok || !isTerminalFunc(int(w.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(w.Fd()))
	if err != nil {
		return 0
	}
	return width
}
