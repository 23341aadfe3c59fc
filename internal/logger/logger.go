// Package logger writes command output, honouring --quiet and --debug.
package logger

import (
	"fmt"
	"io"
)

type Logger struct {
	out   io.Writer
	err   io.Writer
	quiet bool
	debug bool
}

func New(out io.Writer, err io.Writer, quiet bool, debug bool) *Logger {
	return &Logger{
		out:   out,
		err:   err,
		quiet: quiet,
		debug: debug,
	}
}

// Log writes to stdout unless quiet. forceShow overrides quiet for results the user must see.
func (logger *Logger) Log(message string, forceShow bool) {
	if logger.quiet && !forceShow && !logger.debug {
		return
	}
	if _, err := fmt.Fprintln(logger.out, message); err != nil {
		return
	}
}

func (logger *Logger) Debug(message string) {
	if !logger.debug {
		return
	}
	if _, err := fmt.Fprintln(logger.out, message); err != nil {
		return
	}
}

// Warn goes to stderr and is suppressed by quiet.
func (logger *Logger) Warn(message string) {
	if logger.quiet && !logger.debug {
		return
	}
	if _, err := fmt.Fprintln(logger.err, message); err != nil {
		return
	}
}

// Error always reaches stderr, even when quiet.
func (logger *Logger) Error(message string) {
	if _, err := fmt.Fprintln(logger.err, message); err != nil {
		return
	}
}
