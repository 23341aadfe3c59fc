// Package coverage decides whether a measured coverage percentage clears the gate.
package coverage

import (
	"strconv"
	"strings"
)

// DefaultThreshold is the minimum coverage a build needs when no override is given.
const DefaultThreshold = 65.0

type Percentage float64

func (percentage Percentage) String() string {
	return strconv.FormatFloat(float64(percentage), 'f', -1, 64)
}

type Verdict struct {
	Value     Percentage
	Threshold Percentage
	Passed    bool
}

// Evaluate passes only when value is strictly greater than threshold.
func Evaluate(value Percentage, threshold Percentage) Verdict {
	return Verdict{
		Value:     value,
		Threshold: threshold,
		Passed:    value > threshold,
	}
}

func (verdict Verdict) ExitCode() int {
	if verdict.Passed {
		return 0
	}
	return 1
}

// ParsePercentage ignores surrounding whitespace.
func ParsePercentage(raw string) (Percentage, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}
	return Percentage(value), nil
}
