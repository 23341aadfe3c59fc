// Package gate turns a coverage verdict into command output and an exit status.
package gate

import (
	"errors"
	"fmt"

	"github.com/meza/covgate/internal/coverage"
	"github.com/meza/covgate/internal/globalerrors"
	"github.com/meza/covgate/internal/i18n"
	"github.com/meza/covgate/internal/logger"
	"github.com/meza/covgate/internal/tui"
)

// ThresholdError reports a coverage value that did not clear the threshold. It maps to exit code 1.
type ThresholdError struct {
	Verdict coverage.Verdict
}

func (e *ThresholdError) Error() string {
	return fmt.Sprintf("coverage %s%% is not above the %s%% threshold", e.Verdict.Value, e.Verdict.Threshold)
}

func (e *ThresholdError) ExitCode() int {
	return e.Verdict.ExitCode()
}

// Enforce prints the verdict and returns a ThresholdError when it failed.
func Enforce(log *logger.Logger, verdict coverage.Verdict, colorize bool) error {
	vars := i18n.Vars{
		"coverage":  verdict.Value.String(),
		"threshold": verdict.Threshold.String(),
	}

	if verdict.Passed {
		log.Log(fmt.Sprintf("%s %s", tui.SuccessIcon(colorize), i18n.T("gate.passed", vars)), true)
		return nil
	}

	log.Log(fmt.Sprintf("%s %s", tui.ErrorIcon(colorize), i18n.T("gate.failed", vars)), true)
	return &ThresholdError{Verdict: verdict}
}

var failureHints = []struct {
	kind globalerrors.Kind
	key  string
}{
	{kind: globalerrors.FileNotFound, key: "error.hint.file_not_found"},
	{kind: globalerrors.MissingField, key: "error.hint.missing_field"},
}

// ReportFailure prints a failed run's error on stderr, plus a hint for the kinds that have one.
// ThresholdErrors are skipped because Enforce already printed the verdict.
func ReportFailure(log *logger.Logger, err error, colorize bool) {
	if err == nil {
		return
	}
	var thresholdErr *ThresholdError
	if errors.As(err, &thresholdErr) {
		return
	}

	log.Error(fmt.Sprintf("%s %s", tui.ErrorIcon(colorize), err.Error()))
	for _, hint := range failureHints {
		if globalerrors.IsKind(err, hint.kind) {
			log.Error(tui.Dim(i18n.T(hint.key), colorize))
		}
	}
}
