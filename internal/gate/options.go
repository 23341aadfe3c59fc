package gate

import (
	"strconv"

	"github.com/meza/covgate/internal/coverage"
	"github.com/meza/covgate/internal/environment"
	"github.com/meza/covgate/internal/i18n"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const (
	QuietFlag     = "quiet"
	DebugFlag     = "debug"
	ThresholdFlag = "threshold"
	PerfFlag      = "perf"
)

// GlobalOptions are the persistent flags every checker reads.
type GlobalOptions struct {
	Quiet     bool
	Debug     bool
	Threshold coverage.Percentage
}

func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolP(QuietFlag, "q", false, i18n.T("flag.quiet"))
	cmd.PersistentFlags().BoolP(DebugFlag, "d", false, i18n.T("flag.debug"))
	cmd.PersistentFlags().Float64P(ThresholdFlag, "t", coverage.DefaultThreshold, i18n.T("flag.threshold"))
	cmd.PersistentFlags().Bool(PerfFlag, false, i18n.T("flag.perf"))
}

// ReadGlobalOptions reads the persistent flags. An explicit --threshold wins over COVGATE_THRESHOLD.
func ReadGlobalOptions(cmd *cobra.Command) (GlobalOptions, error) {
	quiet, err := cmd.Flags().GetBool(QuietFlag)
	if err != nil {
		return GlobalOptions{}, err
	}
	debug, err := cmd.Flags().GetBool(DebugFlag)
	if err != nil {
		return GlobalOptions{}, err
	}
	threshold, err := cmd.Flags().GetFloat64(ThresholdFlag)
	if err != nil {
		return GlobalOptions{}, err
	}

	if !cmd.Flags().Changed(ThresholdFlag) {
		if raw, ok := environment.ThresholdOverride(); ok {
			threshold, err = strconv.ParseFloat(raw, 64)
			if err != nil {
				return GlobalOptions{}, errors.New(i18n.T("error.invalid_threshold", i18n.Vars{"value": raw}))
			}
		}
	}

	return GlobalOptions{
		Quiet:     quiet,
		Debug:     debug,
		Threshold: coverage.Percentage(threshold),
	}, nil
}
