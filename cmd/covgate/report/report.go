package report

import (
	"context"

	"github.com/meza/covgate/internal/coverage"
	"github.com/meza/covgate/internal/gate"
	"github.com/meza/covgate/internal/globalerrors"
	"github.com/meza/covgate/internal/i18n"
	"github.com/meza/covgate/internal/logger"
	"github.com/meza/covgate/internal/perf"
	"github.com/meza/covgate/internal/report"
	"github.com/meza/covgate/internal/tui"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
)

type reportOptions struct {
	Path      string
	Threshold coverage.Percentage
}

type reportDeps struct {
	fs       afero.Fs
	logger   *logger.Logger
	read     reader
	colorize bool
}

type reader func(context.Context, afero.Fs, string) (report.Result, error)

type reportRunner func(context.Context, reportOptions, reportDeps) (int, error)

func Command() *cobra.Command {
	return commandWithRunner(runReport)
}

func commandWithRunner(runner reportRunner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <file-path>",
		Short: i18n.T("cmd.report.short"),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, span := perf.StartSpan(cmd.Context(), "app.command.report")
			defer span.End()

			globals, err := gate.ReadGlobalOptions(cmd)
			if err != nil {
				span.SetAttributes(attribute.Bool("success", false))
				return err
			}

			deps := reportDeps{
				fs:       afero.NewOsFs(),
				logger:   logger.New(cmd.OutOrStdout(), cmd.ErrOrStderr(), globals.Quiet, globals.Debug),
				read:     report.ReadFile,
				colorize: tui.IsTerminalWriter(cmd.OutOrStdout()),
			}

			exitCode, err := runner(ctx, reportOptions{
				Path:      args[0],
				Threshold: globals.Threshold,
			}, deps)

			span.SetAttributes(
				attribute.Bool("success", err == nil),
				attribute.Int("exit_code", exitCode),
			)

			if err != nil {
				cmd.SilenceUsage = true
				cmd.SilenceErrors = true
				gate.ReportFailure(deps.logger, err, deps.colorize)
			}
			return err
		},
	}

	return cmd
}

func runReport(ctx context.Context, opts reportOptions, deps reportDeps) (int, error) {
	deps.logger.Debug(i18n.T("cmd.report.debug.reading", i18n.Vars{"path": opts.Path}))

	result, err := deps.read(ctx, deps.fs, opts.Path)
	if err != nil {
		return globalerrors.ExitCodeFor(err), err
	}

	deps.logger.Log(tui.Dim(i18n.T("cmd.report.line", i18n.Vars{"line": result.Line}), deps.colorize), true)
	deps.logger.Log(i18n.T("cmd.report.value", i18n.Vars{"coverage": result.Value.String()}), true)

	verdict := coverage.Evaluate(result.Value, opts.Threshold)
	return verdict.ExitCode(), gate.Enforce(deps.logger, verdict, deps.colorize)
}
