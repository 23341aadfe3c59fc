package remote

import (
	"context"
	"fmt"
	"time"

	"github.com/meza/covgate/internal/coverage"
	"github.com/meza/covgate/internal/gate"
	"github.com/meza/covgate/internal/globalerrors"
	"github.com/meza/covgate/internal/httpclient"
	"github.com/meza/covgate/internal/i18n"
	"github.com/meza/covgate/internal/logger"
	"github.com/meza/covgate/internal/perf"
	"github.com/meza/covgate/internal/remote"
	"github.com/meza/covgate/internal/tui"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
)

const (
	strictFlag  = "strict"
	timeoutFlag = "timeout"
)

type remoteOptions struct {
	URL       string
	Threshold coverage.Percentage
	Strict    bool
	Timeout   time.Duration
}

type remoteDeps struct {
	logger   *logger.Logger
	client   httpclient.Doer
	check    checker
	colorize bool
}

type checker func(context.Context, httpclient.Doer, string) (remote.Result, error)

type remoteRunner func(context.Context, remoteOptions, remoteDeps) (int, error)

func Command() *cobra.Command {
	return commandWithRunner(runRemote)
}

func commandWithRunner(runner remoteRunner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remote <url>",
		Short: i18n.T("cmd.remote.short"),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, span := perf.StartSpan(cmd.Context(), "app.command.remote")
			defer span.End()

			globals, err := gate.ReadGlobalOptions(cmd)
			if err != nil {
				span.SetAttributes(attribute.Bool("success", false))
				return err
			}
			strict, err := cmd.Flags().GetBool(strictFlag)
			if err != nil {
				span.SetAttributes(attribute.Bool("success", false))
				return err
			}
			timeout, err := cmd.Flags().GetDuration(timeoutFlag)
			if err != nil {
				span.SetAttributes(attribute.Bool("success", false))
				return err
			}

			deps := remoteDeps{
				logger:   logger.New(cmd.OutOrStdout(), cmd.ErrOrStderr(), globals.Quiet, globals.Debug),
				client:   httpclient.NewClient(nil),
				check:    remote.Check,
				colorize: tui.IsTerminalWriter(cmd.OutOrStdout()),
			}

			exitCode, err := runner(ctx, remoteOptions{
				URL:       args[0],
				Threshold: globals.Threshold,
				Strict:    strict,
				Timeout:   timeout,
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

	cmd.Flags().Bool(strictFlag, false, i18n.T("flag.strict"))
	cmd.Flags().Duration(timeoutFlag, httpclient.DefaultRequestTimeout, i18n.T("flag.timeout"))

	return cmd
}

func runRemote(ctx context.Context, opts remoteOptions, deps remoteDeps) (int, error) {
	deps.logger.Debug(i18n.T("cmd.remote.debug.fetching", i18n.Vars{"url": opts.URL}))

	ctx, cancel := httpclient.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	result, err := deps.check(ctx, deps.client, opts.URL)
	if err != nil {
		return globalerrors.ExitCodeFor(err), err
	}

	if !result.Found {
		if opts.Strict {
			err := globalerrors.Wrap(globalerrors.MissingField, opts.URL, fmt.Errorf("%q is missing", result.MissingField))
			return globalerrors.ExitCodeFor(err), err
		}
		deps.logger.Warn(fmt.Sprintf("%s %s", tui.WarningIcon(deps.colorize), i18n.T("cmd.remote.missing_field", i18n.Vars{"field": result.MissingField})))
		return 0, nil
	}

	deps.logger.Log(i18n.T("cmd.remote.value", i18n.Vars{"coverage": result.Value.String()}), true)

	verdict := coverage.Evaluate(result.Value, opts.Threshold)
	return verdict.ExitCode(), gate.Enforce(deps.logger, verdict, deps.colorize)
}
