package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	_ "github.com/joho/godotenv/autoload"
	"github.com/meza/covgate/cmd/covgate"
	"github.com/meza/covgate/internal/gate"
	"github.com/meza/covgate/internal/globalerrors"
	"github.com/meza/covgate/internal/lifecycle"
	"github.com/meza/covgate/internal/perf"
	"go.opentelemetry.io/otel/attribute"
)

const (
	perfLifecycleStartup  = "app.lifecycle.startup"
	perfLifecycleExecute  = "app.lifecycle.execute"
	perfLifecycleShutdown = "app.lifecycle.shutdown"
)

type shutdownTrigger string

const (
	shutdownTriggerExit   shutdownTrigger = "exit"
	shutdownTriggerSignal shutdownTrigger = "signal"
)

type runDeps struct {
	execute    func(context.Context) error
	register   func(lifecycle.Handler) lifecycle.HandlerID
	unregister func(lifecycle.HandlerID)
	args       []string
	stderr     io.Writer
}

func main() {
	os.Exit(runWithDeps(runDeps{
		execute:    covgate.Execute,
		register:   lifecycle.Register,
		unregister: lifecycle.Unregister,
		args:       os.Args[1:],
		stderr:     os.Stderr,
	}))
}

func runWithDeps(deps runDeps) int {
	perfEnabled := perfEnabledFromArgs(deps.args)
	if err := perf.Init(perf.Config{Enabled: perfEnabled}); err != nil {
		fmt.Fprintf(deps.stderr, "perf: %v\n", err)
	}

	ctx := context.Background()
	_, startupSpan := perf.StartSpan(ctx, perfLifecycleStartup)

	var shutdownOnce sync.Once
	shutdown := func(trigger shutdownTrigger, sig os.Signal) {
		shutdownOnce.Do(func() {
			_, shutdownSpan := perf.StartSpan(ctx, perfLifecycleShutdown,
				perf.WithAttributes(attribute.String("trigger", string(trigger))),
			)
			if sig != nil {
				shutdownSpan.SetAttributes(attribute.String("signal", sig.String()))
			}
			shutdownSpan.End()

			if perfEnabled {
				if err := perf.WriteReport(deps.stderr); err != nil {
					fmt.Fprintf(deps.stderr, "perf: %v\n", err)
				}
			}
			if err := perf.Shutdown(context.Background()); err != nil {
				fmt.Fprintf(deps.stderr, "perf: %v\n", err)
			}
		})
	}

	handlerID := deps.register(func(sig os.Signal) {
		shutdown(shutdownTriggerSignal, sig)
	})
	defer deps.unregister(handlerID)
	startupSpan.End()

	executeCtx, executeSpan := perf.StartSpan(ctx, perfLifecycleExecute)
	err := deps.execute(executeCtx)
	exitCode := globalerrors.ExitCodeFor(err)
	executeSpan.SetAttributes(attribute.Int("exit_code", exitCode))
	executeSpan.End()

	shutdown(shutdownTriggerExit, nil)
	return exitCode
}

// perfEnabledFromArgs looks for --perf before cobra parses anything so startup is traced too.
func perfEnabledFromArgs(args []string) bool {
	flag := "--" + gate.PerfFlag
	for _, arg := range args {
		if arg == "--" {
			return false
		}
		if arg == flag {
			return true
		}
		if value, ok := strings.CutPrefix(arg, flag+"="); ok {
			enabled, err := strconv.ParseBool(value)
			return err == nil && enabled
		}
	}
	return false
}
