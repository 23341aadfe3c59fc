package covgate

import (
	"context"
	"fmt"
	"strings"

	"github.com/meza/covgate/cmd/covgate/remote"
	"github.com/meza/covgate/cmd/covgate/report"
	"github.com/meza/covgate/cmd/covgate/version"
	"github.com/meza/covgate/internal/constants"
	"github.com/meza/covgate/internal/environment"
	"github.com/meza/covgate/internal/gate"
	"github.com/meza/covgate/internal/i18n"
	"github.com/meza/covgate/internal/lifecycle"
	"github.com/meza/covgate/internal/tui"
	"github.com/spf13/cobra"
)

func Command() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     constants.CommandName,
		Short:   i18n.T("app.description"),
		Version: environment.AppVersion(),
	}
	cobra.MousetrapHelpText = "" // allow the app to run in windows by clicking the exe

	rootCmd.SetVersionTemplate("{{.Version}}\n")
	gate.AddGlobalFlags(rootCmd)
	rootCmd.AddCommand(report.Command())
	rootCmd.AddCommand(remote.Command())
	rootCmd.AddCommand(version.Command())

	translateDefaultHelpFacilities(rootCmd)
	fixFlagUsageAlignment(rootCmd)

	return rootCmd
}

func translateDefaultHelpFacilities(rootCmd *cobra.Command) {
	subcommands := rootCmd.Commands()
	allCommands := make([]*cobra.Command, 0, len(subcommands)+1)
	allCommands = append(allCommands, rootCmd)
	allCommands = append(allCommands, subcommands...)

	for _, cmd := range allCommands {
		cmd.InitDefaultHelpFlag()
		cmd.Flags().Lookup("help").Usage = i18n.T("cmd.help.template", i18n.Vars{"command": cmd.Name()})
	}

	rootCmd.InitDefaultHelpCmd()
	helpCmd, _, err := rootCmd.Find([]string{"help"})
	if err != nil || helpCmd == rootCmd {
		return
	}

	helpCmd.Short = i18n.T("cmd.help.usage.short")
	helpCmd.Long = i18n.T("cmd.help.usage.long", i18n.Vars{"appName": rootCmd.Name()})
	helpCmd.Run = func(helpCommand *cobra.Command, args []string) {
		target, _, findErr := helpCommand.Root().Find(args)
		if target == nil || findErr != nil {
			helpCommand.PrintErrln(i18n.T("cmd.help.error", i18n.Vars{"topic": fmt.Sprintf("%#q", args)}) + "\n")
			cobra.CheckErr(helpCommand.Root().Usage())
			return
		}
		target.InitDefaultHelpFlag()
		target.InitDefaultVersionFlag()
		cobra.CheckErr(target.Help())
	}
}

func fixFlagUsageAlignment(rootCmd *cobra.Command) {
	width := tui.TerminalWidth(rootCmd.OutOrStdout())
	usageTemplate := rootCmd.UsageTemplate()
	usageTemplate = strings.ReplaceAll(usageTemplate, ".FlagUsages", fmt.Sprintf(".FlagUsagesWrapped %d", width))
	rootCmd.SetUsageTemplate(usageTemplate)
}

// Execute runs the command tree with a context that is cancelled on SIGINT or SIGTERM.
func Execute(ctx context.Context) error {
	ctx, stop := lifecycle.Context(ctx)
	defer stop()
	return Command().ExecuteContext(ctx)
}
