package version

import (
	"fmt"

	"github.com/meza/covgate/internal/constants"
	"github.com/meza/covgate/internal/environment"
	"github.com/meza/covgate/internal/i18n"
	"github.com/spf13/cobra"
)

func Command() *cobra.Command {
	versionCmd := &cobra.Command{
		Use: "version",
		Short: i18n.T("cmd.version.short", i18n.Vars{"appName": constants.AppName}),
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), environment.AppVersion())
		},
	}

	return versionCmd
}
