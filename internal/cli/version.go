package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/teamcutter/xtract/internal/version"
)

// A file literally named "version" has no archive suffix, so the
// subcommand never shadows an extractable argument.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of xtract",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s%s%s%s%s%s%s\n", bold("xtract"), bold("-"), bold(version.Version),
				bold("-"), bold(runtime.GOOS), bold("/"), bold(runtime.GOARCH))
		},
	}
}
