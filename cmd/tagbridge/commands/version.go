package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simonhull/tagbridge"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			info := tagbridge.GetVersionInfo()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "tagbridge %s\n", info.Version)
			fmt.Fprintf(out, "  revision:   %s", info.Revision)
			if info.Modified {
				fmt.Fprint(out, " (modified)")
			}
			fmt.Fprintln(out)
			fmt.Fprintf(out, "  build time: %s\n", info.BuildTime)
			fmt.Fprintf(out, "  go:         %s\n", info.GoVersion)
		},
	}
}
