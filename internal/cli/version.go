package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	appver "lchat/internal/version"
)

var versionShort bool

func init() {
	versionCmd.Flags().BoolVarP(&versionShort, "short", "s", false, "print only the version number")
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print lchat version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if versionShort {
			_, err := fmt.Fprintln(out, appver.AppVersion)
			return err
		}
		_, err := fmt.Fprintf(out, "lchat %s (%s, %s/%s)\n", appver.AppVersion, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		return err
	},
}
