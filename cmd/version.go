package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the piccolo version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("piccolo version %s\n", GetVersion())
	},
}

// GetVersion returns the version injected by SetVersion.
func GetVersion() string {
	return rootCmd.Version
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
