// Package cmd wires the piccolo binary's subcommands onto a cobra root
// command, following muster's cmd.Execute() / root.go split.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

var rootCmd = &cobra.Command{
	Use:   "piccolo",
	Short: "Vehicle-workload orchestration control plane",
	Long: `piccolo runs the Signal Filter Engine, Action Controller, and
Resource State Machine that activate vehicle workload Scenarios on
condition and drive them onto their target nodes.`,
	SilenceUsage: true,
}

// SetVersion sets the version string reported by --version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute runs the root command; called from main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "piccolo version %s\n" .Version}}`)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitCodeError)
	}
}
