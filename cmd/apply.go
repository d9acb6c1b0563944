package cmd

import (
	"fmt"
	"io"
	"os"

	"piccolo/internal/cli"

	"github.com/spf13/cobra"
)

var applyDaemonURL string

var applyCmd = &cobra.Command{
	Use:   "apply [file]",
	Short: "Submit an artifact bundle to the running daemon",
	Long: `apply reads a YAML bundle document (a Scenario, a Package, and
its Models) from file, or from stdin if file is omitted, and posts it to
the daemon's artifact-submission endpoint.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runApply,
}

func runApply(cmd *cobra.Command, args []string) error {
	body, err := readBundleInput(args)
	if err != nil {
		return err
	}

	client := cli.NewClient(applyDaemonURL)
	result, err := client.Apply(baseContext(cmd), body)
	if err != nil {
		return fmt.Errorf("apply failed: %w", err)
	}

	fmt.Printf("scenario %q applied\n", result.Scenario)
	return nil
}

func readBundleInput(args []string) ([]byte, error) {
	if len(args) == 1 {
		return os.ReadFile(args[0])
	}
	return io.ReadAll(os.Stdin)
}

func init() {
	rootCmd.AddCommand(applyCmd)
	applyCmd.Flags().StringVar(&applyDaemonURL, "daemon", "http://localhost:7890", "Daemon gateway base URL")
}
