package cmd

import (
	"fmt"

	"piccolo/internal/cli"

	"github.com/spf13/cobra"
)

var withdrawDaemonURL string

var withdrawCmd = &cobra.Command{
	Use:   "withdraw <scenario>",
	Short: "Withdraw a Scenario from the running daemon",
	Long: `withdraw deletes a Scenario document from the daemon's store,
without affecting the Package or Models a prior apply registered. The
daemon's installed Filter and signal subscription for that Scenario are
not removed by this command.`,
	Args: cobra.ExactArgs(1),
	RunE: runWithdraw,
}

func runWithdraw(cmd *cobra.Command, args []string) error {
	client := cli.NewClient(withdrawDaemonURL)
	if err := client.Withdraw(baseContext(cmd), args[0]); err != nil {
		return fmt.Errorf("withdraw failed: %w", err)
	}

	fmt.Printf("scenario %q withdrawn\n", args[0])
	return nil
}

func init() {
	rootCmd.AddCommand(withdrawCmd)
	withdrawCmd.Flags().StringVar(&withdrawDaemonURL, "daemon", "http://localhost:7890", "Daemon gateway base URL")
}
