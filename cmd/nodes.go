package cmd

import (
	"piccolo/internal/cli"

	"github.com/spf13/cobra"
)

var nodesCmd = &cobra.Command{
	Use:   "nodes",
	Short: "List nodes known to the store",
	Args:  cobra.NoArgs,
	RunE:  runNodes,
}

func runNodes(cmd *cobra.Command, args []string) error {
	repo, _, err := openReadOnlyRepo()
	if err != nil {
		return err
	}

	nodes, err := repo.ListNodes(baseContext(cmd))
	if err != nil {
		return err
	}

	cli.RenderNodes(nodes)
	return nil
}

func init() {
	rootCmd.AddCommand(nodesCmd)
	nodesCmd.Flags().StringVar(&inspectConfigPath, "config", "", "Path to a configuration file overlay")
}
