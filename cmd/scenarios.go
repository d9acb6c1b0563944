package cmd

import (
	"piccolo/internal/cli"
	"piccolo/internal/statemachine"

	"github.com/spf13/cobra"
)

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "List Scenarios and their current activation state",
	Args:  cobra.NoArgs,
	RunE:  runScenarios,
}

func runScenarios(cmd *cobra.Command, args []string) error {
	repo, machine, err := openReadOnlyRepo()
	if err != nil {
		return err
	}

	ctx := baseContext(cmd)
	scenarios, err := repo.ListScenarios(ctx)
	if err != nil {
		return err
	}

	states := make(map[string]statemachine.State, len(scenarios))
	for _, s := range scenarios {
		current, err := machine.Current(ctx, statemachine.ResourceScenario, s.Name)
		if err != nil {
			continue
		}
		states[s.Name] = current
	}

	cli.RenderScenarios(scenarios, states)
	return nil
}

func init() {
	rootCmd.AddCommand(scenariosCmd)
	scenariosCmd.Flags().StringVar(&inspectConfigPath, "config", "", "Path to a configuration file overlay")
}
