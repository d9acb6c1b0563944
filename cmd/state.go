package cmd

import (
	"piccolo/internal/cli"
	"piccolo/internal/statemachine"
	"piccolo/internal/store"

	"github.com/spf13/cobra"
)

var stateResourceType string

var stateCmd = &cobra.Command{
	Use:   "state [name]",
	Short: "Show recorded resource state",
	Long: `state prints the current recorded state of every Scenario in the
store, or of a single resource when a name is given (its type taken from
--type, default scenario). Packages and Models appear only when asked
for by name.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runState,
}

func runState(cmd *cobra.Command, args []string) error {
	repo, machine, err := openReadOnlyRepo()
	if err != nil {
		return err
	}
	ctx := baseContext(cmd)

	if len(args) == 1 {
		rt := store.ParseResourceType(stateResourceType)
		current, err := machine.Current(ctx, rt, args[0])
		if err != nil {
			return err
		}
		cli.RenderState([]cli.StateRow{{ResourceType: rt, Name: args[0], State: current}})
		return nil
	}

	scenarios, err := repo.ListScenarios(ctx)
	if err != nil {
		return err
	}

	rows := make([]cli.StateRow, 0, len(scenarios))
	for _, s := range scenarios {
		current, err := machine.Current(ctx, statemachine.ResourceScenario, s.Name)
		if err != nil {
			continue
		}
		rows = append(rows, cli.StateRow{ResourceType: statemachine.ResourceScenario, Name: s.Name, State: current})
	}

	cli.RenderState(rows)
	return nil
}

func init() {
	rootCmd.AddCommand(stateCmd)
	stateCmd.Flags().StringVar(&inspectConfigPath, "config", "", "Path to a configuration file overlay")
	stateCmd.Flags().StringVar(&stateResourceType, "type", "scenario", "Resource type when name is given (scenario, package, model)")
}
