package cli

import (
	"os"

	"piccolo/internal/artifact"
	"piccolo/internal/statemachine"

	"github.com/jedib0t/go-pretty/v6/table"
)

// RenderNodes prints a table of nodes and their configured role.
func RenderNodes(nodes []artifact.Node) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Name", "IP", "Role", "Status"})
	for _, n := range nodes {
		t.AppendRow(table.Row{n.Name, n.IP, n.Role, n.Status})
	}
	t.Render()
}

// RenderScenarios prints a table of scenarios and their current state.
func RenderScenarios(scenarios []artifact.Scenario, states map[string]statemachine.State) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Name", "Action", "Target", "Conditional", "State"})
	for _, s := range scenarios {
		t.AppendRow(table.Row{s.Name, s.Action, s.Target, !s.Unconditional(), states[s.Name]})
	}
	t.Render()
}

// StateRow is one resource's current recorded state, for the `state`
// command's table.
type StateRow struct {
	ResourceType statemachine.ResourceType
	Name         string
	State        statemachine.State
}

// RenderState prints a table of resource states.
func RenderState(rows []StateRow) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Type", "Name", "State"})
	for _, r := range rows {
		t.AppendRow(table.Row{r.ResourceType, r.Name, r.State})
	}
	t.Render()
}
