// Command piccolo is the vehicle-workload orchestration control plane:
// the Signal Filter Engine, Action Controller, and Resource State
// Machine described in this repository, wrapped in a cobra CLI.
package main

import "piccolo/cmd"

var version = "dev"

func main() {
	cmd.SetVersion(version)
	cmd.Execute()
}
