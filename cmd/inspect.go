package cmd

import (
	"fmt"

	"piccolo/internal/app"
	"piccolo/internal/artifact"
	"piccolo/internal/config"
	"piccolo/internal/statemachine"

	"github.com/prometheus/client_golang/prometheus"
)

var inspectConfigPath string

// openReadOnlyRepo loads the configured store and wraps it in a
// Repository + Machine pair for the nodes/scenarios/state commands,
// which only ever read.
func openReadOnlyRepo() (*artifact.Repository, *statemachine.Machine, error) {
	cfg, err := config.Load(inspectConfigPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration: %w", err)
	}

	kv, err := app.OpenStore(cfg.Store)
	if err != nil {
		return nil, nil, fmt.Errorf("opening store: %w", err)
	}

	repo := artifact.NewRepository(kv)
	machine := statemachine.New(kv, statemachine.NewMetrics(prometheus.NewRegistry()))
	return repo, machine, nil
}
