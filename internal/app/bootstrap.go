package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"piccolo/internal/config"
	"piccolo/pkg/logging"
)

// Application bootstraps and runs the daemon: load the static
// configuration, build every collaborator, then block running them
// until Run's context is cancelled.
type Application struct {
	config   *Config
	services *Services
}

// NewApplication performs the bootstrap sequence: configure logging,
// load the static process configuration, and wire every service.
func NewApplication(cfg *Config) (*Application, error) {
	logLevel := logging.LevelInfo
	if cfg.Debug {
		logLevel = logging.LevelDebug
	}

	var logOutput io.Writer = os.Stdout
	if cfg.Silent {
		logOutput = io.Discard
	}
	logging.InitForCLI(logLevel, logOutput)

	daemonCfg, err := config.Load(cfg.ConfigPath)
	if err != nil {
		logging.Error("Bootstrap", err, "failed to load configuration")
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	services, err := InitializeServices(daemonCfg)
	if err != nil {
		logging.Error("Bootstrap", err, "failed to initialize services")
		return nil, fmt.Errorf("initializing services: %w", err)
	}

	return &Application{config: cfg, services: services}, nil
}

// Run starts every service and blocks until ctx is cancelled, then stops
// them all.
func (a *Application) Run(ctx context.Context) error {
	if err := a.services.Start(ctx); err != nil {
		return fmt.Errorf("starting services: %w", err)
	}

	<-ctx.Done()

	stopCtx := context.Background()
	return a.services.Stop(stopCtx)
}
