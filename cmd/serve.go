package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"piccolo/internal/app"

	"github.com/spf13/cobra"
)

// baseContext returns cmd's context, falling back to a fresh background
// context when none was set (cobra only attaches one when invoked via
// ExecuteContext).
func baseContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

var (
	serveDebug      bool
	serveConfigPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the filter engine, action controller, and RPC surface",
	Long: `serve starts the daemon: cold-starts every previously allowed
Scenario, then runs the Filter Engine, the Action Controller, and the
artifact-submission HTTP gateway until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := app.NewConfig(serveDebug, false, serveConfigPath)

	application, err := app.NewApplication(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	ctx, stop := signal.NotifyContext(baseContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return application.Run(ctx)
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug logging")
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to a configuration file overlay")
}
