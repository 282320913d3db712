package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sharkusmanch/wrapped-runner/internal/domain"
	"github.com/spf13/cobra"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local run server in foreground",
		Long: `Start the loopback run server and keep it running until interrupted.

The UI triggers a backend run with:

  GET http://127.0.0.1:39213/run?exports_dir=<percent-encoded path>

Requests are handled one at a time. Use Ctrl+C to stop.`,
		RunE: runServe,
	}

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := setupLogging(cfg)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	logger.Info("starting wrapped-runner run server")

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	if state := newRunServer(cfg, logger).Serve(ctx); state == domain.ServerUnavailable {
		return fmt.Errorf("run server unavailable on %s", cfg.Server.Address)
	}

	logger.Info("wrapped-runner stopped")
	return nil
}
