package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/sharkusmanch/wrapped-runner/internal/config"
	"github.com/sharkusmanch/wrapped-runner/internal/http"
	"github.com/spf13/cobra"
)

// NewValidateCmd creates the validate command.
func NewValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration and backend availability",
		Long: `Validate the configuration file and report what a run would use.

This checks:
- Config file syntax
- Which backend artifact would be dispatched
- Whether a run server answers on the configured address`,
		RunE: runValidate,
	}

	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Configuration:")
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(out, "  ✗ Config file: %v\n", err)
		return err
	}
	fmt.Fprintf(out, "  ✓ Config file syntax valid\n")

	configPath, _ := config.DefaultConfigPath()
	if cfgFile != "" {
		configPath = cfgFile
	}
	fmt.Fprintf(out, "  Config file: %s\n", configPath)
	fmt.Fprintf(out, "  App name: %s\n", cfg.AppName)
	fmt.Fprintf(out, "  Server address: %s\n", cfg.Server.Address)
	fmt.Fprintf(out, "  Max workers: %d\n", cfg.Backend.MaxWorkers)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Checks:")
	logger, err := setupLogging(cfg)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	artifact, err := newDispatcher(cfg, logger).Resolve()
	if err != nil {
		fmt.Fprintf(out, "  ✗ Backend: %v\n", err)
	} else {
		fmt.Fprintf(out, "  ✓ Backend %s: %s\n", artifact.Kind, artifact.Path)
	}

	// single attempt: this is a probe, not a wait
	client := newRunClient(cfg, http.RetryConfig{MaxAttempts: 1}, logger)
	if err := client.Ping(ctx); err != nil {
		fmt.Fprintf(out, "  - Run server: not running (%v)\n", err)
	} else {
		fmt.Fprintf(out, "  ✓ Run server answering on %s\n", cfg.Server.Address)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Validation complete.")
	return nil
}
