package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var triggerExportsDir string

// NewTriggerCmd creates the trigger command.
func NewTriggerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trigger",
		Short: "Trigger a backend run through the local run server",
		Long: `Send a run request to a running 'wrapped-runner serve' and print the
backend output. Connection failures are retried while the server starts.`,
		RunE: runTrigger,
	}

	cmd.Flags().StringVar(&triggerExportsDir, "exports-dir", "", "directory containing the exported messages")

	return cmd
}

func runTrigger(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := setupLogging(cfg)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	client := newRunClient(cfg, retryFromConfig(cfg), logger)
	resp, err := client.Trigger(cmd.Context(), triggerExportsDir)
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), resp.Output)
	if !resp.Succeeded {
		return fmt.Errorf("backend run failed")
	}
	return nil
}
