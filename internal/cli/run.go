package cli

import (
	"errors"
	"fmt"

	"github.com/sharkusmanch/wrapped-runner/internal/app"
	"github.com/sharkusmanch/wrapped-runner/internal/domain"
	"github.com/spf13/cobra"
)

var (
	runExportsDir string
	runPayload    string
)

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the backend once and print its output",
		Long: `Run the backend in-process against an exports directory and print the
combined output.

The directory is given with --exports-dir, or with --payload as a JSON
object carrying either "exports_dir" or "exportsDir".`,
		RunE: runRun,
	}

	cmd.Flags().StringVar(&runExportsDir, "exports-dir", "", "directory containing the exported messages")
	cmd.Flags().StringVar(&runPayload, "payload", "", `JSON payload, e.g. {"exportsDir":"/path"}`)
	cmd.MarkFlagsMutuallyExclusive("exports-dir", "payload")

	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := setupLogging(cfg)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	var payload domain.RunPayload
	switch {
	case runPayload != "":
		payload, err = app.ParsePayload([]byte(runPayload))
		if err != nil {
			return err
		}
	case cmd.Flags().Changed("exports-dir"):
		payload.ExportsDirSnake = &runExportsDir
	}

	commands := newCommands(cfg, logger)
	output, err := commands.RunBackend(cmd.Context(), payload)
	if err != nil {
		var failed *app.RunFailedError
		if errors.As(err, &failed) {
			fmt.Fprint(cmd.OutOrStdout(), failed.Result.Output)
			return fmt.Errorf("backend exited with code %d", failed.Result.ExitCode)
		}
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), output)
	return nil
}
