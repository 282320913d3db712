package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewBackupDirCmd creates the backup-dir command.
func NewBackupDirCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup-dir",
		Short: "Create the backups directory and print its path",
		Long: `Create <root>/Library/Application Support/<app>/backups, falling back to
the per-user Application Support tree when the system-wide one cannot be
created, and print the resulting path.`,
		Args: cobra.NoArgs,
		RunE: runBackupDir,
	}

	return cmd
}

func runBackupDir(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := setupLogging(cfg)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	path, err := newCommands(cfg, logger).EnsureBackupDir()
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

// NewNormalizeCmd creates the normalize command.
func NewNormalizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "normalize PATH",
		Short: "Print the directory a path refers to",
		Long:  `Print PATH if it is a directory, otherwise its parent directory.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			logger, err := setupLogging(cfg)
			if err != nil {
				return fmt.Errorf("failed to setup logging: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), newCommands(cfg, logger).NormalizePath(args[0]))
			return nil
		},
	}

	return cmd
}
