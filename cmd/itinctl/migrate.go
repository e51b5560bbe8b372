package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"example.com/ai-travel-planner/internal/config"
	"example.com/ai-travel-planner/internal/database"
)

type versionOutput struct {
	Version uint `json:"version"`
	Dirty   bool `json:"dirty"`
}

func newMigrateCmd() *cobra.Command {
	var databaseURL string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back embedded database migrations",
	}
	cmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "pgx5:// database URL, defaults to DB_* settings")

	open := func(cmd *cobra.Command) (*database.Migrator, error) {
		url, err := resolveMigrateURL(databaseURL)
		if err != nil {
			return nil, err
		}
		logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
		return database.NewMigrator(url, logger)
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			migrator, err := open(cmd)
			if err != nil {
				return err
			}
			defer migrator.Close()
			return migrator.Up()
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the given number of migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if steps <= 0 {
				return fmt.Errorf("steps must be greater than 0")
			}
			migrator, err := open(cmd)
			if err != nil {
				return err
			}
			defer migrator.Close()
			return migrator.Down(steps)
		},
	}
	down.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to roll back")

	version := &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			migrator, err := open(cmd)
			if err != nil {
				return err
			}
			defer migrator.Close()

			current, dirty, err := migrator.Version()
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), versionOutput{Version: current, Dirty: dirty})
		},
	}

	cmd.AddCommand(up, down, version)
	return cmd
}

func resolveMigrateURL(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return "", fmt.Errorf("load config: %w", err)
	}
	return cfg.Database.MigrateURL(), nil
}
