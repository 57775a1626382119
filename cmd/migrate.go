package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"rolebot/bot/config"
	"rolebot/bot/store"
)

var errNotPostgres = errors.New("migrations only apply to postgres, sqlite schemas are created on startup")

func requirePostgres() error {
	if err := cfg.Database.Validate(); err != nil {
		return err
	}
	if cfg.Database.Type != config.DatabasePostgres {
		return errNotPostgres
	}
	return nil
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the postgres schema",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := rootCmd.PersistentPreRunE(cmd, args); err != nil {
			return err
		}
		return requirePostgres()
	},
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		changed, err := store.MigrateUp(cfg.Database.DSN)
		if err != nil {
			return err
		}
		if !changed {
			logger.Info("Database is up to date")
			return nil
		}
		logger.Info("Applied migrations")
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down N",
	Short: "Roll back the last N migrations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		steps, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid number of steps %q: %w", args[0], err)
		}
		if err := store.MigrateDown(cfg.Database.DSN, steps); err != nil {
			return err
		}
		logger.Info("Rolled back migrations", "steps", steps)
		return nil
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the applied migration version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		version, dirty, err := store.MigrationVersion(cfg.Database.DSN)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "version: %d\ndirty: %t\n", version, dirty)
		return nil
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd)
	rootCmd.AddCommand(migrateCmd)
}
