package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Olliveer/happy-2.0-backend-deploy/internal/config"
	"github.com/Olliveer/happy-2.0-backend-deploy/internal/database"
	"github.com/Olliveer/happy-2.0-backend-deploy/internal/log"
)

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back schema migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			migrator, closeDB, err := openMigrator(cmd)
			if err != nil {
				return err
			}
			defer closeDB()

			applied, err := migrator.Up(cmd.Context())
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			}
			for _, id := range applied {
				fmt.Fprintln(cmd.OutOrStdout(), "applied", id)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			migrator, closeDB, err := openMigrator(cmd)
			if err != nil {
				return err
			}
			defer closeDB()

			id, err := migrator.Down(cmd.Context())
			if errors.Is(err, database.ErrNothingToRollback) {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing to roll back")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "rolled back", id)
			return nil
		},
	})

	return cmd
}

func openMigrator(cmd *cobra.Command) (*database.Migrator, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger := log.New(cfg.Environment, cfg.LogLevel)

	pool, err := database.NewPostgresPool(cmd.Context(), cfg.Postgres)
	if err != nil {
		return nil, nil, err
	}
	db, err := database.OpenGorm(pool, logger, cfg.Postgres.SlowThreshold)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	return database.NewMigrator(db, logger, database.Migrations), pool.Close, nil
}
