package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/FACorreiaa/roofing-site/pkg/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !cfg.Database.Enabled() {
			return errors.New("DB_HOST is not set")
		}

		database, err := db.New(db.Config{DSN: cfg.Database.DSN(), MaxConns: 2}, logger)
		if err != nil {
			return err
		}
		defer database.Close()

		return database.RunMigrations()
	},
}
