package main

import (
	"ctchen222/todo-api/internal/db"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		conn, err := db.Open(cmd.Context(), cfg.Database.Path)
		if err != nil {
			return err
		}
		defer conn.Close()

		return db.Migrate(cmd.Context(), conn)
	},
}
