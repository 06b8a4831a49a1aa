package main

import (
	"ctchen222/todo-api/internal/api/repository"
	"ctchen222/todo-api/internal/db"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Administer user accounts",
}

var userDeleteCmd = &cobra.Command{
	Use:   "delete <username>",
	Short: "Delete a user together with all of their tasks",
	Args:  cobra.ExactArgs(1),
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

		err = repository.NewUserRepository(conn).DeleteUser(cmd.Context(), args[0])
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("user %q does not exist", args[0])
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Deleted user %q and their tasks\n", args[0])
		return nil
	},
}

func init() {
	userCmd.AddCommand(userDeleteCmd)
}
