package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bloomcart/bloomcart/app/services"
	"github.com/bloomcart/bloomcart/config"
	"github.com/bloomcart/bloomcart/database/seeders"
	"github.com/bloomcart/bloomcart/pkg/database"
	"github.com/bloomcart/bloomcart/pkg/migration"
)

// bootDB loads config and opens the database connection.
func bootDB() error {
	if err := config.Load(); err != nil {
		return err
	}
	return database.Connect()
}

// bloomcart migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		fmt.Println("Running migrations…")
		return migration.New(database.DB).Run()
	},
}

// bloomcart migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		fmt.Println("Rolling back last batch…")
		return migration.New(database.DB).Rollback()
	},
}

// bloomcart migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		return migration.New(database.DB).Status()
	},
}

// bloomcart seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run all database seeders (idempotent)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		fmt.Println("Running seeders…")
		return seeders.RunAll(database.DB)
	},
}

// bloomcart create-admin
var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Provision an administrator account",
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		if err := bootDB(); err != nil {
			return err
		}
		if err := migration.New(database.DB).Run(); err != nil {
			return err
		}

		user, err := services.NewAuthService().CreateAdmin(username, email, password)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrEmailTaken):
				return errors.New("a user with that email already exists")
			case errors.Is(err, services.ErrUsernameTaken):
				return errors.New("a user with that username already exists")
			}
			return err
		}

		fmt.Printf("Administrator %q created (id %d).\n", user.Username, user.ID)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().String("username", "", "admin username")
	createAdminCmd.Flags().String("email", "", "admin email")
	createAdminCmd.Flags().String("password", "", "admin password")
	createAdminCmd.MarkFlagRequired("username") //nolint:errcheck
	createAdminCmd.MarkFlagRequired("email")    //nolint:errcheck
	createAdminCmd.MarkFlagRequired("password") //nolint:errcheck
}
