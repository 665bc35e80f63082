package main

import (
	"github.com/spf13/cobra"

	"github.com/DannyJSullivan/card-inventory-api/internal/app"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long:  `Run all pending database migrations against the PostgreSQL database and exit.`,
		Args:  cobra.NoArgs,
		RunE:  runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}

	cmd.Println("Running migrations...")
	if err := app.Migrate(cmd.Context(), cfg, log); err != nil {
		return err
	}

	cmd.Println("Migrations completed successfully")
	return nil
}
