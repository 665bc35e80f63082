package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/DannyJSullivan/card-inventory-api/internal/config"
	"github.com/DannyJSullivan/card-inventory-api/pkg/logger"
)

// NewRootCmd creates the root command for the cardinventory CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cardinventory",
		Short: "Baseball card inventory API",
		Long: `cardinventory serves the baseball card inventory HTTP API and
provides operator commands for migrations and account management.

Configuration is read from environment variables only.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewUserCmd())

	return cmd
}

// bootstrap loads configuration and builds the process logger.
func bootstrap() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, logger.New(config.ServiceName, cfg.LogLevel), nil
}
