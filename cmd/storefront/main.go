package main

import (
	"fmt"
	"os"

	"github.com/deppfellow/storefront/internal/config"
	"github.com/deppfellow/storefront/internal/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app holds what every command needs once config is loaded.
type app struct {
	cfg           *config.Config
	log           zerolog.Logger
	loggerService *logger.LoggerService
}

var current app

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Role-based storefront API",
	Long: `storefront serves the storefront REST API: accounts with admin, seller
and customer roles, categories, and products with paginated search.

Run without arguments to start the HTTP server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		loggerService := logger.NewLoggerService(cfg.Observability)
		current = app{
			cfg:           cfg,
			log:           logger.NewLoggerWithService(cfg.Observability, loggerService),
			loggerService: loggerService,
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		current.loggerService.Shutdown()
	},
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, createAdminCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
