package main

import (
	"github.com/deppfellow/storefront/internal/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return database.Migrate(cmd.Context(), &current.log, current.cfg)
	},
}
