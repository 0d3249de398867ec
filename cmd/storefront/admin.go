package main

import (
	"fmt"

	"github.com/deppfellow/storefront/internal/database"
	"github.com/deppfellow/storefront/internal/lib/token"
	"github.com/deppfellow/storefront/internal/lib/utils"
	"github.com/deppfellow/storefront/internal/model"
	"github.com/deppfellow/storefront/internal/repository"
	"github.com/deppfellow/storefront/internal/server"
	"github.com/deppfellow/storefront/internal/service"
	"github.com/spf13/cobra"
)

var adminFlags struct {
	username string
	email    string
	password string
}

// createAdminCmd bootstraps the first administrator. Only admins can grant
// roles over the API, so the first one has to come from here.
var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an administrator account",
	Long: `Creates a user with the admin role directly in the database and prints
it as JSON.

Example:
  storefront create-admin --username root --email root@example.com --password 's3cret!'`,
	RunE: runCreateAdmin,
}

func init() {
	flags := createAdminCmd.Flags()
	flags.StringVar(&adminFlags.username, "username", "", "admin username")
	flags.StringVar(&adminFlags.email, "email", "", "admin email")
	flags.StringVar(&adminFlags.password, "password", "", "admin password")
	_ = createAdminCmd.MarkFlagRequired("username")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")
}

func runCreateAdmin(cmd *cobra.Command, args []string) error {
	log := &current.log

	db, err := database.New(current.cfg, log, current.loggerService)
	if err != nil {
		return err
	}
	defer db.Close()

	// No Redis or job server: the admin gets no welcome email.
	srv := &server.Server{
		Config:        current.cfg,
		Logger:        log,
		LoggerService: current.loggerService,
		DB:            db,
	}
	repos := repository.NewRepositories(srv)
	services := service.NewServicesWithStores(srv, service.Stores{
		Users:      repos.User,
		Categories: repos.Category,
		Products:   repos.Product,
	}, token.NewManager(current.cfg.Auth), nil)

	user, err := services.User.CreateUser(cmd.Context(), adminFlags.username, adminFlags.email, adminFlags.password, model.RoleAdmin.String())
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	log.Info().Str("user_id", user.ID.String()).Msg("admin created")
	return utils.PrintJSON(cmd.OutOrStdout(), user)
}
