package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/anonto42/campus-diary/backend/internal/models"
	"github.com/anonto42/campus-diary/backend/internal/repositories"
	"github.com/anonto42/campus-diary/backend/internal/services"
)

var (
	adminEmail  string
	adminRevoke bool
)

var promoteAdminCmd = &cobra.Command{
	Use:   "promote-admin",
	Short: "Grant (or with --revoke, remove) the admin role",
	Long: `Grant the admin role to an existing account. Admins manage the
developer directory.

Examples:
  server promote-admin --email someone@nitc.ac.in
  server promote-admin --email someone@nitc.ac.in --revoke`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := openDatabases(cfg, logger)
		if err != nil {
			return err
		}
		defer db.CloseDB()

		role := models.RoleAdmin
		if adminRevoke {
			role = models.RoleUser
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		admin := services.NewAdminService(
			repositories.NewMongoUserRepository(db.Database),
			repositories.NewMaintenanceRepository(db.Database),
			logger,
		)
		user, err := admin.SetRole(ctx, adminEmail, role)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", user.Email, user.Role)
		return nil
	},
}

func init() {
	promoteAdminCmd.Flags().StringVar(&adminEmail, "email", "", "email of the account")
	promoteAdminCmd.Flags().BoolVar(&adminRevoke, "revoke", false, "demote to a regular user instead")
	_ = promoteAdminCmd.MarkFlagRequired("email")
}
