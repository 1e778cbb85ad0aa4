package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/anonto42/campus-diary/backend/internal/repositories"
	"github.com/anonto42/campus-diary/backend/internal/services"
)

var sweepOrphansCmd = &cobra.Command{
	Use:   "sweep-orphans",
	Short: "Remove comments, likes and saved references whose post is gone",
	Long: `Remove comments, likes and saved-post references that point at deleted
interviews or tweets. Needed only when deletes ran without transactions
and failed half way.`,
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

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		admin := services.NewAdminService(
			repositories.NewMongoUserRepository(db.Database),
			repositories.NewMaintenanceRepository(db.Database),
			logger,
		)
		report, err := admin.SweepOrphans(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %d comments, %d likes, %d saved references\n",
			report.Comments, report.Likes, report.SavedRefs)
		return nil
	},
}
