package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/anonto42/campus-diary/backend/internal/models"
	"github.com/anonto42/campus-diary/backend/internal/repositories"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create MongoDB indexes and migrate the PostgreSQL schema",
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

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		if err := repositories.EnsureIndexes(ctx, db.Database); err != nil {
			return fmt.Errorf("index setup failed: %w", err)
		}
		logger.Info().Msg("mongo indexes ensured")

		if err := db.Postgres.WithContext(ctx).AutoMigrate(&models.Developer{}); err != nil {
			return fmt.Errorf("auto migrate failed: %w", err)
		}
		logger.Info().Msg("postgres schema migrated")
		return nil
	},
}
