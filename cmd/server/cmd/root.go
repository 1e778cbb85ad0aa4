package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/anonto42/campus-diary/backend/pkg/config"
)

var (
	logLevel  string
	logFormat string

	rootCmd = &cobra.Command{
		Use:   "server",
		Short: "Campus Diary backend",
		Long: `Campus Diary backend: interview experiences, tweets, comments, likes
and the developer directory for a campus community.

Without a subcommand the HTTP server is started.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveCmd.RunE(cmd, args)
		},
	}
)

// Execute runs the root command. It is called by main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error) (default: LOG_LEVEL or info)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (json, console) (default: LOG_FORMAT or json)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(promoteAdminCmd)
	rootCmd.AddCommand(sweepOrphansCmd)
}

// loadConfig reads the environment and applies the global flags.
func loadConfig() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("config error: %w", err)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}
	return cfg, config.NewLogger(cfg.Logging), nil
}

// openDatabases connects to PostgreSQL and MongoDB for commands that
// need both.
func openDatabases(cfg *config.Config, logger zerolog.Logger) (*config.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	db, err := config.InitDB(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return db, nil
}
