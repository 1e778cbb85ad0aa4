package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/anonto42/campus-diary/backend/internal/handlers"
	"github.com/anonto42/campus-diary/backend/internal/metrics"
	"github.com/anonto42/campus-diary/backend/internal/repositories"
	"github.com/anonto42/campus-diary/backend/internal/router"
	"github.com/anonto42/campus-diary/backend/internal/services"
	"github.com/anonto42/campus-diary/backend/pkg/config"
	"github.com/anonto42/campus-diary/backend/pkg/firebase"
	"github.com/anonto42/campus-diary/backend/pkg/mailer"
	"github.com/anonto42/campus-diary/backend/pkg/ratelimit"
	"github.com/anonto42/campus-diary/backend/pkg/storage"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server.

Configuration comes from the environment (a .env file is loaded when
present). The server shuts down gracefully on SIGINT/SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "port to listen on (default: PORT or 8000)")
}

func runServer() error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != "" {
		cfg.Port = servePort
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger.Info().Str("env", cfg.Env).Msg("starting campus diary server")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := openDatabases(cfg, logger)
	if err != nil {
		return err
	}
	defer db.CloseDB()

	if err := repositories.EnsureIndexes(ctx, db.Database); err != nil {
		return fmt.Errorf("index setup failed: %w", err)
	}

	media, err := newMediaHost(ctx, cfg)
	if err != nil {
		return err
	}
	mail, err := mailer.New(cfg.Email, logger)
	if err != nil {
		return err
	}

	rdb, err := ratelimit.Connect(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	var limiter services.RateLimiter
	if rdb != nil {
		defer rdb.Close()
		limiter = ratelimit.New(rdb)
	} else {
		logger.Warn().Msg("REDIS_URL not set, forgot-password cooldown disabled")
	}

	if cfg.Metrics {
		metrics.Init()
	}

	e := router.New(router.Deps{
		Config: cfg,
		Logger: logger,
		Repos: router.Repositories{
			Users:      repositories.NewMongoUserRepository(db.Database),
			Interviews: repositories.NewMongoInterviewRepository(db.Database),
			Tweets:     repositories.NewMongoTweetRepository(db.Database),
			Comments:   repositories.NewMongoCommentRepository(db.Database),
			Likes:      repositories.NewMongoLikeRepository(db.Database),
			Developers: repositories.NewPostgresDeveloperRepository(db.Postgres),
			Tx:         repositories.NewMongoTransactor(db.Mongo, cfg.Mongo.Transactions),
		},
		Mailer:  mail,
		Media:   media,
		Limiter: limiter,
		Health:  healthChecks(db, rdb),
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
	case <-ctx.Done():
	}
	return shutdown(server, logger)
}

func shutdown(server *http.Server, logger zerolog.Logger) error {
	logger.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
		return err
	}
	return nil
}

func newMediaHost(ctx context.Context, cfg *config.Config) (storage.MediaHost, error) {
	var bucket storage.BucketWriter
	if cfg.Media.Provider == "firebase" {
		app, err := firebase.InitFirebase(ctx, cfg.Media.FirebaseCredentialsPath, cfg.Media.FirebaseBucket)
		if err != nil {
			return nil, err
		}
		bucket = app.Bucket
	}
	return storage.NewMediaHost(cfg.Media, bucket)
}

func healthChecks(db *config.DB, rdb *redis.Client) map[string]handlers.Pinger {
	checks := map[string]handlers.Pinger{
		"mongo": handlers.PingFunc(func(ctx context.Context) error {
			return db.Mongo.Ping(ctx, nil)
		}),
		"postgres": handlers.PingFunc(func(ctx context.Context) error {
			sqlDB, err := db.Postgres.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}),
	}
	if rdb != nil {
		checks["redis"] = handlers.PingFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}
	return checks
}
