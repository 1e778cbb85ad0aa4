package router

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/anonto42/campus-diary/backend/internal/handlers"
	"github.com/anonto42/campus-diary/backend/internal/metrics"
	"github.com/anonto42/campus-diary/backend/internal/middleware"
	"github.com/anonto42/campus-diary/backend/internal/repositories"
	"github.com/anonto42/campus-diary/backend/internal/services"
	"github.com/anonto42/campus-diary/backend/pkg/config"
	"github.com/anonto42/campus-diary/backend/pkg/mailer"
	"github.com/anonto42/campus-diary/backend/pkg/response"
	"github.com/anonto42/campus-diary/backend/pkg/storage"
	"github.com/anonto42/campus-diary/backend/validators"
)

// Repositories are the stores behind the API.
type Repositories struct {
	Users      repositories.UserRepository
	Interviews repositories.InterviewRepository
	Tweets     repositories.TweetRepository
	Comments   repositories.CommentRepository
	Likes      repositories.LikeRepository
	Developers repositories.DeveloperRepository
	Tx         repositories.Transactor
}

// Deps is everything SetupRoutes needs. Limiter may be nil, which turns
// the forgot-password cooldown off.
type Deps struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Repos   Repositories
	Mailer  mailer.Mailer
	Media   storage.MediaHost
	Limiter services.RateLimiter
	Health  map[string]handlers.Pinger
}

// New builds a configured echo instance with every route mounted.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validators.NewValidator()
	e.HTTPErrorHandler = response.ErrorHandler(d.Logger)

	config.SetupMiddleware(e, d.Config, d.Logger)
	if d.Config.Metrics {
		e.Use(metrics.Middleware())
	}

	SetupRoutes(e, d)
	return e
}

// SetupRoutes wires services and handlers and mounts them under /api/v1.
func SetupRoutes(e *echo.Echo, d Deps) {
	cfg, log, r := d.Config, d.Logger, d.Repos
	if r.Tx == nil {
		r.Tx = repositories.NewMongoTransactor(nil, false)
	}

	tokens := services.NewTokenService(r.Users, cfg.Auth)
	authService := services.NewAuthService(r.Users, tokens, d.Mailer, d.Limiter, cfg, log)
	userService := services.NewUserService(r.Users, r.Interviews)
	interviewService := services.NewInterviewService(r.Interviews, r.Comments, r.Likes, r.Users, r.Tx, log)
	tweetService := services.NewTweetService(r.Tweets, r.Comments, r.Likes, r.Users, r.Tx, log)
	commentService := services.NewCommentService(r.Comments, r.Interviews, r.Tweets)
	likeService := services.NewLikeService(r.Likes, r.Interviews, r.Tweets)
	developerService := services.NewDeveloperService(r.Developers, d.Media, log)

	auth := middleware.NewAuth(tokens, userService)
	requireAuth := auth.RequireAuth()
	optionalAuth := auth.OptionalAuth()
	adminOnly := []echo.MiddlewareFunc{requireAuth, middleware.RequireAdmin()}
	upload := middleware.TempUpload(cfg.UploadDir, log, handlers.PhotoFields...)

	health := handlers.NewHealthHandler(d.Health)
	e.GET("/health", health.HealthCheck)
	if cfg.Metrics {
		e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	}

	api := e.Group("/api/v1")

	users := api.Group("/users")
	handlers.NewAuthHandler(authService, tokens, cfg.Auth).RegisterAuthRoutes(users, requireAuth)
	handlers.NewUserHandler(userService).RegisterUserRoutes(users, requireAuth)

	handlers.NewInterviewHandler(interviewService).
		RegisterInterviewRoutes(api.Group("/interviews"), requireAuth, optionalAuth)
	handlers.NewTweetHandler(tweetService).
		RegisterTweetRoutes(api.Group("/tweets"), requireAuth, optionalAuth)
	handlers.NewCommentHandler(commentService).
		RegisterCommentRoutes(api.Group("/comments", requireAuth))
	handlers.NewLikeHandler(likeService).
		RegisterLikeRoutes(api.Group("/likes", requireAuth))
	handlers.NewDeveloperHandler(developerService).
		RegisterDeveloperRoutes(api.Group("/developers"), adminOnly, upload)

	log.Debug().Int("routes", len(e.Routes())).Msg("routes configured")
}
