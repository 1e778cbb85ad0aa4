package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/anonto42/campus-diary/backend/internal/metrics"
	"github.com/anonto42/campus-diary/backend/internal/models"
	"github.com/anonto42/campus-diary/backend/internal/repositories"
	"github.com/anonto42/campus-diary/backend/pkg/apperror"
)

// OrphanSweeper removes records whose post is gone.
type OrphanSweeper interface {
	SweepOrphans(ctx context.Context) (repositories.SweepReport, error)
}

// AdminService holds operator tasks run from the command line.
type AdminService struct {
	users   repositories.UserRepository
	sweeper OrphanSweeper
	logger  zerolog.Logger
}

func NewAdminService(users repositories.UserRepository, sweeper OrphanSweeper, logger zerolog.Logger) *AdminService {
	return &AdminService{users: users, sweeper: sweeper, logger: logger.With().Str("component", "admin").Logger()}
}

// SetRole grants or revokes the admin role for the user with email.
func (s *AdminService) SetRole(ctx context.Context, email string, role models.Role) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, apperror.BadRequest("Email is required")
	}
	if role != models.RoleAdmin && role != models.RoleUser {
		return nil, apperror.BadRequest("Invalid role")
	}
	user, err := s.users.SetRole(ctx, email, role)
	if err != nil {
		return nil, storeErr(err, "User not found")
	}
	s.logger.Info().Str("user_id", user.ID.Hex()).Str("role", string(role)).Msg("role changed")
	return user, nil
}

func (s *AdminService) SweepOrphans(ctx context.Context) (repositories.SweepReport, error) {
	report, err := s.sweeper.SweepOrphans(ctx)
	if err != nil {
		return report, storeErr(err, "")
	}
	metrics.OrphansSwept.WithLabelValues("comment").Add(float64(report.Comments))
	metrics.OrphansSwept.WithLabelValues("like").Add(float64(report.Likes))
	metrics.OrphansSwept.WithLabelValues("saved_ref").Add(float64(report.SavedRefs))
	s.logger.Info().
		Int64("comments", report.Comments).
		Int64("likes", report.Likes).
		Int64("saved_refs", report.SavedRefs).
		Msg("orphan sweep finished")
	return report, nil
}
