package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/anonto42/campus-diary/backend/internal/metrics"
	"github.com/anonto42/campus-diary/backend/internal/models"
	"github.com/anonto42/campus-diary/backend/internal/repositories"
)

// cascade deletes a post together with everything that references it.
// Children go first so that a failure without a transaction leaves
// orphans for the sweep rather than a post with missing comments.
type cascade struct {
	tx       repositories.Transactor
	comments repositories.CommentRepository
	likes    repositories.LikeRepository
	users    repositories.UserRepository
	logger   zerolog.Logger
}

func (c *cascade) deletePost(ctx context.Context, ref models.PostRef, deletePost func(ctx context.Context) error) error {
	var comments, likes int64
	err := c.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		if comments, err = c.comments.DeleteCommentsByTarget(ctx, ref); err != nil {
			return err
		}
		if likes, err = c.likes.DeleteLikesByTarget(ctx, ref); err != nil {
			return err
		}
		if ref.Kind == models.KindInterview {
			if err := c.users.PullSavedPost(ctx, ref.ID); err != nil {
				return err
			}
		}
		return deletePost(ctx)
	})
	if err != nil {
		c.logger.Error().Err(err).Str("kind", string(ref.Kind)).Str("id", ref.ID.Hex()).Msg("cascade delete failed")
		return err
	}

	metrics.CascadeDeletes.WithLabelValues(string(ref.Kind), "comment").Add(float64(comments))
	metrics.CascadeDeletes.WithLabelValues(string(ref.Kind), "like").Add(float64(likes))
	return nil
}
