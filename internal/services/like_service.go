package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/anonto42/campus-diary/backend/internal/metrics"
	"github.com/anonto42/campus-diary/backend/internal/models"
	"github.com/anonto42/campus-diary/backend/internal/repositories"
	"github.com/anonto42/campus-diary/backend/pkg/apperror"
)

// toggleAttempts bounds how often a toggle retries after losing a race
// on the unique like index.
const toggleAttempts = 3

type LikeService struct {
	likes repositories.LikeRepository
	posts postLookup
}

func NewLikeService(
	likes repositories.LikeRepository,
	interviews repositories.InterviewRepository,
	tweets repositories.TweetRepository,
) *LikeService {
	return &LikeService{
		likes: likes,
		posts: postLookup{interviews: interviews, tweets: tweets},
	}
}

// Toggle removes the user's like on the post if there is one and adds it
// otherwise. It reports whether the post is liked afterwards.
func (s *LikeService) Toggle(ctx context.Context, user primitive.ObjectID, ref models.PostRef) (bool, error) {
	if err := s.posts.mustExist(ctx, ref); err != nil {
		return false, err
	}

	for attempt := 0; attempt < toggleAttempts; attempt++ {
		removed, err := s.likes.DeleteLike(ctx, user, ref)
		if err != nil {
			return false, storeErr(err, "")
		}
		if removed {
			metrics.LikesToggled.WithLabelValues(string(ref.Kind), "unliked").Inc()
			return false, nil
		}

		err = s.likes.CreateLike(ctx, models.NewLike(user, ref))
		if err == nil {
			metrics.LikesToggled.WithLabelValues(string(ref.Kind), "liked").Inc()
			return true, nil
		}
		if !errors.Is(err, repositories.ErrDuplicate) {
			return false, storeErr(err, "")
		}
		// a concurrent toggle inserted first; go round and remove it
	}
	return false, apperror.Conflict("Like is being changed concurrently, please retry")
}
