package services

import (
	"context"

	"github.com/anonto42/campus-diary/backend/internal/models"
	"github.com/anonto42/campus-diary/backend/internal/repositories"
	"github.com/anonto42/campus-diary/backend/pkg/apperror"
)

// postLookup checks that the post a comment or like points at exists.
type postLookup struct {
	interviews repositories.InterviewRepository
	tweets     repositories.TweetRepository
}

func (p postLookup) mustExist(ctx context.Context, ref models.PostRef) error {
	var err error
	switch ref.Kind {
	case models.KindInterview:
		_, err = p.interviews.GetInterviewByID(ctx, ref.ID)
		return storeErr(err, "Interview not found")
	case models.KindTweet:
		_, err = p.tweets.GetTweetByID(ctx, ref.ID)
		return storeErr(err, "Tweet not found")
	}
	return apperror.BadRequest("Unknown post type")
}

// ParsePostRef builds a reference from a kind and a hex id.
func ParsePostRef(kind models.PostKind, hexID string) (models.PostRef, error) {
	if !kind.Valid() {
		return models.PostRef{}, apperror.BadRequest("Unknown post type")
	}
	id, err := ParseID(hexID, string(kind))
	if err != nil {
		return models.PostRef{}, err
	}
	return models.PostRef{Kind: kind, ID: id}, nil
}
