package services

import (
	"context"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/anonto42/campus-diary/backend/internal/models"
	"github.com/anonto42/campus-diary/backend/internal/repositories"
	"github.com/anonto42/campus-diary/backend/pkg/apperror"
	"github.com/anonto42/campus-diary/backend/pkg/sanitize"
)

type TweetService struct {
	tweets  repositories.TweetRepository
	users   repositories.UserRepository
	cascade *cascade
}

func NewTweetService(
	tweets repositories.TweetRepository,
	comments repositories.CommentRepository,
	likes repositories.LikeRepository,
	users repositories.UserRepository,
	tx repositories.Transactor,
	logger zerolog.Logger,
) *TweetService {
	return &TweetService{
		tweets: tweets,
		users:  users,
		cascade: &cascade{
			tx:       tx,
			comments: comments,
			likes:    likes,
			users:    users,
			logger:   logger.With().Str("component", "tweets").Logger(),
		},
	}
}

func tweetContent(content string) (string, error) {
	content = sanitize.Text(content)
	if content == "" {
		return "", apperror.BadRequest("Tweet content is required")
	}
	return content, nil
}

func (s *TweetService) Create(ctx context.Context, author primitive.ObjectID, content string) (*models.TweetView, error) {
	content, err := tweetContent(content)
	if err != nil {
		return nil, err
	}
	tweet := &models.Tweet{Author: author, Content: content}
	if err := s.tweets.CreateTweet(ctx, tweet); err != nil {
		return nil, storeErr(err, "")
	}
	view, err := s.tweets.GetTweetView(ctx, tweet.ID, &author)
	return view, storeErr(err, "Tweet not found")
}

func (s *TweetService) page(ctx context.Context, q models.TweetQuery, viewer *primitive.ObjectID) (*models.TweetPage, error) {
	q.Pagination = NewPagination(q.Page, q.Limit)
	views, total, err := s.tweets.ListTweets(ctx, q, viewer)
	if err != nil {
		return nil, storeErr(err, "")
	}
	return &models.TweetPage{
		Total:      total,
		Page:       q.Page,
		Limit:      q.Limit,
		TotalPages: q.TotalPages(total),
		Tweets:     views,
	}, nil
}

// List returns one page of all tweets as seen by viewer.
func (s *TweetService) List(ctx context.Context, page models.Pagination, viewer *primitive.ObjectID) (*models.TweetPage, error) {
	return s.page(ctx, models.TweetQuery{Pagination: page}, viewer)
}

// ListByUser returns one page of the tweets written by the given user.
func (s *TweetService) ListByUser(ctx context.Context, userHex string, page models.Pagination, viewer *primitive.ObjectID) (*models.TweetPage, error) {
	userID, err := ParseID(userHex, "user")
	if err != nil {
		return nil, err
	}
	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		return nil, storeErr(err, "User not found")
	}
	return s.page(ctx, models.TweetQuery{Author: &userID, Pagination: page}, viewer)
}

func (s *TweetService) Get(ctx context.Context, hexID string, viewer *primitive.ObjectID) (*models.TweetView, error) {
	id, err := ParseID(hexID, "tweet")
	if err != nil {
		return nil, err
	}
	view, err := s.tweets.GetTweetView(ctx, id, viewer)
	return view, storeErr(err, "Tweet not found")
}

func (s *TweetService) owned(ctx context.Context, hexID string, caller primitive.ObjectID, action string) (*models.Tweet, error) {
	id, err := ParseID(hexID, "tweet")
	if err != nil {
		return nil, err
	}
	tweet, err := s.tweets.GetTweetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "Tweet not found")
	}
	if tweet.Author != caller {
		return nil, apperror.Forbidden("You are not allowed to " + action + " this tweet")
	}
	return tweet, nil
}

func (s *TweetService) Update(ctx context.Context, hexID string, caller primitive.ObjectID, content string) (*models.TweetView, error) {
	tweet, err := s.owned(ctx, hexID, caller, "update")
	if err != nil {
		return nil, err
	}
	if content, err = tweetContent(content); err != nil {
		return nil, err
	}
	if err := s.tweets.UpdateTweetContent(ctx, tweet.ID, content); err != nil {
		return nil, storeErr(err, "Tweet not found")
	}
	view, err := s.tweets.GetTweetView(ctx, tweet.ID, &caller)
	return view, storeErr(err, "Tweet not found")
}

// Delete removes the tweet with its comments and likes.
func (s *TweetService) Delete(ctx context.Context, hexID string, caller primitive.ObjectID) error {
	tweet, err := s.owned(ctx, hexID, caller, "delete")
	if err != nil {
		return err
	}
	err = s.cascade.deletePost(ctx, models.TweetRef(tweet.ID), func(ctx context.Context) error {
		return s.tweets.DeleteTweet(ctx, tweet.ID)
	})
	return storeErr(err, "Tweet not found")
}
