package models

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrLikeTarget = errors.New("like must reference exactly one interview or tweet")

// Like records that a user liked one interview or one tweet. The pair
// (user, target) is unique.
type Like struct {
	ID         primitive.ObjectID  `json:"_id" bson:"_id,omitempty"`
	User       primitive.ObjectID  `json:"user" bson:"user"`
	Interview  *primitive.ObjectID `json:"interview,omitempty" bson:"interview,omitempty"`
	Tweet      *primitive.ObjectID `json:"tweet,omitempty" bson:"tweet,omitempty"`
	Timestamps `bson:",inline"`
}

func NewLike(user primitive.ObjectID, ref PostRef) *Like {
	l := &Like{User: user}
	id := ref.ID
	switch ref.Kind {
	case KindInterview:
		l.Interview = &id
	case KindTweet:
		l.Tweet = &id
	}
	return l
}

// Validate checks that exactly one target is set.
func (l *Like) Validate() error {
	if (l.Interview == nil) == (l.Tweet == nil) {
		return ErrLikeTarget
	}
	return nil
}

// ToggleResult is returned by the like endpoints.
type ToggleResult struct {
	Liked bool `json:"liked"`
}
