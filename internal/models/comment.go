package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment is attached to exactly one interview or tweet. Replies point at
// their parent through ParentComment.
type Comment struct {
	ID            primitive.ObjectID  `json:"_id" bson:"_id,omitempty"`
	Content       string              `json:"content" bson:"content"`
	Author        primitive.ObjectID  `json:"author" bson:"author"`
	Interview     *primitive.ObjectID `json:"interview,omitempty" bson:"interview,omitempty"`
	Tweet         *primitive.ObjectID `json:"tweet,omitempty" bson:"tweet,omitempty"`
	ParentComment *primitive.ObjectID `json:"parentComment" bson:"parentComment"`
	Timestamps    `bson:",inline"`
}

// SetTarget points the comment at ref and clears the other reference.
func (c *Comment) SetTarget(ref PostRef) {
	id := ref.ID
	c.Interview, c.Tweet = nil, nil
	switch ref.Kind {
	case KindInterview:
		c.Interview = &id
	case KindTweet:
		c.Tweet = &id
	}
}

// BelongsTo reports whether the comment is attached to ref.
func (c *Comment) BelongsTo(ref PostRef) bool {
	switch ref.Kind {
	case KindInterview:
		return c.Interview != nil && *c.Interview == ref.ID
	case KindTweet:
		return c.Tweet != nil && *c.Tweet == ref.ID
	}
	return false
}

// CommentAuthor is the slice of the author shown next to a comment.
type CommentAuthor struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id"`
	Name        string             `json:"name" bson:"name"`
	Avatar      string             `json:"avatar" bson:"avatar"`
	SocialLinks SocialLinks        `json:"socialLinks" bson:"socialLinks"`
}

type CommentView struct {
	ID            primitive.ObjectID  `json:"_id" bson:"_id"`
	Content       string              `json:"content" bson:"content"`
	Author        CommentAuthor       `json:"author" bson:"author"`
	Interview     *primitive.ObjectID `json:"interview,omitempty" bson:"interview,omitempty"`
	Tweet         *primitive.ObjectID `json:"tweet,omitempty" bson:"tweet,omitempty"`
	ParentComment *primitive.ObjectID `json:"parentComment" bson:"parentComment"`
	Timestamps    `bson:",inline"`
}

// CommentRequest is the body for adding, replying to or editing a comment
type CommentRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

type CommentPage struct {
	Comments      []CommentView `json:"comments"`
	TotalComments int64         `json:"totalComments"`
	CurrentPage   int64         `json:"currentPage"`
	TotalPages    int64         `json:"totalPages"`
}
