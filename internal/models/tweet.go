package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Tweet is a short post stored in MongoDB
type Tweet struct {
	ID         primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Author     primitive.ObjectID `json:"author" bson:"author"`
	Content    string             `json:"content" bson:"content"`
	Timestamps `bson:",inline"`
}

type TweetView struct {
	ID            primitive.ObjectID `json:"_id" bson:"_id"`
	Author        AuthorSummary      `json:"author" bson:"author"`
	Content       string             `json:"content" bson:"content"`
	Engagement    `bson:",inline"`
	CommentsCount int64 `json:"commentsCount" bson:"commentsCount"`
	Timestamps `bson:",inline"`
}

type TweetRequest struct {
	Content string `json:"content" validate:"required,max=280"`
}

type TweetQuery struct {
	Author *primitive.ObjectID
	Pagination
}

type TweetPage struct {
	Total      int64       `json:"total"`
	Page       int64       `json:"page"`
	Limit      int64       `json:"limit"`
	TotalPages int64       `json:"totalPages"`
	Tweets     []TweetView `json:"tweets"`
}
