package models

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostKind names the two kinds of post that comments and likes attach to.
// The value doubles as the reference field name on comments and likes.
type PostKind string

const (
	KindInterview PostKind = "interview"
	KindTweet     PostKind = "tweet"
)

func (k PostKind) Valid() bool {
	return k == KindInterview || k == KindTweet
}

// PostRef points at one interview or one tweet.
type PostRef struct {
	Kind PostKind
	ID   primitive.ObjectID
}

func InterviewRef(id primitive.ObjectID) PostRef { return PostRef{Kind: KindInterview, ID: id} }
func TweetRef(id primitive.ObjectID) PostRef     { return PostRef{Kind: KindTweet, ID: id} }

// Field is the document field holding the reference.
func (r PostRef) Field() string {
	return string(r.Kind)
}

// AuthorSummary is the public projection of a user joined onto posts.
type AuthorSummary struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id"`
	Name        string             `json:"name" bson:"name"`
	Email       string             `json:"email,omitempty" bson:"email,omitempty"`
	Branch      string             `json:"branch,omitempty" bson:"branch,omitempty"`
	Batch       string             `json:"batch,omitempty" bson:"batch,omitempty"`
	Avatar      string             `json:"avatar" bson:"avatar"`
	Role        Role               `json:"role,omitempty" bson:"role,omitempty"`
	SocialLinks SocialLinks        `json:"socialLinks" bson:"socialLinks"`
}

// Engagement holds the per-viewer fields computed by the feed pipeline.
type Engagement struct {
	LikesCount int64 `json:"likesCount" bson:"likesCount"`
	IsLiked    bool  `json:"isLiked" bson:"isLiked"`
}

// Pagination is the 1-indexed page window of a listing.
type Pagination struct {
	Page  int64
	Limit int64
}

// Skip is the number of documents before the page.
func (p Pagination) Skip() int64 {
	if p.Page < 1 || p.Limit < 1 {
		return 0
	}
	if p.Page-1 > math.MaxInt64/p.Limit {
		return math.MaxInt64
	}
	return (p.Page - 1) * p.Limit
}

// TotalPages rounds total/limit up.
func (p Pagination) TotalPages(total int64) int64 {
	if p.Limit < 1 {
		return 1
	}
	return (total + p.Limit - 1) / p.Limit
}

// Timestamps are maintained by the repositories.
type Timestamps struct {
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}
