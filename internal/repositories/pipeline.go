package repositories

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/anonto42/campus-diary/backend/internal/models"
)

// publicAuthorFields is the whitelist of user fields joined onto posts.
// Credential and token fields are never selected.
var publicAuthorFields = []string{"name", "email", "branch", "batch", "avatar", "role", "socialLinks"}

var commentAuthorFields = []string{"name", "avatar", "socialLinks"}

// commentCountField differs between the two post kinds.
func commentCountField(kind models.PostKind) string {
	if kind == models.KindTweet {
		return "commentsCount"
	}
	return "commentCount"
}

func projectionOf(fields []string) bson.D {
	p := make(bson.D, 0, len(fields))
	for _, f := range fields {
		p = append(p, bson.E{Key: f, Value: 1})
	}
	return p
}

// sortNewest orders by creation time, newest first; _id breaks ties.
var sortNewest = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

func paginate(p models.Pagination) []bson.D {
	if p.Limit < 1 {
		return nil
	}
	return []bson.D{
		{{Key: "$skip", Value: p.Skip()}},
		{{Key: "$limit", Value: p.Limit}},
	}
}

// authorLookup joins the user referenced by field, keeping only fields.
// Documents whose author is gone stay in the result with no author, so a
// page holds as many documents as the count says.
func authorLookup(field string, fields []string) []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: usersCollection},
			{Key: "let", Value: bson.D{{Key: "authorId", Value: "$" + field}}},
			{Key: "pipeline", Value: bson.A{
				bson.D{{Key: "$match", Value: bson.D{{Key: "$expr", Value: bson.D{{Key: "$eq", Value: bson.A{"$_id", "$$authorId"}}}}}}},
				bson.D{{Key: "$project", Value: projectionOf(fields)}},
			}},
			{Key: "as", Value: field},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$" + field},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	}
}

// FeedPipeline builds the read model for interviews or tweets: the author
// joined with public fields only, a like count, a comment count and
// whether viewer liked the post. A nil viewer never has liked anything.
func FeedPipeline(kind models.PostKind, match bson.D, viewer *primitive.ObjectID, page models.Pagination) mongo.Pipeline {
	if match == nil {
		match = bson.D{}
	}
	refField := string(kind)

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: sortNewest}},
	}
	pipeline = append(pipeline, paginate(page)...)
	pipeline = append(pipeline, authorLookup("author", publicAuthorFields)...)

	var isLiked interface{} = false
	if viewer != nil {
		isLiked = bson.D{{Key: "$in", Value: bson.A{*viewer, "$likes.user"}}}
	}

	pipeline = append(pipeline,
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: likesCollection},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: refField},
			{Key: "as", Value: "likes"},
		}}},
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: commentsCollection},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: refField},
			{Key: "as", Value: "comments"},
		}}},
		bson.D{{Key: "$addFields", Value: bson.D{
			{Key: "likesCount", Value: bson.D{{Key: "$size", Value: "$likes"}}},
			{Key: commentCountField(kind), Value: bson.D{{Key: "$size", Value: "$comments"}}},
			{Key: "isLiked", Value: isLiked},
		}}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "likes", Value: 0},
			{Key: "comments", Value: 0},
		}}},
	)
	return pipeline
}

// CommentPipeline lists comments matching match with their author.
// Comments on a post come newest first; replies come oldest first.
func CommentPipeline(match bson.D, oldestFirst bool, page models.Pagination) mongo.Pipeline {
	sort := sortNewest
	if oldestFirst {
		sort = bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: sort}},
	}
	pipeline = append(pipeline, paginate(page)...)
	return append(pipeline, authorLookup("author", commentAuthorFields)...)
}
