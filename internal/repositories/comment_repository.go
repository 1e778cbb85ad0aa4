package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/anonto42/campus-diary/backend/internal/models"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error)
	GetCommentView(ctx context.Context, id primitive.ObjectID) (*models.CommentView, error)
	ListComments(ctx context.Context, target models.PostRef, page models.Pagination) ([]models.CommentView, int64, error)
	ListReplies(ctx context.Context, parent primitive.ObjectID) ([]models.CommentView, error)
	UpdateCommentContent(ctx context.Context, id primitive.ObjectID, content string) error
	DeleteComment(ctx context.Context, id primitive.ObjectID) error
	DeleteCommentsByTarget(ctx context.Context, target models.PostRef) (int64, error)
}

// MongoCommentRepository implements CommentRepository for MongoDB
type MongoCommentRepository struct {
	collection *mongo.Collection
}

func NewMongoCommentRepository(db *mongo.Database) *MongoCommentRepository {
	return &MongoCommentRepository{collection: db.Collection(commentsCollection)}
}

func (r *MongoCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	now := time.Now()
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt, comment.UpdatedAt = now, now
	_, err := r.collection.InsertOne(ctx, comment)
	return mongoErr("create comment", err)
}

func (r *MongoCommentRepository) GetCommentByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	var comment models.Comment
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&comment); err != nil {
		return nil, mongoErr("get comment", err)
	}
	return &comment, nil
}

func (r *MongoCommentRepository) aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]models.CommentView, error) {
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, mongoErr("aggregate comments", err)
	}
	views := []models.CommentView{}
	if err := cursor.All(ctx, &views); err != nil {
		return nil, mongoErr("decode comments", err)
	}
	return views, nil
}

// GetCommentView returns a single comment with its author.
func (r *MongoCommentRepository) GetCommentView(ctx context.Context, id primitive.ObjectID) (*models.CommentView, error) {
	views, err := r.aggregate(ctx, CommentPipeline(bson.D{{Key: "_id", Value: id}}, false, models.Pagination{}))
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, ErrNotFound
	}
	return &views[0], nil
}

// ListComments returns one page of the comments on target, newest first.
// Replies are included alongside top-level comments.
func (r *MongoCommentRepository) ListComments(ctx context.Context, target models.PostRef, page models.Pagination) ([]models.CommentView, int64, error) {
	match := bson.D{{Key: target.Field(), Value: target.ID}}
	total, err := r.collection.CountDocuments(ctx, match)
	if err != nil {
		return nil, 0, mongoErr("count comments", err)
	}
	views, err := r.aggregate(ctx, CommentPipeline(match, false, page))
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// ListReplies returns the direct replies to parent, oldest first.
func (r *MongoCommentRepository) ListReplies(ctx context.Context, parent primitive.ObjectID) ([]models.CommentView, error) {
	return r.aggregate(ctx, CommentPipeline(bson.D{{Key: "parentComment", Value: parent}}, true, models.Pagination{}))
}

func (r *MongoCommentRepository) UpdateCommentContent(ctx context.Context, id primitive.ObjectID, content string) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"content": content, "updatedAt": time.Now()}})
	if err != nil {
		return mongoErr("update comment", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoCommentRepository) DeleteComment(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mongoErr("delete comment", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCommentsByTarget removes every comment on target, replies included.
func (r *MongoCommentRepository) DeleteCommentsByTarget(ctx context.Context, target models.PostRef) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{target.Field(): target.ID})
	if err != nil {
		return 0, mongoErr("delete comments", err)
	}
	return res.DeletedCount, nil
}
