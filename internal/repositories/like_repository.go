package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/anonto42/campus-diary/backend/internal/models"
)

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	CreateLike(ctx context.Context, like *models.Like) error
	DeleteLike(ctx context.Context, user primitive.ObjectID, target models.PostRef) (bool, error)
	CountLikes(ctx context.Context, target models.PostRef) (int64, error)
	DeleteLikesByTarget(ctx context.Context, target models.PostRef) (int64, error)
}

// MongoLikeRepository implements LikeRepository for MongoDB
type MongoLikeRepository struct {
	collection *mongo.Collection
}

func NewMongoLikeRepository(db *mongo.Database) *MongoLikeRepository {
	return &MongoLikeRepository{collection: db.Collection(likesCollection)}
}

// CreateLike inserts like. A second like by the same user on the same
// post fails with ErrDuplicate.
func (r *MongoLikeRepository) CreateLike(ctx context.Context, like *models.Like) error {
	if err := like.Validate(); err != nil {
		return err
	}
	now := time.Now()
	like.ID = primitive.NewObjectID()
	like.CreatedAt, like.UpdatedAt = now, now
	_, err := r.collection.InsertOne(ctx, like)
	return mongoErr("create like", err)
}

// DeleteLike removes the user's like on target and reports whether one
// existed.
func (r *MongoLikeRepository) DeleteLike(ctx context.Context, user primitive.ObjectID, target models.PostRef) (bool, error) {
	err := r.collection.FindOneAndDelete(ctx, bson.M{"user": user, target.Field(): target.ID}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, mongoErr("delete like", err)
	}
	return true, nil
}

func (r *MongoLikeRepository) CountLikes(ctx context.Context, target models.PostRef) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{target.Field(): target.ID})
	return n, mongoErr("count likes", err)
}

func (r *MongoLikeRepository) DeleteLikesByTarget(ctx context.Context, target models.PostRef) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{target.Field(): target.ID})
	if err != nil {
		return 0, mongoErr("delete likes", err)
	}
	return res.DeletedCount, nil
}
