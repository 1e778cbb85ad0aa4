package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/anonto42/campus-diary/backend/internal/models"
)

// TweetRepository defines the interface for tweet data operations
type TweetRepository interface {
	CreateTweet(ctx context.Context, tweet *models.Tweet) error
	GetTweetByID(ctx context.Context, id primitive.ObjectID) (*models.Tweet, error)
	GetTweetView(ctx context.Context, id primitive.ObjectID, viewer *primitive.ObjectID) (*models.TweetView, error)
	ListTweets(ctx context.Context, q models.TweetQuery, viewer *primitive.ObjectID) ([]models.TweetView, int64, error)
	UpdateTweetContent(ctx context.Context, id primitive.ObjectID, content string) error
	DeleteTweet(ctx context.Context, id primitive.ObjectID) error
}

// MongoTweetRepository implements TweetRepository for MongoDB
type MongoTweetRepository struct {
	collection *mongo.Collection
}

func NewMongoTweetRepository(db *mongo.Database) *MongoTweetRepository {
	return &MongoTweetRepository{collection: db.Collection(tweetsCollection)}
}

func (r *MongoTweetRepository) CreateTweet(ctx context.Context, tweet *models.Tweet) error {
	now := time.Now()
	tweet.ID = primitive.NewObjectID()
	tweet.CreatedAt, tweet.UpdatedAt = now, now
	_, err := r.collection.InsertOne(ctx, tweet)
	return mongoErr("create tweet", err)
}

func (r *MongoTweetRepository) GetTweetByID(ctx context.Context, id primitive.ObjectID) (*models.Tweet, error) {
	var tweet models.Tweet
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&tweet); err != nil {
		return nil, mongoErr("get tweet", err)
	}
	return &tweet, nil
}

func (r *MongoTweetRepository) GetTweetView(ctx context.Context, id primitive.ObjectID, viewer *primitive.ObjectID) (*models.TweetView, error) {
	cursor, err := r.collection.Aggregate(ctx, FeedPipeline(models.KindTweet, bson.D{{Key: "_id", Value: id}}, viewer, models.Pagination{}))
	if err != nil {
		return nil, mongoErr("aggregate tweet", err)
	}
	var views []models.TweetView
	if err := cursor.All(ctx, &views); err != nil {
		return nil, mongoErr("decode tweet", err)
	}
	if len(views) == 0 {
		return nil, ErrNotFound
	}
	return &views[0], nil
}

// ListTweets returns one page of tweets, optionally by a single author,
// and the total number of matches.
func (r *MongoTweetRepository) ListTweets(ctx context.Context, q models.TweetQuery, viewer *primitive.ObjectID) ([]models.TweetView, int64, error) {
	match := bson.D{}
	if q.Author != nil {
		match = append(match, bson.E{Key: "author", Value: *q.Author})
	}

	total, err := r.collection.CountDocuments(ctx, match)
	if err != nil {
		return nil, 0, mongoErr("count tweets", err)
	}

	cursor, err := r.collection.Aggregate(ctx, FeedPipeline(models.KindTweet, match, viewer, q.Pagination))
	if err != nil {
		return nil, 0, mongoErr("aggregate tweets", err)
	}
	views := []models.TweetView{}
	if err := cursor.All(ctx, &views); err != nil {
		return nil, 0, mongoErr("decode tweets", err)
	}
	return views, total, nil
}

func (r *MongoTweetRepository) UpdateTweetContent(ctx context.Context, id primitive.ObjectID, content string) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"content": content, "updatedAt": time.Now()}})
	if err != nil {
		return mongoErr("update tweet", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoTweetRepository) DeleteTweet(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mongoErr("delete tweet", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
