package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func indexModels() map[string][]mongo.IndexModel {
	uniqueWhenSet := func(name, field string) mongo.IndexModel {
		return mongo.IndexModel{
			Keys: bson.D{{Key: "user", Value: 1}, {Key: field, Value: 1}},
			Options: options.Index().
				SetName(name).
				SetUnique(true).
				SetPartialFilterExpression(bson.M{field: bson.M{"$type": "objectId"}}),
		}
	}

	return map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetName("email_unique").SetUnique(true)},
			{Keys: bson.D{{Key: "verificationToken", Value: 1}}, Options: options.Index().SetName("verification_token").SetSparse(true)},
			{Keys: bson.D{{Key: "passwordResetToken", Value: 1}}, Options: options.Index().SetName("password_reset_token").SetSparse(true)},
		},
		interviewsCollection: {
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "author", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		tweetsCollection: {
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "author", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		commentsCollection: {
			{Keys: bson.D{{Key: "interview", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "tweet", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "parentComment", Value: 1}, {Key: "createdAt", Value: 1}}},
		},
		likesCollection: {
			uniqueWhenSet("user_interview_unique", "interview"),
			uniqueWhenSet("user_tweet_unique", "tweet"),
			{Keys: bson.D{{Key: "interview", Value: 1}}},
			{Keys: bson.D{{Key: "tweet", Value: 1}}},
		},
	}
}

// EnsureIndexes creates the indexes the repositories rely on, including
// the unique constraints behind ErrDuplicate.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for collection, models := range indexModels() {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", collection, err)
		}
	}
	return nil
}
