package repositories

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/anonto42/campus-diary/backend/internal/models"
)

// setupMongo connects to MONGO_TEST_URI and returns a fresh database that
// is dropped after the test.
func setupMongo(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	require.NoError(t, client.Ping(ctx, nil))

	db := client.Database("campus_diary_test_" + primitive.NewObjectID().Hex())
	require.NoError(t, EnsureIndexes(ctx, db))

	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	return db
}

func createUser(t *testing.T, repo *MongoUserRepository, email string) *models.User {
	t.Helper()
	u := &models.User{Email: email, Name: email, Branch: "Civil", Batch: "2025", Avatar: "a1", Password: "x", RefreshToken: "secret-refresh"}
	require.NoError(t, repo.CreateUser(context.Background(), u))
	return u
}

func TestMongoTweetFeed(t *testing.T) {
	db := setupMongo(t)
	ctx := context.Background()
	users := NewMongoUserRepository(db)
	tweets := NewMongoTweetRepository(db)
	likes := NewMongoLikeRepository(db)

	a := createUser(t, users, "a@nitc.ac.in")
	b := createUser(t, users, "b@nitc.ac.in")

	tweet := &models.Tweet{Author: a.ID, Content: "hello"}
	require.NoError(t, tweets.CreateTweet(ctx, tweet))

	view, err := tweets.GetTweetView(ctx, tweet.ID, &a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), view.LikesCount)
	assert.Equal(t, int64(0), view.CommentsCount)
	assert.Equal(t, "a@nitc.ac.in", view.Author.Email)

	require.NoError(t, likes.CreateLike(ctx, models.NewLike(b.ID, models.TweetRef(tweet.ID))))

	forB, total, err := tweets.ListTweets(ctx, models.TweetQuery{Pagination: models.Pagination{Page: 1, Limit: 10}}, &b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, forB, 1)
	assert.True(t, forB[0].IsLiked)
	assert.Equal(t, int64(1), forB[0].LikesCount)

	forA, _, err := tweets.ListTweets(ctx, models.TweetQuery{}, &a.ID)
	require.NoError(t, err)
	assert.False(t, forA[0].IsLiked)
	assert.Equal(t, int64(1), forA[0].LikesCount)

	anon, _, err := tweets.ListTweets(ctx, models.TweetQuery{}, nil)
	require.NoError(t, err)
	assert.False(t, anon[0].IsLiked)

	cursor, err := db.Collection(tweetsCollection).Aggregate(ctx, FeedPipeline(models.KindTweet, nil, nil, models.Pagination{}))
	require.NoError(t, err)
	require.True(t, cursor.Next(ctx))
	raw := cursor.Current
	_, err = raw.LookupErr("author", "name")
	assert.NoError(t, err)
	_, err = raw.LookupErr("author", "password")
	assert.Error(t, err)
	_, err = raw.LookupErr("author", "refreshToken")
	assert.Error(t, err)
	_, err = raw.LookupErr("likes")
	assert.Error(t, err)
}

func TestMongoFeedPageIncludesPostsOfDeletedAuthors(t *testing.T) {
	db := setupMongo(t)
	ctx := context.Background()
	users := NewMongoUserRepository(db)
	tweets := NewMongoTweetRepository(db)

	gone := createUser(t, users, "gone@nitc.ac.in")
	kept := createUser(t, users, "kept@nitc.ac.in")
	require.NoError(t, tweets.CreateTweet(ctx, &models.Tweet{Author: kept.ID, Content: "older"}))
	require.NoError(t, tweets.CreateTweet(ctx, &models.Tweet{Author: gone.ID, Content: "newer"}))
	require.NoError(t, users.DeleteUser(ctx, gone.ID))

	page, total, err := tweets.ListTweets(ctx, models.TweetQuery{Pagination: models.Pagination{Page: 1, Limit: 2}}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, page, 2)
	assert.Empty(t, page[0].Author.Email)
	assert.Equal(t, "kept@nitc.ac.in", page[1].Author.Email)
}

func TestMongoLikeUniqueness(t *testing.T) {
	db := setupMongo(t)
	ctx := context.Background()
	likes := NewMongoLikeRepository(db)

	user := primitive.NewObjectID()
	ref := models.InterviewRef(primitive.NewObjectID())

	require.NoError(t, likes.CreateLike(ctx, models.NewLike(user, ref)))
	assert.ErrorIs(t, likes.CreateLike(ctx, models.NewLike(user, ref)), ErrDuplicate)

	// a tweet like from the same user does not collide with interview likes
	require.NoError(t, likes.CreateLike(ctx, models.NewLike(user, models.TweetRef(primitive.NewObjectID()))))

	deleted, err := likes.DeleteLike(ctx, user, ref)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = likes.DeleteLike(ctx, user, ref)
	require.NoError(t, err)
	assert.False(t, deleted)

	n, err := likes.CountLikes(ctx, ref)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMongoSavedPostsAndSweep(t *testing.T) {
	db := setupMongo(t)
	ctx := context.Background()
	users := NewMongoUserRepository(db)
	comments := NewMongoCommentRepository(db)
	likes := NewMongoLikeRepository(db)

	u := createUser(t, users, "c@nitc.ac.in")
	gone := primitive.NewObjectID()

	saved, list, err := users.ToggleSavedPost(ctx, u.ID, gone)
	require.NoError(t, err)
	assert.True(t, saved)
	assert.Equal(t, []primitive.ObjectID{gone}, list)

	c := &models.Comment{Content: "orphan", Author: u.ID}
	c.SetTarget(models.InterviewRef(gone))
	require.NoError(t, comments.CreateComment(ctx, c))
	require.NoError(t, likes.CreateLike(ctx, models.NewLike(u.ID, models.InterviewRef(gone))))

	report, err := NewMaintenanceRepository(db).SweepOrphans(ctx)
	require.NoError(t, err)
	assert.Equal(t, SweepReport{Comments: 1, Likes: 1, SavedRefs: 1}, report)

	fresh, err := users.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, fresh.SavedPosts)
}
