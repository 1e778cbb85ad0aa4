package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/anonto42/campus-diary/backend/internal/models"
)

func stageNames(p mongo.Pipeline) []string {
	names := make([]string, len(p))
	for i, stage := range p {
		names[i] = stage[0].Key
	}
	return names
}

func stage(t *testing.T, p mongo.Pipeline, name string, nth int) bson.D {
	t.Helper()
	seen := 0
	for _, s := range p {
		if s[0].Key == name {
			if seen == nth {
				return s[0].Value.(bson.D)
			}
			seen++
		}
	}
	t.Fatalf("stage %s #%d not found", name, nth)
	return nil
}

func lookupValue(d bson.D, key string) interface{} {
	for _, e := range d {
		if e.Key == key {
			return e.Value
		}
	}
	return nil
}

func TestFeedPipelineStages(t *testing.T) {
	p := FeedPipeline(models.KindInterview, bson.D{{Key: "domain", Value: "Tech"}}, nil, models.Pagination{Page: 2, Limit: 5})

	assert.Equal(t, []string{
		"$match", "$sort", "$skip", "$limit",
		"$lookup", "$unwind",
		"$lookup", "$lookup",
		"$addFields", "$project",
	}, stageNames(p))

	assert.Equal(t, int64(5), p[2][0].Value)
	assert.Equal(t, int64(5), p[3][0].Value)
}

func TestFeedPipelineWithoutPagination(t *testing.T) {
	p := FeedPipeline(models.KindTweet, nil, nil, models.Pagination{})
	assert.NotContains(t, stageNames(p), "$skip")
	assert.NotContains(t, stageNames(p), "$limit")
	assert.Equal(t, bson.D{}, p[0][0].Value)
}

func TestFeedPipelineAuthorProjectionExcludesCredentials(t *testing.T) {
	p := FeedPipeline(models.KindInterview, nil, nil, models.Pagination{})
	lookup := stage(t, p, "$lookup", 0)
	assert.Equal(t, usersCollection, lookupValue(lookup, "from"))

	inner := lookupValue(lookup, "pipeline").(bson.A)
	projection := inner[1].(bson.D)[0].Value.(bson.D)

	fields := map[string]bool{}
	for _, e := range projection {
		assert.Equal(t, 1, e.Value)
		fields[e.Key] = true
	}
	for _, secret := range []string{"password", "refreshToken", "verificationToken", "passwordResetToken"} {
		assert.False(t, fields[secret], secret)
	}
	assert.True(t, fields["name"])
}

func TestFeedPipelineCountsAndLikedFlag(t *testing.T) {
	viewer := primitive.NewObjectID()

	interview := FeedPipeline(models.KindInterview, nil, &viewer, models.Pagination{})
	fields := stage(t, interview, "$addFields", 0)
	assert.NotNil(t, lookupValue(fields, "commentCount"))
	assert.Nil(t, lookupValue(fields, "commentsCount"))
	assert.Equal(t,
		bson.D{{Key: "$in", Value: bson.A{viewer, "$likes.user"}}},
		lookupValue(fields, "isLiked"))

	likes := stage(t, interview, "$lookup", 1)
	assert.Equal(t, likesCollection, lookupValue(likes, "from"))
	assert.Equal(t, "interview", lookupValue(likes, "foreignField"))

	tweet := FeedPipeline(models.KindTweet, nil, nil, models.Pagination{})
	fields = stage(t, tweet, "$addFields", 0)
	assert.NotNil(t, lookupValue(fields, "commentsCount"))
	assert.Equal(t, false, lookupValue(fields, "isLiked"))

	comments := stage(t, tweet, "$lookup", 2)
	assert.Equal(t, commentsCollection, lookupValue(comments, "from"))
	assert.Equal(t, "tweet", lookupValue(comments, "foreignField"))

	project := stage(t, tweet, "$project", 0)
	assert.Equal(t, bson.D{{Key: "likes", Value: 0}, {Key: "comments", Value: 0}}, project)
}

func TestCommentPipelineOrder(t *testing.T) {
	newest := CommentPipeline(bson.D{}, false, models.Pagination{Page: 1, Limit: 10})
	assert.Equal(t, sortNewest, newest[1][0].Value)
	assert.Contains(t, stageNames(newest), "$limit")

	oldest := CommentPipeline(bson.D{}, true, models.Pagination{})
	assert.Equal(t, bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}, oldest[1][0].Value)
}

func TestAuthorJoinKeepsPostsOfDeletedAuthors(t *testing.T) {
	want := bson.D{
		{Key: "path", Value: "$author"},
		{Key: "preserveNullAndEmptyArrays", Value: true},
	}
	feed := FeedPipeline(models.KindTweet, nil, nil, models.Pagination{Page: 1, Limit: 10})
	assert.Equal(t, want, stage(t, feed, "$unwind", 0))

	comments := CommentPipeline(bson.D{}, false, models.Pagination{Page: 1, Limit: 10})
	assert.Equal(t, want, stage(t, comments, "$unwind", 0))
}

func TestInterviewFilter(t *testing.T) {
	author := primitive.NewObjectID()
	f := InterviewFilter(models.InterviewQuery{
		Domain:  "Tech",
		Type:    models.FilterAll,
		Branch:  "",
		Company: "a.b(c",
		Role:    "sde",
		Author:  &author,
	})

	require.Len(t, f, 4)
	assert.Equal(t, bson.E{Key: "domain", Value: "Tech"}, f[0])
	assert.Equal(t, bson.E{Key: "company", Value: primitive.Regex{Pattern: `a\.b\(c`, Options: "i"}}, f[1])
	assert.Equal(t, bson.E{Key: "role", Value: primitive.Regex{Pattern: "sde", Options: "i"}}, f[2])
	assert.Equal(t, bson.E{Key: "author", Value: author}, f[3])

	assert.Empty(t, InterviewFilter(models.InterviewQuery{Domain: "All", Type: "All", Branch: "All"}))
}

func TestOrphanPipeline(t *testing.T) {
	p := OrphanPipeline("tweet", tweetsCollection)
	assert.Equal(t, []string{"$match", "$lookup", "$match", "$project"}, stageNames(p))
}

func TestIndexModelsLikesArePartialUnique(t *testing.T) {
	likes := indexModels()[likesCollection]
	require.GreaterOrEqual(t, len(likes), 2)
	for _, idx := range likes[:2] {
		require.NotNil(t, idx.Options.Unique)
		assert.True(t, *idx.Options.Unique)
		assert.NotNil(t, idx.Options.PartialFilterExpression)
	}
}
