package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/anonto42/campus-diary/backend/internal/models"
)

// SweepReport counts what a sweep removed.
type SweepReport struct {
	Comments  int64 `json:"comments"`
	Likes     int64 `json:"likes"`
	SavedRefs int64 `json:"savedRefs"`
}

// MaintenanceRepository reconciles records left behind when a cascade
// delete ran without a transaction and failed part way.
type MaintenanceRepository struct {
	db *mongo.Database
}

func NewMaintenanceRepository(db *mongo.Database) *MaintenanceRepository {
	return &MaintenanceRepository{db: db}
}

// SweepOrphans deletes comments and likes whose post no longer exists and
// pulls missing interviews out of users' saved posts.
func (r *MaintenanceRepository) SweepOrphans(ctx context.Context) (SweepReport, error) {
	var report SweepReport
	kinds := map[models.PostKind]string{
		models.KindInterview: interviewsCollection,
		models.KindTweet:     tweetsCollection,
	}

	for kind, postCollection := range kinds {
		n, err := r.sweep(ctx, commentsCollection, string(kind), postCollection)
		if err != nil {
			return report, err
		}
		report.Comments += n

		n, err = r.sweep(ctx, likesCollection, string(kind), postCollection)
		if err != nil {
			return report, err
		}
		report.Likes += n
	}

	n, err := r.sweepSavedPosts(ctx)
	if err != nil {
		return report, err
	}
	report.SavedRefs = n
	return report, nil
}

// OrphanPipeline selects the ids of documents whose field references a
// missing document in postCollection.
func OrphanPipeline(field, postCollection string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{field: bson.M{"$type": "objectId"}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: postCollection},
			{Key: "localField", Value: field},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "post"},
		}}},
		{{Key: "$match", Value: bson.M{"post": bson.M{"$size": 0}}}},
		{{Key: "$project", Value: bson.M{"_id": 1}}},
	}
}

func (r *MaintenanceRepository) sweep(ctx context.Context, collection, field, postCollection string) (int64, error) {
	coll := r.db.Collection(collection)
	cursor, err := coll.Aggregate(ctx, OrphanPipeline(field, postCollection))
	if err != nil {
		return 0, mongoErr("find orphaned "+collection, err)
	}
	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return 0, mongoErr("decode orphaned "+collection, err)
	}
	if len(docs) == 0 {
		return 0, nil
	}

	ids := make([]primitive.ObjectID, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	res, err := coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, mongoErr("delete orphaned "+collection, err)
	}
	return res.DeletedCount, nil
}

func (r *MaintenanceRepository) sweepSavedPosts(ctx context.Context) (int64, error) {
	users := r.db.Collection(usersCollection)
	saved, err := users.Distinct(ctx, "savedPosts", bson.M{})
	if err != nil {
		return 0, mongoErr("distinct saved posts", err)
	}
	if len(saved) == 0 {
		return 0, nil
	}

	existing, err := r.db.Collection(interviewsCollection).Distinct(ctx, "_id", bson.M{"_id": bson.M{"$in": saved}})
	if err != nil {
		return 0, mongoErr("distinct interviews", err)
	}
	found := make(map[primitive.ObjectID]struct{}, len(existing))
	for _, v := range existing {
		if id, ok := v.(primitive.ObjectID); ok {
			found[id] = struct{}{}
		}
	}
	var missing []primitive.ObjectID
	for _, v := range saved {
		if id, ok := v.(primitive.ObjectID); ok {
			if _, ok := found[id]; !ok {
				missing = append(missing, id)
			}
		}
	}
	if len(missing) == 0 {
		return 0, nil
	}

	res, err := users.UpdateMany(ctx,
		bson.M{"savedPosts": bson.M{"$in": missing}},
		bson.M{"$pull": bson.M{"savedPosts": bson.M{"$in": missing}}})
	if err != nil {
		return 0, mongoErr("pull missing saved posts", err)
	}
	return res.ModifiedCount, nil
}
