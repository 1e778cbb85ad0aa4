package repositories

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/anonto42/campus-diary/backend/internal/models"
)

// InterviewRepository defines the interface for interview data operations
type InterviewRepository interface {
	CreateInterview(ctx context.Context, interview *models.Interview) error
	GetInterviewByID(ctx context.Context, id primitive.ObjectID) (*models.Interview, error)
	GetInterviewView(ctx context.Context, id primitive.ObjectID, viewer *primitive.ObjectID) (*models.InterviewView, error)
	ListInterviews(ctx context.Context, q models.InterviewQuery, viewer *primitive.ObjectID) ([]models.InterviewView, int64, error)
	UpdateInterview(ctx context.Context, id primitive.ObjectID, update models.InterviewUpdate) error
	DeleteInterview(ctx context.Context, id primitive.ObjectID) error
}

// MongoInterviewRepository implements InterviewRepository for MongoDB
type MongoInterviewRepository struct {
	collection *mongo.Collection
}

func NewMongoInterviewRepository(db *mongo.Database) *MongoInterviewRepository {
	return &MongoInterviewRepository{collection: db.Collection(interviewsCollection)}
}

func (r *MongoInterviewRepository) CreateInterview(ctx context.Context, interview *models.Interview) error {
	now := time.Now()
	interview.ID = primitive.NewObjectID()
	interview.CreatedAt, interview.UpdatedAt = now, now
	if interview.Rounds == nil {
		interview.Rounds = []models.Round{}
	}
	_, err := r.collection.InsertOne(ctx, interview)
	return mongoErr("create interview", err)
}

func (r *MongoInterviewRepository) GetInterviewByID(ctx context.Context, id primitive.ObjectID) (*models.Interview, error) {
	var interview models.Interview
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&interview); err != nil {
		return nil, mongoErr("get interview", err)
	}
	return &interview, nil
}

// GetInterviewView returns one interview in its read model form.
func (r *MongoInterviewRepository) GetInterviewView(ctx context.Context, id primitive.ObjectID, viewer *primitive.ObjectID) (*models.InterviewView, error) {
	pipeline := FeedPipeline(models.KindInterview, bson.D{{Key: "_id", Value: id}}, viewer, models.Pagination{})
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, mongoErr("aggregate interview", err)
	}
	var views []models.InterviewView
	if err := cursor.All(ctx, &views); err != nil {
		return nil, mongoErr("decode interview", err)
	}
	if len(views) == 0 {
		return nil, ErrNotFound
	}
	return &views[0], nil
}

// ListInterviews returns one page of interviews matching q and the total
// number of matches.
func (r *MongoInterviewRepository) ListInterviews(ctx context.Context, q models.InterviewQuery, viewer *primitive.ObjectID) ([]models.InterviewView, int64, error) {
	match := InterviewFilter(q)

	total, err := r.collection.CountDocuments(ctx, match)
	if err != nil {
		return nil, 0, mongoErr("count interviews", err)
	}

	cursor, err := r.collection.Aggregate(ctx, FeedPipeline(models.KindInterview, match, viewer, q.Pagination))
	if err != nil {
		return nil, 0, mongoErr("aggregate interviews", err)
	}
	views := []models.InterviewView{}
	if err := cursor.All(ctx, &views); err != nil {
		return nil, 0, mongoErr("decode interviews", err)
	}
	return views, total, nil
}

// InterviewFilter translates q into a match document. Exact filters set to
// "All" or left empty are ignored; company and role match as
// case-insensitive literal substrings.
func InterviewFilter(q models.InterviewQuery) bson.D {
	filter := bson.D{}
	exact := func(key, v string) {
		if v != "" && v != models.FilterAll {
			filter = append(filter, bson.E{Key: key, Value: v})
		}
	}
	exact("domain", q.Domain)
	exact("type", q.Type)
	exact("branch", q.Branch)

	contains := func(key, v string) {
		if v != "" {
			filter = append(filter, bson.E{Key: key, Value: primitive.Regex{Pattern: regexp.QuoteMeta(v), Options: "i"}})
		}
	}
	contains("company", q.Company)
	contains("role", q.Role)

	if q.Author != nil {
		filter = append(filter, bson.E{Key: "author", Value: *q.Author})
	}
	if q.IDs != nil {
		filter = append(filter, bson.E{Key: "_id", Value: bson.M{"$in": q.IDs}})
	}
	return filter
}

// UpdateInterview applies the set fields of update.
func (r *MongoInterviewRepository) UpdateInterview(ctx context.Context, id primitive.ObjectID, update models.InterviewUpdate) error {
	set := bson.M{"updatedAt": time.Now()}
	setIf := func(key string, v *string) {
		if v != nil {
			set[key] = *v
		}
	}
	setIf("company", update.Company)
	setIf("role", update.Role)
	setIf("type", update.Type)
	setIf("domain", update.Domain)
	setIf("interviewDate", update.InterviewDate)
	setIf("hrRound", update.HRRound)
	setIf("offerDetails", update.OfferDetails)
	setIf("tips", update.Tips)
	if update.Rounds != nil {
		rounds := *update.Rounds
		if rounds == nil {
			rounds = []models.Round{}
		}
		set["rounds"] = rounds
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return mongoErr("update interview", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoInterviewRepository) DeleteInterview(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mongoErr("delete interview", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
