package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/anonto42/campus-diary/backend/internal/models"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByVerificationToken(ctx context.Context, token string, now time.Time) (*models.User, error)
	GetUserByResetToken(ctx context.Context, tokenHash string, now time.Time) (*models.User, error)
	DeleteUser(ctx context.Context, id primitive.ObjectID) error
	MarkVerified(ctx context.Context, id primitive.ObjectID) error
	SetRefreshToken(ctx context.Context, id primitive.ObjectID, token string) error
	SetPasswordReset(ctx context.Context, id primitive.ObjectID, tokenHash string, expires time.Time) error
	ClearPasswordReset(ctx context.Context, id primitive.ObjectID) error
	UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error
	UpdateProfile(ctx context.Context, id primitive.ObjectID, update models.ProfileUpdate) (*models.User, error)
	ToggleSavedPost(ctx context.Context, id, postID primitive.ObjectID) (bool, []primitive.ObjectID, error)
	PullSavedPost(ctx context.Context, postID primitive.ObjectID) error
	SetRole(ctx context.Context, email string, role models.Role) (*models.User, error)
}

// MongoUserRepository implements UserRepository for MongoDB
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoUserRepository
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{collection: db.Collection(usersCollection)}
}

// CreateUser inserts user. The email index rejects duplicates with ErrDuplicate.
func (r *MongoUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	now := time.Now()
	user.ID = primitive.NewObjectID()
	user.CreatedAt, user.UpdatedAt = now, now
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if user.SavedPosts == nil {
		user.SavedPosts = []primitive.ObjectID{}
	}
	_, err := r.collection.InsertOne(ctx, user)
	return mongoErr("create user", err)
}

func (r *MongoUserRepository) findOne(ctx context.Context, op string, filter bson.M) (*models.User, error) {
	var user models.User
	if err := r.collection.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, mongoErr(op, err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID from MongoDB
func (r *MongoUserRepository) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, "get user", bson.M{"_id": id})
}

func (r *MongoUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "get user by email", bson.M{"email": email})
}

// GetUserByVerificationToken finds the user holding token, provided it has
// not expired at now.
func (r *MongoUserRepository) GetUserByVerificationToken(ctx context.Context, token string, now time.Time) (*models.User, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	return r.findOne(ctx, "get user by verification token", bson.M{
		"verificationToken":        token,
		"verificationTokenExpires": bson.M{"$gt": now},
	})
}

func (r *MongoUserRepository) GetUserByResetToken(ctx context.Context, tokenHash string, now time.Time) (*models.User, error) {
	if tokenHash == "" {
		return nil, ErrNotFound
	}
	return r.findOne(ctx, "get user by reset token", bson.M{
		"passwordResetToken":   tokenHash,
		"passwordResetExpires": bson.M{"$gt": now},
	})
}

func (r *MongoUserRepository) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mongoErr("delete user", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoUserRepository) update(ctx context.Context, op string, id primitive.ObjectID, set, unset bson.M) error {
	if set == nil {
		set = bson.M{}
	}
	set["updatedAt"] = time.Now()
	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return mongoErr(op, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkVerified flags the user verified and drops the verification token.
func (r *MongoUserRepository) MarkVerified(ctx context.Context, id primitive.ObjectID) error {
	return r.update(ctx, "mark verified", id,
		bson.M{"isVerified": true},
		bson.M{"verificationToken": "", "verificationTokenExpires": ""})
}

// SetRefreshToken overwrites the persisted refresh token. An empty token
// removes it.
func (r *MongoUserRepository) SetRefreshToken(ctx context.Context, id primitive.ObjectID, token string) error {
	if token == "" {
		return r.update(ctx, "clear refresh token", id, nil, bson.M{"refreshToken": ""})
	}
	return r.update(ctx, "set refresh token", id, bson.M{"refreshToken": token}, nil)
}

func (r *MongoUserRepository) SetPasswordReset(ctx context.Context, id primitive.ObjectID, tokenHash string, expires time.Time) error {
	return r.update(ctx, "set password reset", id, bson.M{
		"passwordResetToken":   tokenHash,
		"passwordResetExpires": expires,
	}, nil)
}

func (r *MongoUserRepository) ClearPasswordReset(ctx context.Context, id primitive.ObjectID) error {
	return r.update(ctx, "clear password reset", id, nil,
		bson.M{"passwordResetToken": "", "passwordResetExpires": ""})
}

// UpdatePassword stores a new hash and invalidates any pending reset.
func (r *MongoUserRepository) UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	return r.update(ctx, "update password", id,
		bson.M{"password": hash},
		bson.M{"passwordResetToken": "", "passwordResetExpires": ""})
}

// UpdateProfile applies update and returns the updated user.
func (r *MongoUserRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, update models.ProfileUpdate) (*models.User, error) {
	set := bson.M{"updatedAt": time.Now()}
	unset := bson.M{}
	setIf := func(key string, v *string) {
		if v != nil {
			set[key] = *v
		}
	}
	setIf("name", update.Name)
	setIf("batch", update.Batch)
	setIf("branch", update.Branch)
	setIf("avatar", update.Avatar)
	setIf("socialLinks.linkedIn", update.LinkedIn)
	setIf("socialLinks.instagram", update.Instagram)
	if update.UnsetLinkedIn {
		unset["socialLinks.linkedIn"] = ""
	}
	if update.UnsetInstagram {
		unset["socialLinks.instagram"] = ""
	}

	doc := bson.M{"$set": set}
	if len(unset) > 0 {
		doc["$unset"] = unset
	}

	var user models.User
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, doc, opts).Decode(&user); err != nil {
		return nil, mongoErr("update profile", err)
	}
	return &user, nil
}

// ToggleSavedPost adds postID to the user's saved posts, or removes it if
// already present. It reports whether the post is saved afterwards.
func (r *MongoUserRepository) ToggleSavedPost(ctx context.Context, id, postID primitive.ObjectID) (bool, []primitive.ObjectID, error) {
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"savedPosts": 1})

	var user models.User
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "savedPosts": bson.M{"$ne": postID}},
		bson.M{"$push": bson.M{"savedPosts": postID}, "$set": bson.M{"updatedAt": time.Now()}},
		opts,
	).Decode(&user)
	if err == nil {
		return true, user.SavedPosts, nil
	}
	if err != mongo.ErrNoDocuments {
		return false, nil, mongoErr("save post", err)
	}

	err = r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$pull": bson.M{"savedPosts": postID}, "$set": bson.M{"updatedAt": time.Now()}},
		opts,
	).Decode(&user)
	if err != nil {
		return false, nil, mongoErr("unsave post", err)
	}
	return false, user.SavedPosts, nil
}

// PullSavedPost removes postID from every user's saved posts.
func (r *MongoUserRepository) PullSavedPost(ctx context.Context, postID primitive.ObjectID) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"savedPosts": postID},
		bson.M{"$pull": bson.M{"savedPosts": postID}})
	return mongoErr("pull saved post", err)
}

// SetRole changes the role of the user registered with email.
func (r *MongoUserRepository) SetRole(ctx context.Context, email string, role models.Role) (*models.User, error) {
	var user models.User
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"role": role, "updatedAt": time.Now()}},
		opts,
	).Decode(&user)
	if err != nil {
		return nil, mongoErr("set role", err)
	}
	return &user, nil
}
