package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"user-resource-service/internal/domain/user"
	apperrors "user-resource-service/pkg/errors"
	"user-resource-service/pkg/security"
)

// UserRepoMongo implements the Repository interface on top of a MongoDB
// collection.
type UserRepoMongo struct {
	coll *mongo.Collection
	log  *zap.Logger
}

// NewUserRepoMongo creates a new instance of UserRepoMongo.
func NewUserRepoMongo(coll *mongo.Collection, log *zap.Logger) *UserRepoMongo {
	return &UserRepoMongo{coll: coll, log: log}
}

// userDocument represents the stored shape of a user.
type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Age       int64              `bson:"age"`
	Email     string             `bson:"email"`
	Address   string             `bson:"address,omitempty"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d *userDocument) toDomain() *user.User {
	return &user.User{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Age:       d.Age,
		Email:     d.Email,
		Address:   d.Address,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// EnsureIndexes creates the unique index backing the email uniqueness
// invariant. Safe to call on every startup.
func (r *UserRepoMongo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create email index: %w", err)
	}
	return nil
}

// searchFilter builds the filter for a case-insensitive substring search
// across name, email and address. The pattern is escaped so the search
// string always matches literally.
func searchFilter(search string) bson.M {
	if search == "" {
		return bson.M{}
	}

	re := primitive.Regex{Pattern: security.EscapeSearchPattern(search), Options: "i"}
	return bson.M{
		"$or": bson.A{
			bson.M{"name": re},
			bson.M{"email": re},
			bson.M{"address": re},
		},
	}
}

// Insert stores a new user, assigning id and timestamps. A duplicate-key
// signal on the email index is mapped to AlreadyExistsError.
func (r *UserRepoMongo) Insert(ctx context.Context, u *user.User) (*user.User, error) {
	if u == nil {
		return nil, errors.New("user cannot be nil")
	}

	now := time.Now().UTC()
	doc := userDocument{
		ID:        primitive.NewObjectID(),
		Name:      u.Name,
		Age:       u.Age,
		Email:     u.Email,
		Address:   u.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			r.log.Warn("duplicate email on insert", zap.String("email", u.Email))
			return nil, apperrors.NewAlreadyExistsError("email", "email already exists")
		}
		r.log.Error("failed to insert user", zap.Error(err), zap.String("email", u.Email))
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	r.log.Info("user created in store", zap.String("id", doc.ID.Hex()))
	return doc.toDomain(), nil
}

// Find retrieves one page of users matching the optional search string, in
// the store's natural order.
func (r *UserRepoMongo) Find(ctx context.Context, search string, skip, limit int64) ([]user.User, error) {
	opts := options.Find().SetSkip(skip).SetLimit(limit)

	cursor, err := r.coll.Find(ctx, searchFilter(search), opts)
	if err != nil {
		r.log.Error("failed to find users", zap.Error(err), zap.String("search", search))
		return nil, fmt.Errorf("failed to find users: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		r.log.Error("failed to decode users", zap.Error(err))
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	users := make([]user.User, len(docs))
	for i := range docs {
		users[i] = *docs[i].toDomain()
	}
	return users, nil
}

// Count returns the number of users matching the optional search string.
func (r *UserRepoMongo) Count(ctx context.Context, search string) (int64, error) {
	total, err := r.coll.CountDocuments(ctx, searchFilter(search))
	if err != nil {
		r.log.Error("failed to count users", zap.Error(err), zap.String("search", search))
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return total, nil
}

// UpdateByID applies a partial update atomically and returns the post-update
// document. The unique email index is re-checked by the store against the
// merged document.
func (r *UserRepoMongo) UpdateByID(ctx context.Context, id string, patch user.Patch) (*user.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NewValidationError(apperrors.FieldError{Field: "id", Message: "id must be a valid identifier"})
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Age != nil {
		set["age"] = *patch.Age
	}
	if patch.Email != nil {
		set["email"] = *patch.Email
	}
	if patch.Address != nil {
		set["address"] = *patch.Address
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc userDocument
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			r.log.Warn("user not found for update", zap.String("id", id))
			return nil, apperrors.NewNotFoundError("user", "user does not exist")
		}
		if mongo.IsDuplicateKeyError(err) {
			r.log.Warn("duplicate email on update", zap.String("id", id))
			return nil, apperrors.NewAlreadyExistsError("email", "email already exists")
		}
		r.log.Error("failed to update user", zap.Error(err), zap.String("id", id))
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	r.log.Info("user updated in store", zap.String("id", id))
	return doc.toDomain(), nil
}

// DeleteByID removes the matching user, if present.
func (r *UserRepoMongo) DeleteByID(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.NewValidationError(apperrors.FieldError{Field: "id", Message: "id must be a valid identifier"})
	}

	var doc userDocument
	err = r.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			r.log.Warn("user not found for delete", zap.String("id", id))
			return apperrors.NewNotFoundError("user", "user does not exist")
		}
		r.log.Error("failed to delete user", zap.Error(err), zap.String("id", id))
		return fmt.Errorf("failed to delete user: %w", err)
	}

	r.log.Info("user deleted from store", zap.String("id", id))
	return nil
}
