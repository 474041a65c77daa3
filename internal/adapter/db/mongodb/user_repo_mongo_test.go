package mongodb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"go.uber.org/zap/zaptest"

	"user-resource-service/internal/domain/user"
	apperrors "user-resource-service/pkg/errors"
)

func newTestRepo(mt *mtest.T) *UserRepoMongo {
	return NewUserRepoMongo(mt.Coll, zaptest.NewLogger(mt.T))
}

func userDoc(id primitive.ObjectID, name string, age int64, email string) bson.D {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "name", Value: name},
		{Key: "age", Value: age},
		{Key: "email", Value: email},
		{Key: "createdAt", Value: now},
		{Key: "updatedAt", Value: now},
	}
}

func TestInsert(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("success assigns id and timestamps", func(mt *mtest.T) {
		repo := newTestRepo(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		created, err := repo.Insert(context.Background(), &user.User{
			Name:  "John Doe",
			Age:   30,
			Email: "john@example.com",
		})

		assert.NoError(mt.T, err)
		assert.NotEmpty(mt.T, created.ID)
		assert.True(mt.T, primitive.IsValidObjectID(created.ID))
		assert.False(mt.T, created.CreatedAt.IsZero())
		assert.Equal(mt.T, created.CreatedAt, created.UpdatedAt)
	})

	mt.Run("duplicate email maps to already exists", func(mt *mtest.T) {
		repo := newTestRepo(mt)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error",
		}))

		created, err := repo.Insert(context.Background(), &user.User{
			Name:  "John Doe",
			Age:   30,
			Email: "john@example.com",
		})

		assert.Nil(mt.T, created)

		var dupErr *apperrors.AlreadyExistsError
		assert.ErrorAs(mt.T, err, &dupErr)
	})

	mt.Run("nil user rejected", func(mt *mtest.T) {
		repo := newTestRepo(mt)

		_, err := repo.Insert(context.Background(), nil)
		assert.Error(mt.T, err)
	})
}

func TestFind(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns decoded page", func(mt *mtest.T) {
		repo := newTestRepo(mt)

		id1 := primitive.NewObjectID()
		id2 := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "testdb.users", mtest.FirstBatch,
			userDoc(id1, "John Doe", 30, "john@example.com"),
			userDoc(id2, "Alice", 25, "alice@example.com"),
		))

		users, err := repo.Find(context.Background(), "", 0, 5)

		assert.NoError(mt.T, err)
		assert.Len(mt.T, users, 2)
		assert.Equal(mt.T, id1.Hex(), users[0].ID)
		assert.Equal(mt.T, "Alice", users[1].Name)
	})

	mt.Run("empty page", func(mt *mtest.T) {
		repo := newTestRepo(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "testdb.users", mtest.FirstBatch))

		users, err := repo.Find(context.Background(), "", 45, 5)

		assert.NoError(mt.T, err)
		assert.Empty(mt.T, users)
	})

	mt.Run("command error surfaces", func(mt *mtest.T) {
		repo := newTestRepo(mt)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Message: "bad value",
			Name:    "BadValue",
		}))

		users, err := repo.Find(context.Background(), "", 0, 5)

		assert.Error(mt.T, err)
		assert.Nil(mt.T, users)
	})
}

func TestCount(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns total", func(mt *mtest.T) {
		repo := newTestRepo(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "testdb.users", mtest.FirstBatch,
			bson.D{{Key: "n", Value: int64(12)}},
		))

		total, err := repo.Count(context.Background(), "")

		assert.NoError(mt.T, err)
		assert.Equal(mt.T, int64(12), total)
	})

	mt.Run("no matches", func(mt *mtest.T) {
		repo := newTestRepo(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "testdb.users", mtest.FirstBatch))

		total, err := repo.Count(context.Background(), "nobody")

		assert.NoError(mt.T, err)
		assert.Equal(mt.T, int64(0), total)
	})
}

func TestUpdateByID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns post-update document", func(mt *mtest.T) {
		repo := newTestRepo(mt)

		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{
			Key:   "value",
			Value: userDoc(id, "New Name", 30, "john@example.com"),
		}))

		name := "New Name"
		updated, err := repo.UpdateByID(context.Background(), id.Hex(), user.Patch{Name: &name})

		assert.NoError(mt.T, err)
		assert.Equal(mt.T, "New Name", updated.Name)
		assert.Equal(mt.T, id.Hex(), updated.ID)
	})

	mt.Run("missing user maps to not found", func(mt *mtest.T) {
		repo := newTestRepo(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		name := "New Name"
		updated, err := repo.UpdateByID(context.Background(), primitive.NewObjectID().Hex(), user.Patch{Name: &name})

		assert.Nil(mt.T, updated)

		var nfErr *apperrors.NotFoundError
		assert.ErrorAs(mt.T, err, &nfErr)
	})

	mt.Run("duplicate email maps to already exists", func(mt *mtest.T) {
		repo := newTestRepo(mt)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    11000,
			Message: "E11000 duplicate key error",
			Name:    "DuplicateKey",
		}))

		email := "taken@example.com"
		updated, err := repo.UpdateByID(context.Background(), primitive.NewObjectID().Hex(), user.Patch{Email: &email})

		assert.Nil(mt.T, updated)

		var dupErr *apperrors.AlreadyExistsError
		assert.ErrorAs(mt.T, err, &dupErr)
	})

	mt.Run("malformed id rejected before query", func(mt *mtest.T) {
		repo := newTestRepo(mt)

		name := "New Name"
		updated, err := repo.UpdateByID(context.Background(), "not-an-id", user.Patch{Name: &name})

		assert.Nil(mt.T, updated)

		var vErr *apperrors.ValidationError
		assert.ErrorAs(mt.T, err, &vErr)
	})
}

func TestDeleteByID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("success", func(mt *mtest.T) {
		repo := newTestRepo(mt)

		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{
			Key:   "value",
			Value: userDoc(id, "John Doe", 30, "john@example.com"),
		}))

		err := repo.DeleteByID(context.Background(), id.Hex())
		assert.NoError(mt.T, err)
	})

	mt.Run("missing user maps to not found", func(mt *mtest.T) {
		repo := newTestRepo(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		err := repo.DeleteByID(context.Background(), primitive.NewObjectID().Hex())

		var nfErr *apperrors.NotFoundError
		assert.ErrorAs(mt.T, err, &nfErr)
	})

	mt.Run("malformed id rejected before query", func(mt *mtest.T) {
		repo := newTestRepo(mt)

		err := repo.DeleteByID(context.Background(), "123")

		var vErr *apperrors.ValidationError
		assert.ErrorAs(mt.T, err, &vErr)
	})
}

func TestSearchFilter(t *testing.T) {
	t.Run("empty search matches everything", func(t *testing.T) {
		assert.Equal(t, bson.M{}, searchFilter(""))
	})

	t.Run("search spans name email and address", func(t *testing.T) {
		filter := searchFilter("john")

		or, ok := filter["$or"].(bson.A)
		assert.True(t, ok)
		assert.Len(t, or, 3)
	})

	t.Run("regex metacharacters are escaped", func(t *testing.T) {
		filter := searchFilter("a.b*")

		or := filter["$or"].(bson.A)
		re := or[0].(bson.M)["name"].(primitive.Regex)
		assert.Equal(t, `a\.b\*`, re.Pattern)
		assert.Equal(t, "i", re.Options)
	})
}
