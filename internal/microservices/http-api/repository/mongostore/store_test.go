package mongostore

import (
	"context"
	"testing"
	"time"

	"campusmess/internal/microservices/http-api/models"
	"campusmess/internal/microservices/http-api/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func messDoc(id primitive.ObjectID, name string, lng, lat float64) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "name", Value: name},
		{Key: "location", Value: bson.D{{Key: "type", Value: "Point"}, {Key: "coordinates", Value: bson.A{lng, lat}}}},
		{Key: "campus", Value: "engineering"},
		{Key: "rating", Value: 4.5},
		{Key: "reviewCount", Value: int32(2)},
		{Key: "specialties", Value: bson.A{"thali"}},
	}
}

func TestUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create sets id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		u := &models.User{Name: "A", Email: "a@x.com", Password: "hash", College: "engineering"}
		require.NoError(mt, NewUserRepository(mt.DB).Create(ctx, u))
		assert.Len(mt, u.ID, 24)
		assert.Equal(mt, []string{}, u.Favorites)
		assert.False(mt, u.CreatedAt.IsZero())
	})

	mt.Run("duplicate email is a conflict", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 11000, Message: "E11000 duplicate key error collection: test.users index: email_unique",
		}))

		err := NewUserRepository(mt.DB).Create(ctx, &models.User{Email: "a@x.com"})
		assert.ErrorIs(mt, err, repository.ErrConflict)
	})

	mt.Run("find by email", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		fav := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "name", Value: "A"},
			{Key: "email", Value: "a@x.com"},
			{Key: "password", Value: "hash"},
			{Key: "favorites", Value: bson.A{fav}},
			{Key: "reviews", Value: bson.A{}},
		}))

		u, err := NewUserRepository(mt.DB).FindByEmail(ctx, "a@x.com")
		require.NoError(mt, err)
		assert.Equal(mt, id.Hex(), u.ID)
		assert.Equal(mt, "hash", u.Password)
		assert.Equal(mt, []string{fav.Hex()}, u.Favorites)
	})

	mt.Run("find by email not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch))

		_, err := NewUserRepository(mt.DB).FindByEmail(ctx, "nobody@x.com")
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})

	mt.Run("malformed id is not found", func(mt *mtest.T) {
		_, err := NewUserRepository(mt.DB).FindByID(ctx, "not-an-object-id")
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})

	mt.Run("toggle favorite reports new state", func(mt *mtest.T) {
		uid, mid := primitive.NewObjectID(), primitive.NewObjectID()
		repo := NewUserRepository(mt.DB)

		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 1},
			{Key: "value", Value: bson.D{{Key: "_id", Value: uid}, {Key: "favorites", Value: bson.A{mid}}}},
		})
		on, err := repo.ToggleFavorite(ctx, uid.Hex(), mid.Hex())
		require.NoError(mt, err)
		assert.True(mt, on)

		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 1},
			{Key: "value", Value: bson.D{{Key: "_id", Value: uid}, {Key: "favorites", Value: bson.A{}}}},
		})
		on, err = repo.ToggleFavorite(ctx, uid.Hex(), mid.Hex())
		require.NoError(mt, err)
		assert.False(mt, on)
	})

	mt.Run("toggle favorite for missing user", func(mt *mtest.T) {
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: nil}})

		_, err := NewUserRepository(mt.DB).ToggleFavorite(ctx, primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex())
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})

	mt.Run("list favorites keeps list order and skips missing", func(mt *mtest.T) {
		uid := primitive.NewObjectID()
		m1, m2, ghost := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: uid},
				{Key: "favorites", Value: bson.A{m2, ghost, m1}},
			}),
			mtest.CreateCursorResponse(0, "test.messes", mtest.FirstBatch,
				messDoc(m1, "First", 77.1, 28.5),
				messDoc(m2, "Second", 77.2, 28.6),
			),
		)

		favs, err := NewUserRepository(mt.DB).ListFavorites(ctx, uid.Hex())
		require.NoError(mt, err)
		require.Len(mt, favs, 2)
		assert.Equal(mt, "Second", favs[0].Name)
		assert.Equal(mt, "First", favs[1].Name)
	})

	mt.Run("append review to unknown user", func(mt *mtest.T) {
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 0}, {Key: "nModified", Value: 0}})

		err := NewUserRepository(mt.DB).AppendReview(ctx, primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex())
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})
}

func TestMessRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create assigns mess and offer ids", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		m := &models.Mess{Name: "North", Location: models.NewPoint(77.19, 28.54), SpecialOffers: []models.Offer{
			{Title: "10% off", ValidUntil: time.Now().Add(time.Hour)},
		}}
		require.NoError(mt, NewMessRepository(mt.DB).Create(ctx, m))
		assert.Len(mt, m.ID, 24)
		assert.Len(mt, m.SpecialOffers[0].ID, 24)
	})

	mt.Run("find by id maps the document", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.messes", mtest.FirstBatch, messDoc(id, "North", 77.19, 28.54)))

		m, err := NewMessRepository(mt.DB).FindByID(ctx, id.Hex())
		require.NoError(mt, err)
		assert.Equal(mt, id.Hex(), m.ID)
		assert.InDelta(mt, 77.19, m.Location.Longitude(), 1e-9)
		assert.InDelta(mt, 28.54, m.Location.Latitude(), 1e-9)
		assert.Equal(mt, 2, m.ReviewCount)
		assert.Equal(mt, []string{}, m.Photos)
		assert.Equal(mt, []models.Offer{}, m.SpecialOffers)
	})

	mt.Run("find by id not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.messes", mtest.FirstBatch))

		_, err := NewMessRepository(mt.DB).FindByID(ctx, primitive.NewObjectID().Hex())
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})

	mt.Run("nearby preserves server order", func(mt *mtest.T) {
		a, b := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.messes", mtest.FirstBatch,
			messDoc(b, "Closest", 77.19, 28.54),
			messDoc(a, "Further", 77.20, 28.55),
		))

		point := models.NewPoint(77.19, 28.54)
		got, err := NewMessRepository(mt.DB).FindNearby(ctx, repository.NearbyFilter{Point: &point, MaxDistanceMeters: 2000})
		require.NoError(mt, err)
		require.Len(mt, got, 2)
		assert.Equal(mt, "Closest", got[0].Name)
		assert.Equal(mt, "Further", got[1].Name)
	})

	mt.Run("update aggregate of missing mess", func(mt *mtest.T) {
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 0}, {Key: "nModified", Value: 0}})

		err := NewMessRepository(mt.DB).UpdateAggregate(ctx, primitive.NewObjectID().Hex(), 4, 1)
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})

	mt.Run("active offers", func(mt *mtest.T) {
		messID, offerID := primitive.NewObjectID(), primitive.NewObjectID()
		until := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.messes", mtest.FirstBatch, bson.D{
			{Key: "id", Value: offerID},
			{Key: "messId", Value: messID},
			{Key: "messName", Value: "North"},
			{Key: "title", Value: "Free dessert"},
			{Key: "description", Value: "with any thali"},
			{Key: "validUntil", Value: until},
		}))

		offers, err := NewMessRepository(mt.DB).ListActiveOffers(ctx, time.Now())
		require.NoError(mt, err)
		require.Len(mt, offers, 1)
		assert.Equal(mt, offerID.Hex(), offers[0].ID)
		assert.Equal(mt, messID.Hex(), offers[0].MessID)
		assert.Equal(mt, "North", offers[0].MessName)
		assert.True(mt, until.Equal(offers[0].ValidUntil))
	})
}

func TestReviewRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		r := &models.Review{User: models.ReviewAuthor{ID: primitive.NewObjectID().Hex()}, MessID: primitive.NewObjectID().Hex(), Rating: 4}
		require.NoError(mt, NewReviewRepository(mt.DB).Create(ctx, r))
		assert.Len(mt, r.ID, 24)
		assert.Equal(mt, []string{}, r.Photos)
	})

	mt.Run("create for malformed mess id", func(mt *mtest.T) {
		r := &models.Review{User: models.ReviewAuthor{ID: primitive.NewObjectID().Hex()}, MessID: "bad", Rating: 4}
		assert.ErrorIs(mt, NewReviewRepository(mt.DB).Create(ctx, r), repository.ErrNotFound)
	})

	mt.Run("find by mess resolves author", func(mt *mtest.T) {
		messID, userID := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.reviews", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "user", Value: userID},
			{Key: "mess", Value: messID},
			{Key: "rating", Value: int32(5)},
			{Key: "comment", Value: "great dal"},
			{Key: "author", Value: bson.A{bson.D{{Key: "_id", Value: userID}, {Key: "name", Value: "Asha"}}}},
		}))

		reviews, err := NewReviewRepository(mt.DB).FindByMess(ctx, messID.Hex(), 10, true)
		require.NoError(mt, err)
		require.Len(mt, reviews, 1)
		assert.Equal(mt, "Asha", reviews[0].User.Name)
		assert.Equal(mt, userID.Hex(), reviews[0].User.ID)
		assert.Equal(mt, 5, reviews[0].Rating)
	})

	mt.Run("aggregate", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.reviews", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: nil},
			{Key: "average", Value: 3.5},
			{Key: "count", Value: int32(4)},
		}))

		avg, count, err := NewReviewRepository(mt.DB).Aggregate(ctx, primitive.NewObjectID().Hex())
		require.NoError(mt, err)
		assert.InDelta(mt, 3.5, avg, 1e-9)
		assert.Equal(mt, 4, count)
	})

	mt.Run("aggregate without reviews", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.reviews", mtest.FirstBatch))

		avg, count, err := NewReviewRepository(mt.DB).Aggregate(ctx, primitive.NewObjectID().Hex())
		require.NoError(mt, err)
		assert.Zero(mt, avg)
		assert.Zero(mt, count)
	})
}
