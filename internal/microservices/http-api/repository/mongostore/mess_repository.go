package mongostore

import (
	"context"
	"errors"
	"time"

	"campusmess/internal/microservices/http-api/models"
	"campusmess/internal/microservices/http-api/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type messRepository struct {
	messes *mongo.Collection
}

// NewMessRepository creates the MongoDB implementation of MessRepository.
func NewMessRepository(db *mongo.Database) repository.MessRepository {
	return &messRepository{messes: db.Collection(messesCollection)}
}

func (r *messRepository) Create(ctx context.Context, mess *models.Mess) error {
	doc, err := newMessDocument(mess)
	if err != nil {
		return err
	}
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	if _, err := r.messes.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrConflict
		}
		return err
	}
	mess.ID = doc.ID.Hex()
	for i := range mess.SpecialOffers {
		mess.SpecialOffers[i].ID = doc.SpecialOffers[i].ID.Hex()
	}
	return nil
}

func (r *messRepository) FindByID(ctx context.Context, id string) (*models.Mess, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var doc messDocument
	if err := r.messes.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	mess := doc.toModel()
	return &mess, nil
}

// FindNearby uses $near, which already returns documents nearest-first.
// Without a point it falls back to distanceFromCampus ordering.
func (r *messRepository) FindNearby(ctx context.Context, filter repository.NearbyFilter) ([]models.Mess, error) {
	query := bson.D{}
	if filter.Campus != "" {
		query = append(query, bson.E{Key: "campus", Value: filter.Campus})
	}

	opts := options.Find().SetLimit(int64(filter.EffectiveLimit()))
	if filter.Point != nil {
		query = append(query, bson.E{Key: "location", Value: bson.D{{Key: "$near", Value: bson.D{
			{Key: "$geometry", Value: bson.D{
				{Key: "type", Value: "Point"},
				{Key: "coordinates", Value: bson.A{filter.Point.Longitude(), filter.Point.Latitude()}},
			}},
			{Key: "$maxDistance", Value: filter.MaxDistanceMeters},
		}}}})
	} else {
		opts.SetSort(bson.D{{Key: "distanceFromCampus", Value: 1}, {Key: "_id", Value: 1}})
	}

	cursor, err := r.messes.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	var docs []messDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]models.Mess, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toModel())
	}
	return out, nil
}

func (r *messRepository) UpdateAggregate(ctx context.Context, id string, rating float64, reviewCount int) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := r.messes.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "rating", Value: rating},
			{Key: "reviewCount", Value: reviewCount},
		}}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListActiveOffers unwinds specialOffers so each offer is judged on its own expiry.
func (r *messRepository) ListActiveOffers(ctx context.Context, now time.Time) ([]models.ActiveOffer, error) {
	active := bson.D{{Key: "specialOffers.validUntil", Value: bson.D{{Key: "$gte", Value: now.UTC()}}}}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: active}},
		{{Key: "$unwind", Value: "$specialOffers"}},
		{{Key: "$match", Value: active}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "id", Value: "$specialOffers._id"},
			{Key: "messId", Value: "$_id"},
			{Key: "messName", Value: "$name"},
			{Key: "title", Value: "$specialOffers.title"},
			{Key: "description", Value: "$specialOffers.description"},
			{Key: "validUntil", Value: "$specialOffers.validUntil"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "validUntil", Value: 1}, {Key: "id", Value: 1}}}},
	}

	cursor, err := r.messes.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var docs []activeOfferDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]models.ActiveOffer, 0, len(docs))
	for _, d := range docs {
		out = append(out, models.ActiveOffer{
			ID:          d.ID.Hex(),
			MessID:      d.MessID.Hex(),
			MessName:    d.MessName,
			Title:       d.Title,
			Description: d.Description,
			ValidUntil:  d.ValidUntil,
		})
	}
	return out, nil
}
