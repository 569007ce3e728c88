package mongostore

import (
	"context"
	"time"

	"campusmess/internal/microservices/http-api/models"
	"campusmess/internal/microservices/http-api/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type reviewRepository struct {
	reviews *mongo.Collection
}

// NewReviewRepository creates the MongoDB implementation of ReviewRepository.
func NewReviewRepository(db *mongo.Database) repository.ReviewRepository {
	return &reviewRepository{reviews: db.Collection(reviewsCollection)}
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	uid, err := parseID(review.User.ID)
	if err != nil {
		return err
	}
	mid, err := parseID(review.MessID)
	if err != nil {
		return err
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now().UTC()
	}
	if review.Photos == nil {
		review.Photos = []string{}
	}

	doc := reviewDocument{
		ID:        primitive.NewObjectID(),
		User:      uid,
		Mess:      mid,
		Rating:    review.Rating,
		Comment:   review.Comment,
		Photos:    review.Photos,
		CreatedAt: review.CreatedAt,
	}
	if _, err := r.reviews.InsertOne(ctx, doc); err != nil {
		return err
	}
	review.ID = doc.ID.Hex()
	return nil
}

func (r *reviewRepository) FindByMess(ctx context.Context, messID string, limit int, newestFirst bool) ([]models.Review, error) {
	mid, err := parseID(messID)
	if err != nil {
		return nil, err
	}
	order := 1
	if newestFirst {
		order = -1
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "mess", Value: mid}}}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: order}, {Key: "_id", Value: order}}}},
	}
	if limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: limit}})
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: usersCollection},
			{Key: "localField", Value: "user"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "author"},
		}}},
		bson.D{{Key: "$project", Value: bson.D{{Key: "author.password", Value: 0}}}},
	)

	cursor, err := r.reviews.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var docs []reviewDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]models.Review, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toModel())
	}
	return out, nil
}

// Aggregate runs $avg/$sum over every review of the mess.
func (r *reviewRepository) Aggregate(ctx context.Context, messID string) (float64, int, error) {
	mid, err := parseID(messID)
	if err != nil {
		return 0, 0, err
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "mess", Value: mid}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "average", Value: bson.D{{Key: "$avg", Value: "$rating"}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cursor, err := r.reviews.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, err
	}
	var rows []struct {
		Average float64 `bson:"average"`
		Count   int     `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, 0, err
	}
	if len(rows) == 0 {
		return 0, 0, nil
	}
	return rows[0].Average, rows[0].Count, nil
}
