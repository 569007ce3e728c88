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

type userRepository struct {
	users  *mongo.Collection
	messes *mongo.Collection
}

// NewUserRepository creates the MongoDB implementation of UserRepository.
func NewUserRepository(db *mongo.Database) repository.UserRepository {
	return &userRepository{
		users:  db.Collection(usersCollection),
		messes: db.Collection(messesCollection),
	}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	doc := userDocument{
		ID:        primitive.NewObjectID(),
		Name:      user.Name,
		Email:     user.Email,
		Password:  user.Password,
		College:   user.College,
		Favorites: []primitive.ObjectID{},
		Reviews:   []primitive.ObjectID{},
		CreatedAt: user.CreatedAt,
	}
	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrConflict
		}
		return err
	}
	user.ID = doc.ID.Hex()
	user.Favorites = []string{}
	user.Reviews = []string{}
	return nil
}

func (r *userRepository) findOne(ctx context.Context, filter bson.D, opts ...*options.FindOneOptions) (*models.User, error) {
	var doc userDocument
	if err := r.users.FindOne(ctx, filter, opts...).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.D{{Key: "_id", Value: oid}},
		options.FindOne().SetProjection(bson.D{{Key: "password", Value: 0}}))
}

func (r *userRepository) AppendReview(ctx context.Context, userID, reviewID string) error {
	uid, err := parseID(userID)
	if err != nil {
		return err
	}
	rid, err := parseID(reviewID)
	if err != nil {
		return err
	}
	res, err := r.users.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: uid}},
		bson.D{{Key: "$push", Value: bson.D{{Key: "reviews", Value: rid}}}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ToggleFavorite flips membership with a single pipeline update so two
// concurrent toggles can never both append.
func (r *userRepository) ToggleFavorite(ctx context.Context, userID, messID string) (bool, error) {
	uid, err := parseID(userID)
	if err != nil {
		return false, err
	}
	mid, err := parseID(messID)
	if err != nil {
		return false, err
	}

	current := bson.D{{Key: "$ifNull", Value: bson.A{"$favorites", bson.A{}}}}
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{{Key: "favorites", Value: bson.D{{Key: "$cond", Value: bson.A{
			bson.D{{Key: "$in", Value: bson.A{mid, current}}},
			bson.D{{Key: "$filter", Value: bson.D{
				{Key: "input", Value: current},
				{Key: "as", Value: "fav"},
				{Key: "cond", Value: bson.D{{Key: "$ne", Value: bson.A{"$$fav", mid}}}},
			}}},
			bson.D{{Key: "$concatArrays", Value: bson.A{current, bson.A{mid}}}},
		}}}}}}},
	}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.D{{Key: "favorites", Value: 1}})

	var doc userDocument
	if err := r.users.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: uid}}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, repository.ErrNotFound
		}
		return false, err
	}
	for _, fav := range doc.Favorites {
		if fav == mid {
			return true, nil
		}
	}
	return false, nil
}

func (r *userRepository) ListFavorites(ctx context.Context, userID string) ([]models.Mess, error) {
	uid, err := parseID(userID)
	if err != nil {
		return nil, err
	}
	var user userDocument
	err = r.users.FindOne(ctx, bson.D{{Key: "_id", Value: uid}},
		options.FindOne().SetProjection(bson.D{{Key: "favorites", Value: 1}})).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if len(user.Favorites) == 0 {
		return []models.Mess{}, nil
	}

	cursor, err := r.messes.Find(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: user.Favorites}}}})
	if err != nil {
		return nil, err
	}
	var docs []messDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	byID := make(map[primitive.ObjectID]*messDocument, len(docs))
	for i := range docs {
		byID[docs[i].ID] = &docs[i]
	}
	out := make([]models.Mess, 0, len(user.Favorites))
	for _, id := range user.Favorites {
		if doc, ok := byID[id]; ok {
			out = append(out, doc.toModel())
		}
	}
	return out, nil
}
