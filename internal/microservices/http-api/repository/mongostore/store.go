// Package mongostore is the MongoDB Data Store. Proximity queries use the
// 2dsphere index on messes.location.
package mongostore

import (
	"context"
	"fmt"

	"campusmess/internal/microservices/http-api/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Connect dials uri, verifies the connection and ensures indexes on dbName.
// The returned func disconnects the client.
func Connect(ctx context.Context, uri, dbName string) (*repository.Store, func(context.Context) error, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("ping mongodb: %w", err)
	}

	db := client.Database(dbName)
	if err := EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, err
	}
	return New(db), client.Disconnect, nil
}

// New builds a Store over db without touching the server.
func New(db *mongo.Database) *repository.Store {
	return &repository.Store{
		Users:   NewUserRepository(db),
		Messes:  NewMessRepository(db),
		Reviews: NewReviewRepository(db),
		Ping: func(ctx context.Context) error {
			return db.Client().Ping(ctx, readpref.Primary())
		},
	}
}

// EnsureIndexes creates the unique email, 2dsphere and review listing indexes.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("email_unique")},
		},
		messesCollection: {
			{Keys: bson.D{{Key: "location", Value: "2dsphere"}}, Options: options.Index().SetName("location_2dsphere")},
			{Keys: bson.D{{Key: "campus", Value: 1}, {Key: "distanceFromCampus", Value: 1}}},
		},
		reviewsCollection: {
			{Keys: bson.D{{Key: "mess", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
	}
	for coll, idx := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("create %s indexes: %w", coll, err)
		}
	}
	return nil
}
