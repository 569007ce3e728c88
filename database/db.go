package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campusmess/internal/config"
	"campusmess/internal/microservices/http-api/repository"
	"campusmess/internal/microservices/http-api/repository/cache"
	"campusmess/internal/microservices/http-api/repository/memstore"
	"campusmess/internal/microservices/http-api/repository/mongostore"
	"campusmess/internal/microservices/http-api/repository/pgstore"

	"github.com/rs/zerolog"
)

// Closer releases the connections opened by Open.
type Closer func(ctx context.Context) error

// Open connects the store selected by cfg.StoreDriver and, when REDIS_URL is
// set, puts the mess read cache in front of it.
func Open(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*repository.Store, Closer, error) {
	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	closers := []Closer{closeStore}

	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			_ = closeStore(ctx)
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		ttl := time.Duration(cfg.CacheTTL) * time.Second
		store.Messes = cache.NewCachedMessRepository(store.Messes, cache.NewRedisCache(client), ttl)
		closers = append(closers, func(context.Context) error { return client.Close() })
		logger.Info().Dur("ttl", ttl).Msg("Mess read cache enabled")
	}

	return store, closeAll(closers), nil
}

func openStore(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*repository.Store, Closer, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		store, disconnect, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		logger.Info().Str("database", cfg.MongoDatabase()).Msg("Connected to MongoDB")
		return store, disconnect, nil

	case config.DriverPostgres:
		db, err := pgstore.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, err
		}
		if err := pgstore.Migrate(ctx, db); err != nil {
			_ = sqlDB.Close()
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		logger.Info().Msg("Connected to PostgreSQL, schema up to date")
		return pgstore.New(db), func(context.Context) error { return sqlDB.Close() }, nil

	case config.DriverMemory:
		logger.Warn().Msg("Using the in-memory store, data is lost on restart")
		return memstore.NewStore(), func(context.Context) error { return nil }, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// closeAll runs closers in reverse order and joins their errors.
func closeAll(closers []Closer) Closer {
	return func(ctx context.Context) error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](ctx); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}
}
