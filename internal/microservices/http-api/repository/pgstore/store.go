// Package pgstore is the PostgreSQL/PostGIS Data Store built on gorm.
package pgstore

import (
	"context"
	"errors"
	"fmt"

	"campusmess/internal/microservices/http-api/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// uniqueViolation is the SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

// the expression index backing ST_DWithin on (longitude, latitude)
const locationIndexSQL = `CREATE INDEX IF NOT EXISTS idx_messes_location
	ON messes USING GIST ((ST_MakePoint(longitude, latitude)::geography))`

// Open connects to dsn and returns the gorm handle.
func Open(ctx context.Context, dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// Migrate enables PostGIS and creates the schema.
func Migrate(ctx context.Context, db *gorm.DB) error {
	tx := db.WithContext(ctx)
	if err := tx.Exec("CREATE EXTENSION IF NOT EXISTS postgis").Error; err != nil {
		return fmt.Errorf("enable postgis: %w", err)
	}
	if err := tx.AutoMigrate(&userRow{}, &messRow{}, &offerRow{}, &reviewRow{}, &favoriteRow{}, &userReviewRow{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if err := tx.Exec(locationIndexSQL).Error; err != nil {
		return fmt.Errorf("create location index: %w", err)
	}
	return nil
}

// New builds a Store over db.
func New(db *gorm.DB) *repository.Store {
	return &repository.Store{
		Users:   NewUserRepository(db),
		Messes:  NewMessRepository(db),
		Reviews: NewReviewRepository(db),
		Ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
}

// parseID rejects ids that are not UUIDs before they reach the uuid columns.
func parseID(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", repository.ErrNotFound
	}
	return parsed.String(), nil
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return repository.ErrConflict
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return repository.ErrConflict
	}
	return err
}
