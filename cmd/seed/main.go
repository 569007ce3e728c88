package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"campusmess/database"
	"campusmess/internal/config"
	"campusmess/internal/logger"
	"campusmess/internal/microservices/http-api/models"
	"campusmess/internal/microservices/http-api/repository"
	"campusmess/internal/workerpool"
)

const (
	defaultSeedFile = "cmd/seed/messes.json"
	seedWorkers     = 4
)

func main() {
	// exit only after the deferred store shutdown
	exitCode := 0
	defer func() { os.Exit(exitCode) }()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Get().Fatal().Err(err).Msg("could not load config")
	}
	logger.Init("campusmess-seed", cfg.LogLevel, cfg.LogFormat)
	log := logger.Get()

	if cfg.StoreDriver == config.DriverMemory {
		log.Fatal().Msg("seeding the in-memory store is pointless, set STORE_DRIVER to mongo or postgres")
	}

	jsonFile := defaultSeedFile
	if len(os.Args) > 1 {
		jsonFile = os.Args[1]
	}

	messes, err := loadMesses(jsonFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", jsonFile).Msg("failed to read seed file")
	}
	log.Info().Int("count", len(messes)).Str("file", jsonFile).Msg("loaded mess records")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	store, closeStore, err := database.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("could not open store")
	}
	defer func() {
		if err := closeStore(context.Background()); err != nil {
			log.Error().Err(err).Msg("store shutdown")
		}
	}()

	inserted, err := seed(ctx, store.Messes, messes, seedWorkers)
	if err != nil {
		log.Error().Err(err).Int("inserted", inserted).Msg("seeding stopped")
		exitCode = 1
		return
	}
	log.Info().Int("inserted", inserted).Msg("seeding complete")
}

// loadMesses reads a JSON array of mess records.
func loadMesses(path string) ([]models.Mess, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var messes []models.Mess
	if err := json.Unmarshal(raw, &messes); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	for i, mess := range messes {
		if err := validateMess(mess); err != nil {
			return nil, fmt.Errorf("record %d (%q): %w", i, mess.Name, err)
		}
	}
	return messes, nil
}

func validateMess(mess models.Mess) error {
	switch {
	case mess.Name == "":
		return fmt.Errorf("name is required")
	case mess.Location.Type != "Point":
		return fmt.Errorf("location must be a GeoJSON Point")
	case mess.Location.Longitude() < -180 || mess.Location.Longitude() > 180:
		return fmt.Errorf("longitude out of range")
	case mess.Location.Latitude() < -90 || mess.Location.Latitude() > 90:
		return fmt.Errorf("latitude out of range")
	case !mess.Pricing.Valid():
		return fmt.Errorf("pricing must be one of $, $$, $$$")
	}
	return nil
}

// seed inserts messes with a clean aggregate using a bounded pool of writers.
// It returns how many were written and fails unless every record landed.
func seed(ctx context.Context, repo repository.MessRepository, messes []models.Mess, workers int) (int, error) {
	pool := workerpool.New(ctx, workers)
	var (
		inserted atomic.Int64
		refused  []error
	)

	for i := range messes {
		mess := messes[i]
		mess.Rating = 0
		mess.ReviewCount = 0
		accepted := pool.Submit(func(ctx context.Context) error {
			if err := repo.Create(ctx, &mess); err != nil {
				return fmt.Errorf("insert %q: %w", mess.Name, err)
			}
			inserted.Add(1)
			logger.Get().Debug().Str("id", mess.ID).Str("name", mess.Name).Msg("inserted mess")
			return nil
		})
		if !accepted {
			refused = append(refused, fmt.Errorf("insert %q: %w", mess.Name, context.Cause(ctx)))
		}
	}

	err := errors.Join(append(refused, pool.Wait())...)
	n := int(inserted.Load())
	if n < len(messes) {
		err = errors.Join(fmt.Errorf("inserted %d of %d mess records", n, len(messes)), err)
	}
	return n, err
}
