package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"campusmess/internal/metrics"
	"campusmess/internal/microservices/http-api/models"
	"campusmess/internal/microservices/http-api/repository"

	"github.com/rs/zerolog/log"
)

// DefaultTTL applies when NewCachedMessRepository gets a non-positive ttl.
const DefaultTTL = 5 * time.Minute

func messCacheKey(id string, gen int64) string {
	return fmt.Sprintf("campusmess:mess:%s:g%d", id, gen)
}

func messGenerationKey(id string) string {
	return fmt.Sprintf("campusmess:mess:%s:gen", id)
}

// CachedMessRepository serves FindByID from the cache. Entries are keyed by
// a per-mess generation that UpdateAggregate bumps, so a reader that loaded
// the old row and stores it late writes to a key nobody reads any more.
// Cache failures fall through to the store.
type CachedMessRepository struct {
	repository.MessRepository
	cache CacheProvider
	ttl   time.Duration
}

func NewCachedMessRepository(next repository.MessRepository, cache CacheProvider, ttl time.Duration) *CachedMessRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CachedMessRepository{MessRepository: next, cache: cache, ttl: ttl}
}

func (r *CachedMessRepository) FindByID(ctx context.Context, id string) (*models.Mess, error) {
	gen, err := r.generation(ctx, id)
	if err != nil {
		log.Warn().Err(err).Str("mess_id", id).Msg("cache generation unavailable, reading store")
		metrics.RecordCacheLookup(false)
		return r.MessRepository.FindByID(ctx, id)
	}

	key := messCacheKey(id, gen)
	if data, err := r.cache.Get(ctx, key); err == nil {
		var mess models.Mess
		if err := json.Unmarshal(data, &mess); err == nil {
			metrics.RecordCacheLookup(true)
			return &mess, nil
		}
		log.Warn().Str("key", key).Msg("discarding undecodable cache entry")
	}
	metrics.RecordCacheLookup(false)

	mess, err := r.MessRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(mess); err == nil {
		if err := r.cache.Set(ctx, key, data, r.ttl); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to cache mess")
		}
	}
	return mess, nil
}

func (r *CachedMessRepository) UpdateAggregate(ctx context.Context, id string, rating float64, reviewCount int) error {
	if err := r.MessRepository.UpdateAggregate(ctx, id, rating, reviewCount); err != nil {
		return err
	}
	if _, err := r.cache.Incr(ctx, messGenerationKey(id)); err != nil {
		log.Warn().Err(err).Str("mess_id", id).Msg("failed to invalidate cached mess")
	}
	return nil
}

// generation returns the current entry generation of a mess, 0 when unset.
func (r *CachedMessRepository) generation(ctx context.Context, id string) (int64, error) {
	data, err := r.cache.Get(ctx, messGenerationKey(id))
	if errors.Is(err, ErrCacheMiss) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(string(data), 10, 64)
}
