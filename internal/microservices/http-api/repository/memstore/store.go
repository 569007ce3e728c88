// Package memstore is an in-process Store used for development and tests.
package memstore

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"campusmess/internal/microservices/http-api/models"
	"campusmess/internal/microservices/http-api/repository"

	"github.com/google/uuid"
)

const earthRadiusMeters = 6371008.8

type memory struct {
	mu          sync.RWMutex
	users       map[string]*models.User
	usersByMail map[string]string
	messes      map[string]*models.Mess
	reviews     map[string]*models.Review
	reviewOrder []string
	now         func() time.Time
}

// NewStore returns an empty in-memory store.
func NewStore() *repository.Store {
	m := &memory{
		users:       make(map[string]*models.User),
		usersByMail: make(map[string]string),
		messes:      make(map[string]*models.Mess),
		reviews:     make(map[string]*models.Review),
		now:         time.Now,
	}
	return &repository.Store{
		Users:   &userRepository{m},
		Messes:  &messRepository{m},
		Reviews: &reviewRepository{m},
		Ping:    func(context.Context) error { return nil },
	}
}

func newID() string {
	return uuid.New().String()
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneMess(m *models.Mess) models.Mess {
	out := *m
	out.Specialties = cloneStrings(m.Specialties)
	out.Photos = cloneStrings(m.Photos)
	out.SpecialOffers = append([]models.Offer(nil), m.SpecialOffers...)
	if out.SpecialOffers == nil {
		out.SpecialOffers = []models.Offer{}
	}
	return out
}

// distanceMeters is the great-circle distance between two points.
func distanceMeters(a, b models.GeoPoint) float64 {
	lat1 := a.Latitude() * math.Pi / 180
	lat2 := b.Latitude() * math.Pi / 180
	dLat := lat2 - lat1
	dLng := (b.Longitude() - a.Longitude()) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}

type userRepository struct{ m *memory }

func (r *userRepository) Create(_ context.Context, user *models.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, taken := r.m.usersByMail[key]; taken {
		return repository.ErrConflict
	}
	if user.ID == "" {
		user.ID = newID()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = r.m.now()
	}
	if user.Favorites == nil {
		user.Favorites = []string{}
	}
	if user.Reviews == nil {
		user.Reviews = []string{}
	}

	stored := *user
	stored.Favorites = cloneStrings(user.Favorites)
	stored.Reviews = cloneStrings(user.Reviews)
	r.m.users[user.ID] = &stored
	r.m.usersByMail[key] = user.ID
	return nil
}

func (r *userRepository) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	id, ok := r.m.usersByMail[strings.ToLower(email)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u := *r.m.users[id]
	u.Favorites = cloneStrings(u.Favorites)
	u.Reviews = cloneStrings(u.Reviews)
	return &u, nil
}

func (r *userRepository) FindByID(_ context.Context, id string) (*models.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	u, ok := r.m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := u.WithoutPassword()
	out.Favorites = cloneStrings(u.Favorites)
	out.Reviews = cloneStrings(u.Reviews)
	return out, nil
}

func (r *userRepository) AppendReview(_ context.Context, userID, reviewID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	u, ok := r.m.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.Reviews = append(u.Reviews, reviewID)
	return nil
}

func (r *userRepository) ToggleFavorite(_ context.Context, userID, messID string) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	u, ok := r.m.users[userID]
	if !ok {
		return false, repository.ErrNotFound
	}
	for i, id := range u.Favorites {
		if id == messID {
			u.Favorites = append(u.Favorites[:i:i], u.Favorites[i+1:]...)
			return false, nil
		}
	}
	u.Favorites = append(u.Favorites, messID)
	return true, nil
}

func (r *userRepository) ListFavorites(_ context.Context, userID string) ([]models.Mess, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	u, ok := r.m.users[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := make([]models.Mess, 0, len(u.Favorites))
	for _, id := range u.Favorites {
		if mess, ok := r.m.messes[id]; ok {
			out = append(out, cloneMess(mess))
		}
	}
	return out, nil
}

type messRepository struct{ m *memory }

func (r *messRepository) Create(_ context.Context, mess *models.Mess) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if mess.ID == "" {
		mess.ID = newID()
	}
	for i := range mess.SpecialOffers {
		if mess.SpecialOffers[i].ID == "" {
			mess.SpecialOffers[i].ID = newID()
		}
	}
	stored := cloneMess(mess)
	r.m.messes[mess.ID] = &stored
	return nil
}

func (r *messRepository) FindByID(_ context.Context, id string) (*models.Mess, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	mess, ok := r.m.messes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := cloneMess(mess)
	return &out, nil
}

func (r *messRepository) FindNearby(_ context.Context, filter repository.NearbyFilter) ([]models.Mess, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	type candidate struct {
		mess     models.Mess
		distance float64
	}
	var candidates []candidate
	for _, mess := range r.m.messes {
		if filter.Campus != "" && mess.Campus != filter.Campus {
			continue
		}
		c := candidate{mess: cloneMess(mess), distance: mess.DistanceFromCampus}
		if filter.Point != nil {
			c.distance = distanceMeters(*filter.Point, mess.Location)
			if c.distance > filter.MaxDistanceMeters {
				continue
			}
		}
		candidates = append(candidates, c)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].distance == candidates[j].distance {
			return candidates[i].mess.ID < candidates[j].mess.ID
		}
		return candidates[i].distance < candidates[j].distance
	})

	limit := filter.EffectiveLimit()
	out := make([]models.Mess, 0, limit)
	for i := 0; i < len(candidates) && i < limit; i++ {
		out = append(out, candidates[i].mess)
	}
	return out, nil
}

func (r *messRepository) UpdateAggregate(_ context.Context, id string, rating float64, reviewCount int) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	mess, ok := r.m.messes[id]
	if !ok {
		return repository.ErrNotFound
	}
	mess.Rating = rating
	mess.ReviewCount = reviewCount
	return nil
}

func (r *messRepository) ListActiveOffers(_ context.Context, now time.Time) ([]models.ActiveOffer, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	out := []models.ActiveOffer{}
	for _, mess := range r.m.messes {
		for _, offer := range mess.SpecialOffers {
			if !offer.ActiveAt(now) {
				continue
			}
			out = append(out, models.ActiveOffer{
				ID:          offer.ID,
				MessID:      mess.ID,
				MessName:    mess.Name,
				Title:       offer.Title,
				Description: offer.Description,
				ValidUntil:  offer.ValidUntil,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ValidUntil.Equal(out[j].ValidUntil) {
			return out[i].ID < out[j].ID
		}
		return out[i].ValidUntil.Before(out[j].ValidUntil)
	})
	return out, nil
}

type reviewRepository struct{ m *memory }

func (r *reviewRepository) Create(_ context.Context, review *models.Review) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if review.ID == "" {
		review.ID = newID()
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = r.m.now()
	}
	if review.Photos == nil {
		review.Photos = []string{}
	}
	stored := *review
	stored.Photos = cloneStrings(review.Photos)
	r.m.reviews[review.ID] = &stored
	r.m.reviewOrder = append(r.m.reviewOrder, review.ID)
	return nil
}

func (r *reviewRepository) FindByMess(_ context.Context, messID string, limit int, newestFirst bool) ([]models.Review, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	var out []models.Review
	for i := range r.m.reviewOrder {
		// walk newest inserted first so equal timestamps keep insertion order
		id := r.m.reviewOrder[i]
		if newestFirst {
			id = r.m.reviewOrder[len(r.m.reviewOrder)-1-i]
		}
		review := r.m.reviews[id]
		if review.MessID != messID {
			continue
		}
		rv := *review
		rv.Photos = cloneStrings(review.Photos)
		if author, ok := r.m.users[rv.User.ID]; ok {
			rv.User.Name = author.Name
		}
		out = append(out, rv)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if newestFirst {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	if out == nil {
		out = []models.Review{}
	}
	return out, nil
}

func (r *reviewRepository) Aggregate(_ context.Context, messID string) (float64, int, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	sum, count := 0, 0
	for _, review := range r.m.reviews {
		if review.MessID == messID {
			sum += review.Rating
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}
