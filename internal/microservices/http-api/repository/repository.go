package repository

import (
	"context"
	"errors"
	"time"

	"campusmess/internal/microservices/http-api/models"
)

var (
	// ErrNotFound is returned when a record does not exist, including for ids the backend cannot parse.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a unique constraint (user email) is violated.
	ErrConflict = errors.New("record already exists")
)

// NearbyLimit caps every nearby query.
const NearbyLimit = 20

// NearbyFilter selects mess records for the nearby listing.
// When Point is nil the query is campus-only and ordered by DistanceFromCampus.
type NearbyFilter struct {
	Campus            string
	Point             *models.GeoPoint
	MaxDistanceMeters float64
	Limit             int
}

// EffectiveLimit returns Limit bounded by NearbyLimit.
func (f NearbyFilter) EffectiveLimit() int {
	if f.Limit <= 0 || f.Limit > NearbyLimit {
		return NearbyLimit
	}
	return f.Limit
}

// UserRepository defines user data operations.
type UserRepository interface {
	// Create fails with ErrConflict when the email is taken and sets user.ID.
	Create(ctx context.Context, user *models.User) error
	// FindByEmail returns the user including the password hash.
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// FindByID returns the user without the password hash.
	FindByID(ctx context.Context, id string) (*models.User, error)
	AppendReview(ctx context.Context, userID, reviewID string) error
	// ToggleFavorite flips messID membership and returns the new state.
	ToggleFavorite(ctx context.Context, userID, messID string) (bool, error)
	// ListFavorites resolves favorites in list order, skipping missing mess.
	ListFavorites(ctx context.Context, userID string) ([]models.Mess, error)
}

// MessRepository defines mess data operations.
type MessRepository interface {
	// Create is used by seeding only. It sets mess.ID and offer ids when empty.
	Create(ctx context.Context, mess *models.Mess) error
	FindByID(ctx context.Context, id string) (*models.Mess, error)
	FindNearby(ctx context.Context, filter NearbyFilter) ([]models.Mess, error)
	// UpdateAggregate persists the derived rating and review count.
	UpdateAggregate(ctx context.Context, id string, rating float64, reviewCount int) error
	// ListActiveOffers returns one entry per offer with ValidUntil >= now.
	ListActiveOffers(ctx context.Context, now time.Time) ([]models.ActiveOffer, error)
}

// ReviewRepository defines review data operations.
type ReviewRepository interface {
	// Create sets review.ID and review.CreatedAt when empty.
	Create(ctx context.Context, review *models.Review) error
	// FindByMess returns at most limit reviews with the author name resolved.
	FindByMess(ctx context.Context, messID string, limit int, newestFirst bool) ([]models.Review, error)
	// Aggregate computes mean rating and count over every review of messID.
	Aggregate(ctx context.Context, messID string) (average float64, count int, err error)
}

// Store bundles the repositories of one backend.
type Store struct {
	Users   UserRepository
	Messes  MessRepository
	Reviews ReviewRepository

	// Ping checks backend connectivity, used by the health endpoint.
	Ping func(ctx context.Context) error
}
