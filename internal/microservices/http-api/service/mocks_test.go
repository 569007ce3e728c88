package service

import (
	"context"
	"time"

	"campusmess/internal/microservices/http-api/models"
	"campusmess/internal/microservices/http-api/repository"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) AppendReview(ctx context.Context, userID, reviewID string) error {
	args := m.Called(ctx, userID, reviewID)
	return args.Error(0)
}

func (m *MockUserRepository) ToggleFavorite(ctx context.Context, userID, messID string) (bool, error) {
	args := m.Called(ctx, userID, messID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ListFavorites(ctx context.Context, userID string) ([]models.Mess, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Mess), args.Error(1)
}

// MockMessRepository mocks the MessRepository interface
type MockMessRepository struct {
	mock.Mock
}

func (m *MockMessRepository) Create(ctx context.Context, mess *models.Mess) error {
	args := m.Called(ctx, mess)
	return args.Error(0)
}

func (m *MockMessRepository) FindByID(ctx context.Context, id string) (*models.Mess, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Mess), args.Error(1)
}

func (m *MockMessRepository) FindNearby(ctx context.Context, filter repository.NearbyFilter) ([]models.Mess, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Mess), args.Error(1)
}

func (m *MockMessRepository) UpdateAggregate(ctx context.Context, id string, rating float64, reviewCount int) error {
	args := m.Called(ctx, id, rating, reviewCount)
	return args.Error(0)
}

func (m *MockMessRepository) ListActiveOffers(ctx context.Context, now time.Time) ([]models.ActiveOffer, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ActiveOffer), args.Error(1)
}

// MockReviewRepository mocks the ReviewRepository interface
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, review *models.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) FindByMess(ctx context.Context, messID string, limit int, newestFirst bool) ([]models.Review, error) {
	args := m.Called(ctx, messID, limit, newestFirst)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Review), args.Error(1)
}

func (m *MockReviewRepository) Aggregate(ctx context.Context, messID string) (float64, int, error) {
	args := m.Called(ctx, messID)
	return args.Get(0).(float64), args.Int(1), args.Error(2)
}
