package service

import (
	"context"

	"campusmess/internal/apperrors"
	"campusmess/internal/microservices/http-api/dto"
	"campusmess/internal/microservices/http-api/models"
	"campusmess/internal/microservices/http-api/repository"
)

const (
	// DefaultMaxDistanceKm applies when a point is given without maxDistance.
	DefaultMaxDistanceKm = 2.0
	// DetailReviewLimit is the number of newest reviews in a mess detail.
	DetailReviewLimit = 10
)

type MessService interface {
	Nearby(ctx context.Context, query dto.NearbyQuery) ([]models.Mess, error)
	Detail(ctx context.Context, messID string) (*dto.MessDetail, error)
}

type messService struct {
	messRepo   repository.MessRepository
	reviewRepo repository.ReviewRepository
}

func NewMessService(messRepo repository.MessRepository, reviewRepo repository.ReviewRepository) MessService {
	return &messService{messRepo: messRepo, reviewRepo: reviewRepo}
}

// NearbyFilter converts the query into a store filter. Distances travel in meters.
func NearbyFilter(query dto.NearbyQuery) (repository.NearbyFilter, error) {
	filter := repository.NearbyFilter{Campus: query.Campus, Limit: repository.NearbyLimit}
	if (query.Latitude == nil) != (query.Longitude == nil) {
		return filter, apperrors.NewValidationError("latitude and longitude must be provided together")
	}
	if !query.HasPoint() {
		return filter, nil
	}

	km := DefaultMaxDistanceKm
	if query.MaxDistance != nil {
		km = *query.MaxDistance
	}
	point := models.NewPoint(*query.Longitude, *query.Latitude)
	filter.Point = &point
	filter.MaxDistanceMeters = km * 1000
	return filter, nil
}

func (s *messService) Nearby(ctx context.Context, query dto.NearbyQuery) ([]models.Mess, error) {
	filter, err := NearbyFilter(query)
	if err != nil {
		return nil, err
	}
	messes, err := s.messRepo.FindNearby(ctx, filter)
	if err != nil {
		return nil, apperrors.NewInternalError("find nearby mess", err)
	}
	if len(messes) > repository.NearbyLimit {
		messes = messes[:repository.NearbyLimit]
	}
	if messes == nil {
		messes = []models.Mess{}
	}
	return messes, nil
}

func (s *messService) Detail(ctx context.Context, messID string) (*dto.MessDetail, error) {
	mess, err := s.messRepo.FindByID(ctx, messID)
	if err != nil {
		return nil, storeError("find mess", err, MsgMessNotFound)
	}
	reviews, err := s.reviewRepo.FindByMess(ctx, messID, DetailReviewLimit, true)
	if err != nil {
		return nil, apperrors.NewInternalError("find reviews", err)
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return &dto.MessDetail{Mess: mess, Reviews: reviews}, nil
}
