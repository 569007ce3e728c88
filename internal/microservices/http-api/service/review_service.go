package service

import (
	"context"
	"strings"

	"campusmess/internal/apperrors"
	"campusmess/internal/logger"
	"campusmess/internal/metrics"
	"campusmess/internal/microservices/http-api/dto"
	"campusmess/internal/microservices/http-api/models"
	"campusmess/internal/microservices/http-api/repository"
)

type ReviewService interface {
	Create(ctx context.Context, userID string, req dto.CreateReviewRequest) (*models.Review, error)
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	messRepo   repository.MessRepository
	userRepo   repository.UserRepository
	locks      *keyedMutex
}

func NewReviewService(reviewRepo repository.ReviewRepository, messRepo repository.MessRepository, userRepo repository.UserRepository) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		messRepo:   messRepo,
		userRepo:   userRepo,
		locks:      newKeyedMutex(),
	}
}

// Create stores the review and recomputes the mess aggregate from every review
// of that mess. Writers for one mess are serialized so the last recompute
// always sees all committed reviews.
func (s *reviewService) Create(ctx context.Context, userID string, req dto.CreateReviewRequest) (*models.Review, error) {
	if _, err := s.messRepo.FindByID(ctx, req.MessID); err != nil {
		return nil, storeError("find mess", err, MsgMessNotFound)
	}

	unlock := s.locks.Lock(req.MessID)
	defer unlock()

	review := &models.Review{
		User:    models.ReviewAuthor{ID: userID},
		MessID:  req.MessID,
		Rating:  req.Rating,
		Comment: strings.TrimSpace(req.Comment),
		Photos:  req.Photos,
	}
	if review.Photos == nil {
		review.Photos = []string{}
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, storeError("create review", err, MsgMessNotFound)
	}

	average, count, err := s.reviewRepo.Aggregate(ctx, req.MessID)
	if err != nil {
		return nil, apperrors.NewInternalError("aggregate reviews", err)
	}
	if err := s.messRepo.UpdateAggregate(ctx, req.MessID, average, count); err != nil {
		return nil, storeError("update aggregate", err, MsgMessNotFound)
	}

	if err := s.userRepo.AppendReview(ctx, userID, review.ID); err != nil {
		return nil, storeError("append review", err, MsgUserNotFound)
	}

	metrics.RecordReviewCreated()
	logger.FromContext(ctx).Info().
		Str("review_id", review.ID).
		Str("mess_id", req.MessID).
		Float64("rating", average).
		Int("review_count", count).
		Msg("review created")
	return review, nil
}
