package service

import (
	"context"
	"time"

	"campusmess/internal/apperrors"
	"campusmess/internal/logger"
	"campusmess/internal/metrics"
	"campusmess/internal/microservices/http-api/dto"
	"campusmess/internal/microservices/http-api/models"
	"campusmess/internal/microservices/http-api/repository"
)

type OfferService interface {
	ListActive(ctx context.Context) ([]models.ActiveOffer, error)
	Claim(ctx context.Context, userID string, req dto.ClaimOfferRequest) error
}

type offerService struct {
	messRepo repository.MessRepository
	now      func() time.Time
}

func NewOfferService(messRepo repository.MessRepository) OfferService {
	return &offerService{messRepo: messRepo, now: time.Now}
}

// ListActive returns every offer whose validUntil is at or after the current time.
func (s *offerService) ListActive(ctx context.Context) ([]models.ActiveOffer, error) {
	offers, err := s.messRepo.ListActiveOffers(ctx, s.now().UTC())
	if err != nil {
		return nil, apperrors.NewInternalError("list offers", err)
	}
	if offers == nil {
		offers = []models.ActiveOffer{}
	}
	return offers, nil
}

// Claim only acknowledges. No claim record is kept.
func (s *offerService) Claim(ctx context.Context, userID string, req dto.ClaimOfferRequest) error {
	metrics.RecordOfferClaimed()
	logger.FromContext(ctx).Info().
		Str("user_id", userID).
		Str("mess_id", req.MessID).
		Str("offer_id", req.OfferID).
		Msg("offer claimed")
	return nil
}
