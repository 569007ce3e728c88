package dto

import "campusmess/internal/microservices/http-api/models"

type ClaimOfferRequest struct {
	MessID  string `json:"messId" binding:"required"`
	OfferID string `json:"offerId" binding:"required"`
}

type OffersResponse struct {
	Success bool                 `json:"success"`
	Offers  []models.ActiveOffer `json:"offers"`
}
