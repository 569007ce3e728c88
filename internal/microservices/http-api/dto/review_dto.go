package dto

import "campusmess/internal/microservices/http-api/models"

// CreateReviewRequest: payload for POST /reviews. rating uses the custom "rating" rule (1..5).
type CreateReviewRequest struct {
	MessID  string   `json:"messId" binding:"required"`
	Rating  int      `json:"rating" binding:"rating"`
	Comment string   `json:"comment" binding:"max=2000"`
	Photos  []string `json:"photos" binding:"max=10,dive,max=2048"`
}

type ReviewResponse struct {
	Success bool           `json:"success"`
	Review  *models.Review `json:"review"`
}
