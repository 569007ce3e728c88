package dto

import "campusmess/internal/microservices/http-api/models"

type ToggleFavoriteRequest struct {
	MessID string `json:"messId" binding:"required"`
}

type ToggleFavoriteResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	IsFavorite bool   `json:"isFavorite"`
}

type FavoritesResponse struct {
	Success   bool          `json:"success"`
	Favorites []models.Mess `json:"favorites"`
}
