package client

import (
	"errors"
	"fmt"
	"net/http"

	"campusmess/internal/microservices/http-api/dto"
	"campusmess/internal/microservices/http-api/models"
)

// API is the set of CampusMess calls the CLI makes.
type API interface {
	SetToken(token string)

	Register(req dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(req dto.LoginRequest) (*dto.AuthResponse, error)
	Profile() (*models.User, error)

	Nearby(query NearbyParams) ([]models.Mess, error)
	Mess(id string) (*dto.MessDetail, error)

	AddReview(req dto.CreateReviewRequest) (*models.Review, error)
	ToggleFavorite(messID string) (*dto.ToggleFavoriteResponse, error)
	Favorites() ([]models.Mess, error)

	Offers() ([]models.ActiveOffer, error)
	ClaimOffer(req dto.ClaimOfferRequest) (string, error)
}

// NearbyParams mirrors the nearby query string. Zero values are omitted.
type NearbyParams struct {
	Latitude    *float64
	Longitude   *float64
	Campus      string
	MaxDistance float64 // km
}

// APIError is a {success:false} answer from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Message
}

// IsAuthFailure reports whether err means the stored token is no longer accepted.
func IsAuthFailure(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
}
