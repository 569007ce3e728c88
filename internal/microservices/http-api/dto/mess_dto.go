package dto

import "campusmess/internal/microservices/http-api/models"

// NearbyQuery: query string of GET /mess/nearby. maxDistance is in kilometers.
type NearbyQuery struct {
	Latitude    *float64 `form:"latitude" binding:"omitempty,gte=-90,lte=90"`
	Longitude   *float64 `form:"longitude" binding:"omitempty,gte=-180,lte=180"`
	Campus      string   `form:"campus" binding:"max=100"`
	MaxDistance *float64 `form:"maxDistance" binding:"omitempty,gt=0"`
}

// HasPoint reports whether both coordinates were supplied.
func (q NearbyQuery) HasPoint() bool {
	return q.Latitude != nil && q.Longitude != nil
}

type MessListResponse struct {
	Success bool          `json:"success"`
	Data    []models.Mess `json:"data"`
}

// MessDetail: a mess plus its newest reviews
type MessDetail struct {
	Mess    *models.Mess    `json:"mess"`
	Reviews []models.Review `json:"reviews"`
}

type MessDetailResponse struct {
	Success bool       `json:"success"`
	Data    MessDetail `json:"data"`
}
