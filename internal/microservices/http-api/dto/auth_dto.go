package dto

import "campusmess/internal/microservices/http-api/models"

// Data Transfer Objects for authentication requests and responses

// RegisterRequest: payload for user registration
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	College  string `json:"college" binding:"required"`
}

// LoginRequest: payload for user login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse: returned by register and login
type AuthResponse struct {
	Success bool         `json:"success"`
	Token   string       `json:"token"`
	User    *models.User `json:"user"`
}

// ProfileResponse: the caller's user record without the hash
type ProfileResponse struct {
	Success bool         `json:"success"`
	User    *models.User `json:"user"`
}
