package handler

import (
	"net/http"

	"campusmess/internal/microservices/http-api/dto"
	"campusmess/internal/microservices/http-api/middleware"
	"campusmess/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	reviewService service.ReviewService
}

func NewReviewHandler(reviewService service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// RegisterRoutes registers review routes (already authenticated by parent middleware)
func (h *ReviewHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("", h.Create)
}

// Create
// POST /api/reviews
func (h *ReviewHandler) Create(c *gin.Context) {
	var req dto.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	review, err := h.reviewService.Create(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ReviewResponse{Success: true, Review: review})
}
