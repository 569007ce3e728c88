package handler

import (
	"net/http"

	"campusmess/internal/microservices/http-api/dto"
	"campusmess/internal/microservices/http-api/middleware"
	"campusmess/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type OfferHandler struct {
	offerService service.OfferService
}

func NewOfferHandler(offerService service.OfferService) *OfferHandler {
	return &OfferHandler{offerService: offerService}
}

// RegisterRoutes registers offer routes. Listing is public, claiming requires auth.
func (h *OfferHandler) RegisterRoutes(router *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	router.GET("", h.ListActive)
	router.POST("/claim", authMiddleware, h.Claim)
}

// ListActive
// GET /api/offers
func (h *OfferHandler) ListActive(c *gin.Context) {
	offers, err := h.offerService.ListActive(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OffersResponse{Success: true, Offers: offers})
}

// Claim
// POST /api/offers/claim
func (h *OfferHandler) Claim(c *gin.Context) {
	var req dto.ClaimOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.offerService.Claim(c.Request.Context(), middleware.UserID(c), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK(service.MsgOfferClaimed))
}
