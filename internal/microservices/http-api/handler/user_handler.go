package handler

import (
	"net/http"

	"campusmess/internal/microservices/http-api/dto"
	"campusmess/internal/microservices/http-api/middleware"
	"campusmess/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterRoutes registers user routes. The group must already be authenticated.
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/profile", h.GetProfile)
	router.POST("/favorites/toggle", h.ToggleFavorite)
	router.GET("/favorites", h.ListFavorites)
}

// GetProfile
// GET /api/users/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	user, err := h.userService.GetProfile(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ProfileResponse{Success: true, User: user})
}

// ToggleFavorite adds the mess to the caller's favorites, or removes it when already there
// POST /api/users/favorites/toggle
func (h *UserHandler) ToggleFavorite(c *gin.Context) {
	var req dto.ToggleFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	isFavorite, err := h.userService.ToggleFavorite(c.Request.Context(), middleware.UserID(c), req.MessID)
	if err != nil {
		respondError(c, err)
		return
	}

	message := service.MsgRemovedFavorite
	if isFavorite {
		message = service.MsgAddedFavorite
	}
	c.JSON(http.StatusOK, dto.ToggleFavoriteResponse{
		Success:    true,
		Message:    message,
		IsFavorite: isFavorite,
	})
}

// ListFavorites
// GET /api/users/favorites
func (h *UserHandler) ListFavorites(c *gin.Context) {
	favorites, err := h.userService.ListFavorites(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FavoritesResponse{Success: true, Favorites: favorites})
}
