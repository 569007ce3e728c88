package handler

import (
	"net/http"
	"strings"

	"campusmess/internal/microservices/http-api/dto"
	"campusmess/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type MessHandler struct {
	messService service.MessService
}

func NewMessHandler(messService service.MessService) *MessHandler {
	return &MessHandler{messService: messService}
}

// RegisterRoutes registers the public mess routes.
// /nearby is registered before /:id so it is never read as an id.
func (h *MessHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/nearby", h.Nearby)
	router.GET("/:id", h.Detail)
}

// Nearby lists mess records by campus and/or distance from a point
// GET /api/mess/nearby?latitude=&longitude=&campus=&maxDistance=
func (h *MessHandler) Nearby(c *gin.Context) {
	dropBlankParams(c.Request)
	var query dto.NearbyQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindError(c, err)
		return
	}

	messes, err := h.messService.Nearby(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessListResponse{Success: true, Data: messes})
}

// Detail returns a mess with its newest reviews
// GET /api/mess/:id
func (h *MessHandler) Detail(c *gin.Context) {
	detail, err := h.messService.Detail(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessDetailResponse{Success: true, Data: *detail})
}

// dropBlankParams removes query keys that carry only blank values, so
// "latitude=" binds as an absent coordinate rather than 0.
func dropBlankParams(r *http.Request) {
	values := r.URL.Query()
	changed := false
	for key, vals := range values {
		if strings.TrimSpace(strings.Join(vals, "")) == "" {
			values.Del(key)
			changed = true
		}
	}
	if changed {
		r.URL.RawQuery = values.Encode()
	}
}
