package dashboard

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/krishimitra/farmer-portal-backend/internal/farmer"
	"github.com/krishimitra/farmer-portal-backend/middleware"
)

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

// GetStats godoc
// @Summary Dashboard counters for the caller
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Stats
// @Router /api/dashboard/stats [get]
func (h *Handler) GetStats(c *gin.Context) {
	farmerID, _ := middleware.CurrentFarmerID(c)

	stats, err := h.service.GetStats(c.Request.Context(), farmerID)
	if errors.Is(err, farmer.ErrFarmerNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Farmer profile not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch dashboard stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}
