package weather

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

// GetWeather godoc
// @Summary Current weather, forecast and farming advice at the caller's location
// @Tags Weather
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Report
// @Router /api/weather [get]
func (h *Handler) GetWeather(c *gin.Context) {
	farmerID, _ := middleware.CurrentFarmerID(c)

	report, err := h.service.ForFarmer(c.Request.Context(), farmerID)
	if errors.Is(err, farmer.ErrFarmerNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Farmer profile not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch weather data"})
		return
	}
	c.JSON(http.StatusOK, report)
}
