package market

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

// GetPrices godoc
// @Summary Commodity prices at mandis near the caller
// @Tags Market
// @Produce json
// @Security BearerAuth
// @Success 200 {array} Price
// @Router /api/market/prices [get]
func (h *Handler) GetPrices(c *gin.Context) {
	farmerID, _ := middleware.CurrentFarmerID(c)

	prices, err := h.service.ForFarmer(c.Request.Context(), farmerID)
	if errors.Is(err, farmer.ErrFarmerNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Farmer profile not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch market prices"})
		return
	}
	c.JSON(http.StatusOK, prices)
}
