package assistant

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

// Translate godoc
// @Summary Translate text into an Indian language
// @Tags Assistant
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body TranslateRequest true "Text and target language"
// @Success 200 {object} Translation
// @Failure 503 {object} map[string]string
// @Router /api/translate [post]
func (h *Handler) Translate(c *gin.Context) {
	var req TranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	out, err := h.service.Translate(c.Request.Context(), req)
	switch {
	case errors.Is(err, ErrTranslationUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Translation service not available"})
	case errors.Is(err, ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Translation failed"})
	default:
		c.JSON(http.StatusOK, out)
	}
}

// FarmingTips godoc
// @Summary Farming tips for the caller's crops and location
// @Tags Assistant
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string][]string
// @Router /api/farming/tips [get]
func (h *Handler) FarmingTips(c *gin.Context) {
	farmerID, _ := middleware.CurrentFarmerID(c)

	tips, err := h.service.FarmingTips(c.Request.Context(), farmerID)
	if errors.Is(err, farmer.ErrFarmerNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Farmer profile not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate farming tips"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tips": tips})
}
