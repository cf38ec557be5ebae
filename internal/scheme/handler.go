package scheme

import (
	"errors"
	"net/http"
	"strconv"

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

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, ErrSchemeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Scheme not found"})
	case errors.Is(err, farmer.ErrFarmerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Farmer profile not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": fallback})
	}
}

// ListSchemes godoc
// @Summary List active schemes
// @Tags Schemes
// @Produce json
// @Security BearerAuth
// @Param state query string false "Keep schemes open to this state"
// @Param crop query string false "Keep schemes open to this crop"
// @Success 200 {array} Scheme
// @Router /api/schemes [get]
func (h *Handler) ListSchemes(c *gin.Context) {
	schemes, err := h.service.List(c.Request.Context(), ListFilter{
		State: c.Query("state"),
		Crop:  c.Query("crop"),
	})
	if err != nil {
		writeError(c, err, "Failed to fetch schemes")
		return
	}
	c.JSON(http.StatusOK, schemes)
}

// Recommended godoc
// @Summary Schemes ranked by eligibility for the caller
// @Tags Schemes
// @Produce json
// @Security BearerAuth
// @Success 200 {array} Recommendation
// @Failure 404 {object} map[string]string
// @Router /api/schemes/recommended [get]
func (h *Handler) Recommended(c *gin.Context) {
	farmerID, _ := middleware.CurrentFarmerID(c)

	recs, err := h.service.Recommend(c.Request.Context(), farmerID)
	if err != nil {
		writeError(c, err, "Failed to fetch recommendations")
		return
	}
	c.JSON(http.StatusOK, recs)
}

// GetScheme godoc
// @Summary One scheme with the caller's match breakdown
// @Tags Schemes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Scheme ID"
// @Success 200 {object} SchemeDetail
// @Failure 404 {object} map[string]string
// @Router /api/schemes/{id} [get]
func (h *Handler) GetScheme(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid scheme ID"})
		return
	}

	farmerID, ok := middleware.CurrentFarmerID(c)
	if !ok {
		sc, err := h.service.Get(c.Request.Context(), uint(id))
		if err != nil {
			writeError(c, err, "Failed to fetch scheme")
			return
		}
		c.JSON(http.StatusOK, sc)
		return
	}

	detail, err := h.service.GetForFarmer(c.Request.Context(), uint(id), farmerID)
	if err != nil {
		writeError(c, err, "Failed to fetch scheme")
		return
	}
	c.JSON(http.StatusOK, detail)
}

// ===========================
// 🔹 ADMIN
// ===========================

// ListAll handles GET /api/admin/schemes, inactive schemes included
func (h *Handler) ListAll(c *gin.Context) {
	schemes, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		writeError(c, err, "Failed to fetch schemes")
		return
	}
	c.JSON(http.StatusOK, schemes)
}

// CreateScheme godoc
// @Summary Add a scheme to the catalog
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SchemeRequest true "Scheme"
// @Success 201 {object} Scheme
// @Router /api/admin/schemes [post]
func (h *Handler) CreateScheme(c *gin.Context) {
	var req SchemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	sc, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err, "Failed to create scheme")
		return
	}
	c.JSON(http.StatusCreated, sc)
}

// UpdateScheme handles PUT /api/admin/schemes/:id
func (h *Handler) UpdateScheme(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid scheme ID"})
		return
	}

	var req SchemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	sc, err := h.service.Update(c.Request.Context(), uint(id), req)
	if err != nil {
		writeError(c, err, "Failed to update scheme")
		return
	}
	c.JSON(http.StatusOK, sc)
}
