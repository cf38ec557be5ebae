package farmer

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

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
	case errors.Is(err, ErrFarmerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Farmer profile not found"})
	case errors.Is(err, ErrLandNotFound), errors.Is(err, ErrCropNotFound), errors.Is(err, ErrLivestockNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": fallback})
	}
}

func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid ID"})
		return 0, false
	}
	return uint(id), true
}

// ===========================
// 🔹 PROFILE ENDPOINTS
// ===========================

// GetProfile godoc
// @Summary Get the caller's farmer profile with lands, crops and livestock
// @Tags Farmer
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Farmer
// @Failure 404 {object} map[string]string
// @Router /api/farmer/profile [get]
func (h *Handler) GetProfile(c *gin.Context) {
	farmerID, _ := middleware.CurrentFarmerID(c)

	profile, err := h.service.GetProfile(c.Request.Context(), farmerID)
	if err != nil {
		writeError(c, err, "Failed to fetch profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile godoc
// @Summary Partially update the caller's farmer profile
// @Tags Farmer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UpdateProfileRequest true "Fields to change"
// @Success 200 {object} Farmer
// @Failure 400 {object} map[string]string
// @Router /api/farmer/profile [put]
func (h *Handler) UpdateProfile(c *gin.Context) {
	farmerID, _ := middleware.CurrentFarmerID(c)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), farmerID, req)
	if err != nil {
		writeError(c, err, "Failed to update profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// ===========================
// 🔹 HOLDINGS
// ===========================

// AddLand godoc
// @Summary Add a land parcel
// @Tags Farmer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body LandRequest true "Land"
// @Success 201 {object} Land
// @Router /api/farmer/lands [post]
func (h *Handler) AddLand(c *gin.Context) {
	farmerID, _ := middleware.CurrentFarmerID(c)

	var req LandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	land, err := h.service.AddLand(c.Request.Context(), farmerID, req)
	if err != nil {
		writeError(c, err, "Failed to add land")
		return
	}
	c.JSON(http.StatusCreated, land)
}

// UpdateLand handles PUT /api/farmer/lands/:id
func (h *Handler) UpdateLand(c *gin.Context) {
	farmerID, _ := middleware.CurrentFarmerID(c)
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req LandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	land, err := h.service.UpdateLand(c.Request.Context(), farmerID, id, req)
	if err != nil {
		writeError(c, err, "Failed to update land")
		return
	}
	c.JSON(http.StatusOK, land)
}

// AddCrop godoc
// @Summary Add a crop record
// @Tags Farmer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CropRequest true "Crop"
// @Success 201 {object} Crop
// @Router /api/farmer/crops [post]
func (h *Handler) AddCrop(c *gin.Context) {
	farmerID, _ := middleware.CurrentFarmerID(c)

	var req CropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	crop, err := h.service.AddCrop(c.Request.Context(), farmerID, req)
	if err != nil {
		writeError(c, err, "Failed to add crop")
		return
	}
	c.JSON(http.StatusCreated, crop)
}

// UpdateCrop handles PUT /api/farmer/crops/:id
func (h *Handler) UpdateCrop(c *gin.Context) {
	farmerID, _ := middleware.CurrentFarmerID(c)
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req CropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	crop, err := h.service.UpdateCrop(c.Request.Context(), farmerID, id, req)
	if err != nil {
		writeError(c, err, "Failed to update crop")
		return
	}
	c.JSON(http.StatusOK, crop)
}

// AddLivestock godoc
// @Summary Add livestock
// @Tags Farmer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body LivestockRequest true "Livestock"
// @Success 201 {object} Livestock
// @Router /api/farmer/livestock [post]
func (h *Handler) AddLivestock(c *gin.Context) {
	farmerID, _ := middleware.CurrentFarmerID(c)

	var req LivestockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	animal, err := h.service.AddLivestock(c.Request.Context(), farmerID, req)
	if err != nil {
		writeError(c, err, "Failed to add livestock")
		return
	}
	c.JSON(http.StatusCreated, animal)
}

// UpdateLivestock handles PUT /api/farmer/livestock/:id
func (h *Handler) UpdateLivestock(c *gin.Context) {
	farmerID, _ := middleware.CurrentFarmerID(c)
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req LivestockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	animal, err := h.service.UpdateLivestock(c.Request.Context(), farmerID, id, req)
	if err != nil {
		writeError(c, err, "Failed to update livestock")
		return
	}
	c.JSON(http.StatusOK, animal)
}
