package application

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/krishimitra/farmer-portal-backend/internal/scheme"
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
	case errors.Is(err, scheme.ErrSchemeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Scheme not found"})
	case errors.Is(err, ErrApplicationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Application not found"})
	case errors.Is(err, ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": fallback})
	}
}

func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// ListBookmarks handles GET /api/bookmarks
func (h *Handler) ListBookmarks(c *gin.Context) {
	farmerID, _ := middleware.CurrentFarmerID(c)

	bookmarks, err := h.service.ListBookmarks(c.Request.Context(), farmerID)
	if err != nil {
		writeError(c, err, "Failed to fetch bookmarks")
		return
	}
	c.JSON(http.StatusOK, bookmarks)
}

// AddBookmark godoc
// @Summary Bookmark a scheme
// @Tags Bookmarks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body BookmarkRequest true "Scheme to bookmark"
// @Success 201 {object} Bookmark
// @Failure 404 {object} map[string]string
// @Router /api/bookmarks [post]
func (h *Handler) AddBookmark(c *gin.Context) {
	farmerID, _ := middleware.CurrentFarmerID(c)

	var req BookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	b, err := h.service.AddBookmark(c.Request.Context(), farmerID, req.SchemeID)
	if err != nil {
		writeError(c, err, "Failed to add bookmark")
		return
	}
	c.JSON(http.StatusCreated, b)
}

// RemoveBookmark handles DELETE /api/bookmarks/:schemeId
func (h *Handler) RemoveBookmark(c *gin.Context) {
	farmerID, _ := middleware.CurrentFarmerID(c)
	schemeID, ok := idParam(c, "schemeId")
	if !ok {
		return
	}

	if err := h.service.RemoveBookmark(c.Request.Context(), farmerID, schemeID); err != nil {
		writeError(c, err, "Failed to remove bookmark")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Bookmark removed"})
}

// ListApplications handles GET /api/applications
func (h *Handler) ListApplications(c *gin.Context) {
	farmerID, _ := middleware.CurrentFarmerID(c)

	apps, err := h.service.List(c.Request.Context(), farmerID)
	if err != nil {
		writeError(c, err, "Failed to fetch applications")
		return
	}
	c.JSON(http.StatusOK, apps)
}

// Submit godoc
// @Summary Apply to a scheme
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SubmitRequest true "Application"
// @Success 201 {object} Application
// @Failure 404 {object} map[string]string
// @Router /api/applications [post]
func (h *Handler) Submit(c *gin.Context) {
	farmerID, _ := middleware.CurrentFarmerID(c)

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	app, err := h.service.Submit(c.Request.Context(), farmerID, req)
	if err != nil {
		writeError(c, err, "Failed to submit application")
		return
	}
	c.JSON(http.StatusCreated, app)
}

// GetApplication handles GET /api/applications/:id
func (h *Handler) GetApplication(c *gin.Context) {
	farmerID, _ := middleware.CurrentFarmerID(c)
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	app, err := h.service.Get(c.Request.Context(), farmerID, id)
	if err != nil {
		writeError(c, err, "Failed to fetch application")
		return
	}
	c.JSON(http.StatusOK, app)
}

// Review godoc
// @Summary Record a review decision
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param body body ReviewRequest true "Decision"
// @Success 200 {object} Application
// @Failure 409 {object} map[string]string
// @Router /api/admin/applications/{id}/review [patch]
func (h *Handler) Review(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	app, err := h.service.Review(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err, "Failed to review application")
		return
	}
	c.JSON(http.StatusOK, app)
}
