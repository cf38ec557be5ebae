package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct{ service Service }

func NewHandler(s Service) *Handler { return &Handler{s} }

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=100" example:"farmer1"`
	Password string `json:"password" binding:"required,min=6" example:"password123"`
	Role     string `json:"role" example:"farmer"`
}

// Register godoc
// @Summary Register a new user
// @Description Creates the user and an empty farmer profile, then returns a token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Credentials"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} map[string]string
// @Router /api/auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	resp, err := h.service.Register(c.Request.Context(), RegisterInput(req))
	switch {
	case errors.Is(err, ErrUsernameTaken):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Username already exists"})
		return
	case errors.Is(err, ErrRoleNotAllowed):
		c.JSON(http.StatusForbidden, gin.H{"message": "Admin registration is not allowed"})
		return
	case errors.Is(err, ErrInvalidRole):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid role"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Registration failed"})
		return
	}

	c.JSON(http.StatusCreated, resp)
}

type loginReq struct {
	Username string `json:"username" binding:"required" example:"farmer1"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// Login godoc
// @Summary Log in
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body loginReq true "Credentials"
// @Success 200 {object} AuthResponse
// @Failure 401 {object} map[string]string
// @Router /api/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	resp, err := h.service.Login(c.Request.Context(), LoginInput(req))
	if errors.Is(err, ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Login failed"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Refresh godoc
// @Summary Issue a fresh token for the caller
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} AuthResponse
// @Router /api/auth/refresh [post]
func (h *Handler) Refresh(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Access token required"})
		return
	}

	resp, err := h.service.Refresh(c.Request.Context(), userID)
	if errors.Is(err, ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to refresh token"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Me returns the authenticated user.
func (h *Handler) Me(c *gin.Context) {
	user, err := h.service.GetUserByID(c.Request.Context(), c.GetUint("user_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	c.JSON(http.StatusOK, user.Public())
}
