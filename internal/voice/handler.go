package voice

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type CommandRequest struct {
	Command string `json:"command" binding:"required" example:"show me the weather"`
}

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// Command godoc
// @Summary Interpret a transcribed voice command
// @Tags Voice
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CommandRequest true "Command"
// @Success 200 {object} Result
// @Router /api/voice/command [post]
func (h *Handler) Command(c *gin.Context) {
	var req CommandRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Command) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Command is required"})
		return
	}
	c.JSON(http.StatusOK, Route(req.Command))
}
