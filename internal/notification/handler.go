package notification

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/krishimitra/farmer-portal-backend/middleware"
)

type Handler struct {
	Service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{Service: s}
}

// List godoc
// @Summary The caller's notifications, newest first
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max items"
// @Success 200 {array} Notification
// @Router /api/notifications [get]
func (h *Handler) List(c *gin.Context) {
	farmerID, _ := middleware.CurrentFarmerID(c)
	limit, _ := strconv.Atoi(c.Query("limit"))

	items, err := h.Service.List(c.Request.Context(), farmerID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch notifications"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// UnreadCount handles GET /api/notifications/unread-count
func (h *Handler) UnreadCount(c *gin.Context) {
	farmerID, _ := middleware.CurrentFarmerID(c)

	n, err := h.Service.UnreadCount(c.Request.Context(), farmerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to count notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

// MarkRead handles PUT /api/notifications/:id/read
func (h *Handler) MarkRead(c *gin.Context) {
	farmerID, _ := middleware.CurrentFarmerID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid notification ID"})
		return
	}

	err = h.Service.MarkRead(c.Request.Context(), farmerID, uint(id))
	if errors.Is(err, ErrNotificationNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Notification not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update notification"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

// MarkAllRead handles PUT /api/notifications/read-all
func (h *Handler) MarkAllRead(c *gin.Context) {
	farmerID, _ := middleware.CurrentFarmerID(c)

	n, err := h.Service.MarkAllRead(c.Request.Context(), farmerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}

// RegisterDevice godoc
// @Summary Register a push device token for the caller
// @Tags Notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body RegisterDeviceRequest true "Device"
// @Success 201 {object} map[string]string
// @Router /api/notifications/devices [post]
func (h *Handler) RegisterDevice(c *gin.Context) {
	farmerID, _ := middleware.CurrentFarmerID(c)

	var req RegisterDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	err := h.Service.RegisterDevice(c.Request.Context(), farmerID, req)
	if errors.Is(err, ErrValidation) {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to register device"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Device registered"})
}

// Stream handles GET /api/notifications/stream as server-sent events
func (h *Handler) Stream(c *gin.Context) {
	farmerID, _ := middleware.CurrentFarmerID(c)

	sub, err := h.Service.Subscribe(c.Request.Context(), farmerID)
	if errors.Is(err, ErrStreamUnavailable) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Notification stream not available"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to open notification stream"})
		return
	}
	defer sub.Close()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.Status(http.StatusInternalServerError)
		return
	}

	_, _ = c.Writer.Write([]byte(":ok\n\n"))
	flusher.Flush()

	ch := sub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = c.Writer.Write([]byte("event: notification\n"))
			_, _ = c.Writer.Write([]byte("data: " + msg.Payload + "\n\n"))
			flusher.Flush()
		case <-c.Request.Context().Done():
			return
		}
	}
}
