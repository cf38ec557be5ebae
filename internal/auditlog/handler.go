package auditlog

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetActivity handles GET /api/farmer/activity - the caller's own audit trail
// @Summary Farmer activity
// @Tags Farmer
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Records per page (default: 20)"
// @Success 200 {object} PaginatedAuditLogs
// @Failure 404 {object} map[string]string
// @Router /api/farmer/activity [get]
func (h *Handler) GetActivity(c *gin.Context) {
	farmerID := c.GetUint("farmer_id")
	if farmerID == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Farmer profile not found"})
		return
	}

	filter := AuditLogFilter{FarmerID: &farmerID}
	parsePagination(c, &filter)

	result, err := h.service.GetAuditLogs(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch activity"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetAuditLogs handles GET /api/admin/audit-logs - filtered audit trail for operators
// @Summary Get audit logs
// @Tags Admin
// @Produce json
// @Param user_id query uint false "Filter by user ID"
// @Param farmer_id query uint false "Filter by farmer ID"
// @Param action query string false "Filter by action"
// @Param status query string false "Filter by status"
// @Param from_date query string false "Filter from date (YYYY-MM-DD)"
// @Param to_date query string false "Filter to date (YYYY-MM-DD)"
// @Success 200 {object} PaginatedAuditLogs
// @Failure 400 {object} map[string]string
// @Router /api/admin/audit-logs [get]
func (h *Handler) GetAuditLogs(c *gin.Context) {
	filter := AuditLogFilter{}

	if userIDStr := c.Query("user_id"); userIDStr != "" {
		if userID, err := strconv.ParseUint(userIDStr, 10, 32); err == nil {
			uid := uint(userID)
			filter.UserID = &uid
		}
	}
	if farmerIDStr := c.Query("farmer_id"); farmerIDStr != "" {
		if farmerID, err := strconv.ParseUint(farmerIDStr, 10, 32); err == nil {
			fid := uint(farmerID)
			filter.FarmerID = &fid
		}
	}

	filter.Action = c.Query("action")
	filter.Status = c.Query("status")

	if fromDateStr := c.Query("from_date"); fromDateStr != "" {
		fromDate, err := time.Parse("2006-01-02", fromDateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid from_date format. Use YYYY-MM-DD"})
			return
		}
		filter.FromDate = &fromDate
	}
	if toDateStr := c.Query("to_date"); toDateStr != "" {
		toDate, err := time.Parse("2006-01-02", toDateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid to_date format. Use YYYY-MM-DD"})
			return
		}
		// end of day
		endOfDay := toDate.Add(24*time.Hour - time.Second)
		filter.ToDate = &endOfDay
	}

	parsePagination(c, &filter)

	result, err := h.service.GetAuditLogs(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve audit logs"})
		return
	}
	c.JSON(http.StatusOK, result)
}

func parsePagination(c *gin.Context, filter *AuditLogFilter) {
	filter.Page = 1
	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		filter.Page = page
	}
	filter.Limit = 20
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 && limit <= 100 {
		filter.Limit = limit
	}
}
