package reports

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/krishimitra/farmer-portal-backend/internal/farmer"
	"github.com/krishimitra/farmer-portal-backend/middleware"
)

type Handler struct {
	service ReportService
}

func NewHandler(svc ReportService) *Handler {
	return &Handler{service: svc}
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, farmer.ErrFarmerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Farmer profile not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate report"})
	}
}

func sendFile(c *gin.Context, out *ExportResult) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", out.Filename))
	c.Data(http.StatusOK, out.ContentType, out.Data)
}

// GetApplicationsReport godoc
// @Summary Export the caller's scheme applications
// @Tags Reports
// @Produce json,application/pdf,text/csv
// @Security BearerAuth
// @Param format query string false "xlsx, pdf or csv; JSON when omitted"
// @Param date_range query string false "daily, weekly, monthly, yearly or custom"
// @Param start_date query string false "YYYY-MM-DD, custom range only"
// @Param end_date query string false "YYYY-MM-DD, custom range only"
// @Param status query string false "Only applications in this status"
// @Success 200 {array} ApplicationReportRow
// @Router /api/reports/applications [get]
func (h *Handler) GetApplicationsReport(c *gin.Context) {
	farmerID, _ := middleware.CurrentFarmerID(c)
	req := ApplicationsReportRequest{
		DateRange: c.Query("date_range"),
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
		Status:    c.Query("status"),
		Format:    strings.ToLower(c.Query("format")),
	}

	if req.Format == "" {
		rows, err := h.service.GetApplicationsReport(c.Request.Context(), farmerID, req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
		return
	}

	out, err := h.service.ExportApplicationsReport(c.Request.Context(), farmerID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	sendFile(c, out)
}

// GetHoldingsReport godoc
// @Summary Export the caller's land, crop and livestock holdings
// @Tags Reports
// @Produce json,application/pdf
// @Security BearerAuth
// @Param format query string false "xlsx or pdf; JSON when omitted"
// @Success 200 {array} HoldingRow
// @Router /api/reports/holdings [get]
func (h *Handler) GetHoldingsReport(c *gin.Context) {
	farmerID, _ := middleware.CurrentFarmerID(c)
	format := strings.ToLower(c.Query("format"))

	if format == "" {
		rows, err := h.service.GetHoldingsReport(c.Request.Context(), farmerID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
		return
	}

	out, err := h.service.ExportHoldingsReport(c.Request.Context(), farmerID, format)
	if err != nil {
		writeError(c, err)
		return
	}
	sendFile(c, out)
}
