package reports

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/krishimitra/farmer-portal-backend/internal/application"
	"github.com/krishimitra/farmer-portal-backend/internal/auditlog"
	"github.com/krishimitra/farmer-portal-backend/internal/farmer"
	"github.com/krishimitra/farmer-portal-backend/internal/scheme"
	"github.com/krishimitra/farmer-portal-backend/internal/testutil"
	"github.com/krishimitra/farmer-portal-backend/middleware"
)

var now = time.Date(2025, 9, 15, 12, 0, 0, 0, time.UTC)

type stubApplications []application.Application

func (s stubApplications) List(context.Context, uint) ([]application.Application, error) {
	return s, nil
}

type stubProfiles struct{}

func (stubProfiles) GetProfile(context.Context, uint) (*farmer.Farmer, error) {
	area := 1.5
	return &farmer.Farmer{
		ID:        1,
		Lands:     []farmer.Land{{SurveyNumber: "42/A", Area: 2.5, LandType: "irrigated", OwnershipType: "owned"}},
		Crops:     []farmer.Crop{{CropName: "rice", Season: "kharif", Year: 2025, Area: &area}},
		Livestock: []farmer.Livestock{{AnimalType: "cow", Count: 3}},
	}, nil
}

func benefit(v float64) *float64 { return &v }

func newTestService(t *testing.T) ReportService {
	t.Helper()
	db := testutil.NewDB(t, &auditlog.AuditLog{})
	audit := auditlog.NewService(auditlog.NewRepository(db), zap.NewNop())

	kisan := &scheme.Scheme{Name: "PM-KISAN", Department: "Agriculture"}
	apps := stubApplications{
		{ID: 3, Scheme: kisan, Status: application.StatusPending, SubmittedAt: now.AddDate(0, 0, -1)},
		{ID: 2, Scheme: kisan, Status: application.StatusCompleted, SubmittedAt: now.AddDate(0, -2, 0), BenefitReceived: benefit(6000)},
		{ID: 1, Scheme: kisan, Status: application.StatusRejected, SubmittedAt: now.AddDate(-1, 0, 0)},
	}

	exporter := &reportExporter{now: func() time.Time { return now }}
	svc := NewReportService(apps, stubProfiles{}, exporter, audit).(*reportService)
	svc.now = func() time.Time { return now }
	return svc
}

func TestGetApplicationsReport_Filters(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	all, err := svc.GetApplicationsReport(ctx, 1, ApplicationsReportRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, "PM-KISAN", all[0].SchemeName)

	weekly, err := svc.GetApplicationsReport(ctx, 1, ApplicationsReportRequest{DateRange: DateRangeWeekly})
	require.NoError(t, err)
	require.Len(t, weekly, 1)
	assert.Equal(t, uint(3), weekly[0].ID)

	yearly, err := svc.GetApplicationsReport(ctx, 1, ApplicationsReportRequest{DateRange: DateRangeYearly, Status: application.StatusCompleted})
	require.NoError(t, err)
	require.Len(t, yearly, 1)
	assert.Equal(t, uint(2), yearly[0].ID)

	_, err = svc.GetApplicationsReport(ctx, 1, ApplicationsReportRequest{DateRange: DateRangeCustom})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestExportApplications_CSV(t *testing.T) {
	svc := newTestService(t)

	out, err := svc.ExportApplicationsReport(context.Background(), 1, ApplicationsReportRequest{Format: FormatCSV})
	require.NoError(t, err)

	assert.Equal(t, "applications_report_20250915_120000.csv", out.Filename)
	assert.Equal(t, contentTypeCSV, out.ContentType)
	lines := strings.Split(strings.TrimSpace(string(out.Data)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "ID,Scheme,Department,Status,Submitted,Reviewed,Benefit (Rs),Notes", lines[0])
	assert.Equal(t, "2,PM-KISAN,Agriculture,completed,2025-07-15,,6000.00,", lines[2])
}

func TestExportApplications_Excel(t *testing.T) {
	svc := newTestService(t)

	out, err := svc.ExportApplicationsReport(context.Background(), 1, ApplicationsReportRequest{Format: FormatXLSX})
	require.NoError(t, err)
	assert.Equal(t, contentTypeExcel, out.ContentType)

	f, err := excelize.OpenReader(bytes.NewReader(out.Data))
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue("Applications", "B1")
	require.NoError(t, err)
	assert.Equal(t, "Scheme", header)
	status, err := f.GetCellValue("Applications", "D2")
	require.NoError(t, err)
	assert.Equal(t, application.StatusPending, status)
}

func TestExportHoldings(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	rows, err := svc.GetHoldingsReport(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []HoldingRow{
		{Kind: "Land", Name: "42/A", Detail: "irrigated, owned", Measure: "2.50 acres"},
		{Kind: "Crop", Name: "rice", Detail: "kharif", Measure: "1.50 acres, 2025"},
		{Kind: "Livestock", Name: "cow", Detail: "-", Measure: "3 head"},
	}, rows)

	out, err := svc.ExportHoldingsReport(ctx, 1, FormatPDF)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out.Data, []byte("%PDF")))

	_, err = svc.ExportHoldingsReport(ctx, 1, FormatCSV)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestSubmissionWindow(t *testing.T) {
	day := func(m time.Month, d int) time.Time { return time.Date(2025, m, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name     string
		req      ApplicationsReportRequest
		from, to time.Time
	}{
		{"daily", ApplicationsReportRequest{DateRange: DateRangeDaily}, day(9, 15), day(9, 16)},
		{"weekly", ApplicationsReportRequest{DateRange: DateRangeWeekly}, day(9, 9), day(9, 16)},
		{"monthly", ApplicationsReportRequest{DateRange: DateRangeMonthly}, day(9, 1), day(10, 1)},
		{"yearly", ApplicationsReportRequest{DateRange: DateRangeYearly}, day(1, 1), time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"custom", ApplicationsReportRequest{DateRange: DateRangeCustom, StartDate: "2025-01-01", EndDate: "2025-01-31"}, day(1, 1), day(2, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := submissionWindow(tt.req, now)
			require.NoError(t, err)
			assert.Equal(t, tt.from, w.from)
			assert.Equal(t, tt.to, w.to)
		})
	}

	t.Run("custom includes the whole end day", func(t *testing.T) {
		w, err := submissionWindow(ApplicationsReportRequest{DateRange: DateRangeCustom, StartDate: "2025-01-01", EndDate: "2025-01-31"}, now)
		require.NoError(t, err)
		assert.True(t, w.contains(time.Date(2025, 1, 31, 23, 59, 59, 0, time.UTC)))
		assert.False(t, w.contains(day(2, 1)))
	})

	t.Run("empty range is all time", func(t *testing.T) {
		w, err := submissionWindow(ApplicationsReportRequest{}, now)
		require.NoError(t, err)
		assert.True(t, w.contains(time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)))
	})

	bad := []ApplicationsReportRequest{
		{DateRange: DateRangeCustom},
		{DateRange: DateRangeCustom, StartDate: "2025-02-01", EndDate: "2025-01-01"},
		{DateRange: DateRangeCustom, StartDate: "01/02/2025", EndDate: "2025-03-01"},
		{DateRange: "fortnightly"},
	}
	for _, req := range bad {
		_, err := submissionWindow(req, now)
		assert.ErrorIs(t, err, ErrInvalidRequest, "%+v", req)
	}
}

func TestHandler_Download(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHandler(newTestService(t))

	r := gin.New()
	r.GET("/api/reports/applications", func(c *gin.Context) {
		c.Set(middleware.ContextFarmerID, uint(1))
		c.Next()
	}, h.GetApplicationsReport)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/reports/applications?format=csv", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="applications_report_20250915_120000.csv"`, w.Header().Get("Content-Disposition"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/reports/applications?format=docx", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
