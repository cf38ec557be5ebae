package reports

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/krishimitra/farmer-portal-backend/internal/application"
	"github.com/krishimitra/farmer-portal-backend/internal/auditlog"
	"github.com/krishimitra/farmer-portal-backend/internal/farmer"
)

var ErrInvalidRequest = errors.New("invalid report request")

type ApplicationSource interface {
	List(ctx context.Context, farmerID uint) ([]application.Application, error)
}

type ProfileSource interface {
	GetProfile(ctx context.Context, farmerID uint) (*farmer.Farmer, error)
}

// ReportService collects a farmer's records and hands them to the exporter.
type ReportService interface {
	GetApplicationsReport(ctx context.Context, farmerID uint, req ApplicationsReportRequest) ([]ApplicationReportRow, error)
	ExportApplicationsReport(ctx context.Context, farmerID uint, req ApplicationsReportRequest) (*ExportResult, error)

	GetHoldingsReport(ctx context.Context, farmerID uint) ([]HoldingRow, error)
	ExportHoldingsReport(ctx context.Context, farmerID uint, format string) (*ExportResult, error)
}

type reportService struct {
	applications ApplicationSource
	profiles     ProfileSource
	exporter     ReportExporter
	auditSvc     auditlog.Service
	now          func() time.Time
}

func NewReportService(applications ApplicationSource, profiles ProfileSource, exporter ReportExporter, auditSvc auditlog.Service) ReportService {
	return &reportService{
		applications: applications,
		profiles:     profiles,
		exporter:     exporter,
		auditSvc:     auditSvc,
		now:          time.Now,
	}
}

// ===============================
// Applications
// ===============================

func (s *reportService) GetApplicationsReport(ctx context.Context, farmerID uint, req ApplicationsReportRequest) ([]ApplicationReportRow, error) {
	win, err := submissionWindow(req, s.now())
	if err != nil {
		return nil, err
	}

	apps, err := s.applications.List(ctx, farmerID)
	if err != nil {
		return nil, err
	}

	rows := make([]ApplicationReportRow, 0, len(apps))
	for _, a := range apps {
		if req.Status != "" && a.Status != req.Status {
			continue
		}
		if !win.contains(a.SubmittedAt) {
			continue
		}
		row := ApplicationReportRow{
			ID:              a.ID,
			Status:          a.Status,
			SubmittedAt:     a.SubmittedAt,
			ReviewedAt:      a.ReviewedAt,
			BenefitReceived: a.BenefitReceived,
			ReviewNotes:     a.ReviewNotes,
		}
		if a.Scheme != nil {
			row.SchemeName = a.Scheme.Name
			row.Department = a.Scheme.Department
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *reportService) ExportApplicationsReport(ctx context.Context, farmerID uint, req ApplicationsReportRequest) (*ExportResult, error) {
	rows, err := s.GetApplicationsReport(ctx, farmerID, req)
	if err != nil {
		return nil, err
	}
	out, err := s.exporter.Applications(req.Format, rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	s.logExport(ctx, farmerID, ReportTypeApplications, req.Format, len(rows))
	return out, nil
}

// ===============================
// Holdings
// ===============================

func (s *reportService) GetHoldingsReport(ctx context.Context, farmerID uint) ([]HoldingRow, error) {
	f, err := s.profiles.GetProfile(ctx, farmerID)
	if err != nil {
		return nil, err
	}

	var rows []HoldingRow
	for _, l := range f.Lands {
		rows = append(rows, HoldingRow{
			Kind:    "Land",
			Name:    orDash(l.SurveyNumber),
			Detail:  joinNonEmpty(l.LandType, l.OwnershipType, l.SoilType),
			Measure: strconv.FormatFloat(l.Area, 'f', 2, 64) + " acres",
		})
	}
	for _, c := range f.Crops {
		measure := strconv.Itoa(c.Year)
		if c.Area != nil {
			measure = strconv.FormatFloat(*c.Area, 'f', 2, 64) + " acres, " + measure
		}
		rows = append(rows, HoldingRow{
			Kind:    "Crop",
			Name:    c.CropName,
			Detail:  joinNonEmpty(c.Variety, c.Season),
			Measure: measure,
		})
	}
	for _, l := range f.Livestock {
		rows = append(rows, HoldingRow{
			Kind:    "Livestock",
			Name:    l.AnimalType,
			Detail:  orDash(l.Breed),
			Measure: strconv.Itoa(l.Count) + " head",
		})
	}
	return rows, nil
}

func (s *reportService) ExportHoldingsReport(ctx context.Context, farmerID uint, format string) (*ExportResult, error) {
	rows, err := s.GetHoldingsReport(ctx, farmerID)
	if err != nil {
		return nil, err
	}
	out, err := s.exporter.Holdings(format, rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	s.logExport(ctx, farmerID, ReportTypeHoldings, format, len(rows))
	return out, nil
}

// ===============================
// Utility
// ===============================

func (s *reportService) logExport(ctx context.Context, farmerID uint, reportType, format string, rows int) {
	s.auditSvc.LogAction(ctx, &farmerID, auditlog.ActionReportExported, map[string]interface{}{
		"report": reportType,
		"format": format,
		"rows":   rows,
	}, auditlog.StatusSuccess)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func joinNonEmpty(parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += p
	}
	return orDash(out)
}
