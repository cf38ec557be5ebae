package reports

import "time"

const (
	ReportTypeApplications = "applications"
	ReportTypeHoldings     = "holdings"

	DateRangeDaily   = "daily"
	DateRangeWeekly  = "weekly"
	DateRangeMonthly = "monthly"
	DateRangeYearly  = "yearly"
	DateRangeCustom  = "custom"

	FormatCSV   = "csv"
	FormatExcel = "excel"
	FormatXLSX  = "xlsx"
	FormatPDF   = "pdf"
)

// ApplicationsReportRequest selects the caller's applications to export.
// An empty DateRange exports everything.
type ApplicationsReportRequest struct {
	DateRange string
	StartDate string
	EndDate   string
	Status    string
	Format    string
}

type ApplicationReportRow struct {
	ID              uint       `json:"id"`
	SchemeName      string     `json:"schemeName"`
	Department      string     `json:"department"`
	Status          string     `json:"status"`
	SubmittedAt     time.Time  `json:"submittedAt"`
	ReviewedAt      *time.Time `json:"reviewedAt,omitempty"`
	BenefitReceived *float64   `json:"benefitReceived,omitempty"`
	ReviewNotes     string     `json:"reviewNotes,omitempty"`
}

// HoldingRow is one land, crop or livestock record in the holdings report.
type HoldingRow struct {
	Kind    string `json:"kind"`
	Name    string `json:"name"`
	Detail  string `json:"detail"`
	Measure string `json:"measure"`
}

// ExportResult is a rendered report file.
type ExportResult struct {
	Data        []byte
	Filename    string
	ContentType string
}

const (
	contentTypeCSV   = "text/csv"
	contentTypeExcel = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF   = "application/pdf"
)
