package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// table is a report laid out as a header row plus string cells.
type table struct {
	title   string
	sheet   string
	headers []string
	widths  []float64 // pdf column widths in mm
	rows    [][]string
}

// ReportExporter renders report tables into downloadable files.
type ReportExporter interface {
	Applications(format string, rows []ApplicationReportRow) (*ExportResult, error)
	Holdings(format string, rows []HoldingRow) (*ExportResult, error)
}

type reportExporter struct {
	now func() time.Time
}

func NewReportExporter() ReportExporter {
	return &reportExporter{now: time.Now}
}

func (e *reportExporter) Applications(format string, rows []ApplicationReportRow) (*ExportResult, error) {
	t := table{
		title:   "Scheme Applications",
		sheet:   "Applications",
		headers: []string{"ID", "Scheme", "Department", "Status", "Submitted", "Reviewed", "Benefit (Rs)", "Notes"},
		widths:  []float64{12, 60, 45, 22, 28, 28, 25, 57},
	}
	for _, r := range rows {
		reviewed := ""
		if r.ReviewedAt != nil {
			reviewed = r.ReviewedAt.Format("2006-01-02")
		}
		benefit := ""
		if r.BenefitReceived != nil {
			benefit = strconv.FormatFloat(*r.BenefitReceived, 'f', 2, 64)
		}
		t.rows = append(t.rows, []string{
			strconv.FormatUint(uint64(r.ID), 10),
			r.SchemeName,
			r.Department,
			r.Status,
			r.SubmittedAt.Format("2006-01-02"),
			reviewed,
			benefit,
			r.ReviewNotes,
		})
	}
	return e.export("applications_report", format, t)
}

// Holdings supports excel and pdf only.
func (e *reportExporter) Holdings(format string, rows []HoldingRow) (*ExportResult, error) {
	if format == FormatCSV {
		return nil, fmt.Errorf("unsupported format for holdings: %s", format)
	}
	t := table{
		title:   "Land, Crop and Livestock Holdings",
		sheet:   "Holdings",
		headers: []string{"Type", "Name", "Detail", "Measure"},
		widths:  []float64{35, 80, 100, 60},
	}
	for _, r := range rows {
		t.rows = append(t.rows, []string{r.Kind, r.Name, r.Detail, r.Measure})
	}
	return e.export("holdings_report", format, t)
}

func (e *reportExporter) export(prefix, format string, t table) (*ExportResult, error) {
	timestamp := e.now().Format("20060102_150405")

	switch format {
	case FormatExcel, FormatXLSX:
		data, err := writeExcel(t)
		if err != nil {
			return nil, err
		}
		return &ExportResult{Data: data, Filename: fmt.Sprintf("%s_%s.xlsx", prefix, timestamp), ContentType: contentTypeExcel}, nil
	case FormatCSV:
		data, err := writeCSV(t)
		if err != nil {
			return nil, err
		}
		return &ExportResult{Data: data, Filename: fmt.Sprintf("%s_%s.csv", prefix, timestamp), ContentType: contentTypeCSV}, nil
	case FormatPDF:
		data, err := writePDF(t)
		if err != nil {
			return nil, err
		}
		return &ExportResult{Data: data, Filename: fmt.Sprintf("%s_%s.pdf", prefix, timestamp), ContentType: contentTypePDF}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func writeCSV(t table) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(t.headers); err != nil {
		return nil, err
	}
	for _, row := range t.rows {
		if err := writer.Write(row); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeExcel(t table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", t.sheet); err != nil {
		return nil, err
	}

	for i, header := range t.headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(t.sheet, cell, header)
	}
	for r, row := range t.rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			f.SetCellValue(t.sheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writePDF(t table) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, t.title)
	pdf.Ln(20)

	// core fonts are cp1252; non-latin text is transliterated away
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 9)
	for i, h := range t.headers {
		pdf.CellFormat(t.widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, row := range t.rows {
		for i, v := range row {
			pdf.CellFormat(t.widths[i], 6, tr(v), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
