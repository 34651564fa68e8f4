// Package export renders extraction results as xlsx workbooks.
// Missing values become blank cells so spreadsheet consumers never
// mistake an absent figure for a zero.
package export

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/xuri/excelize/v2"

	"github.com/ternarybob/tabula/internal/common"
	"github.com/ternarybob/tabula/internal/interfaces"
	"github.com/ternarybob/tabula/internal/models"
)

// DefaultSheetName is used when the caller does not name the sheet.
const DefaultSheetName = "Data"

// Service renders tables into spreadsheets.
type Service struct {
	logger arbor.ILogger
}

// NewService creates an export service
func NewService(logger arbor.ILogger) *Service {
	if logger == nil {
		logger = common.GetLogger()
	}
	return &Service{logger: logger}
}

// WorkbookFromWide renders a wide table, one row per metric with
// period columns.
func (s *Service) WorkbookFromWide(table *models.WideTable, sheetName string) ([]byte, error) {
	if table == nil {
		return nil, fmt.Errorf("no table to export")
	}

	f, sheet := newWorkbook(sheetName)
	defer f.Close()

	headers := append([]string{"Metric"}, table.Periods...)
	writeHeader(f, sheet, headers)

	for i, row := range table.Rows {
		rowNum := i + 2
		setCell(f, sheet, 1, rowNum, row.Label)
		for j, value := range row.Cells {
			if value.Valid {
				setCell(f, sheet, j+2, rowNum, value.Value)
			}
		}
	}

	return serialize(f)
}

// WorkbookFromReport renders a report including its unit and
// year-over-year columns.
func (s *Service) WorkbookFromReport(report *models.Report, sheetName string) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("no report to export")
	}

	f, sheet := newWorkbook(sheetName)
	defer f.Close()

	headers := append([]string{"Item", "Unit"}, report.Periods...)
	headers = append(headers, "YoY (%)")
	writeHeader(f, sheet, headers)

	for i, row := range report.Rows {
		rowNum := i + 2
		setCell(f, sheet, 1, rowNum, row.Name)
		setCell(f, sheet, 2, rowNum, report.Unit)
		for j, value := range row.Cells {
			if value.Valid {
				setCell(f, sheet, j+3, rowNum, value.Value)
			}
		}
		if row.YoY.Valid {
			setCell(f, sheet, len(report.Periods)+3, rowNum, row.YoY.Value)
		}
	}

	return serialize(f)
}

// WorkbookFromRecords renders long records as category, period and
// value columns, one row per record.
func (s *Service) WorkbookFromRecords(records []models.LongRecord, sheetName string) ([]byte, error) {
	f, sheet := newWorkbook(sheetName)
	defer f.Close()

	writeHeader(f, sheet, []string{"Category", "Period", "Value"})

	for i, record := range records {
		rowNum := i + 2
		setCell(f, sheet, 1, rowNum, record.Category)
		setCell(f, sheet, 2, rowNum, record.Period)
		if record.Value.Valid {
			setCell(f, sheet, 3, rowNum, record.Value.Value)
		}
	}

	return serialize(f)
}

func newWorkbook(sheetName string) (*excelize.File, string) {
	if sheetName == "" {
		sheetName = DefaultSheetName
	}
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", sheetName)
	return f, sheetName
}

func writeHeader(f *excelize.File, sheet string, headers []string) {
	for i, h := range headers {
		setCell(f, sheet, i+1, 1, h)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err == nil {
		f.SetRowStyle(sheet, 1, 1, headerStyle)
	}
}

func setCell(f *excelize.File, sheet string, col, row int, value interface{}) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return
	}
	f.SetCellValue(sheet, cell, value)
}

func serialize(f *excelize.File) ([]byte, error) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Ensure Service implements the ExportService interface
var _ interfaces.ExportService = (*Service)(nil)
