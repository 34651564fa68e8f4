package interfaces

import (
	"github.com/ternarybob/tabula/internal/models"
)

// ExportService renders extracted tables as xlsx workbooks.
// Missing values become blank cells, never zeros.
type ExportService interface {
	// WorkbookFromWide renders a wide table, one row per metric with
	// period columns.
	WorkbookFromWide(table *models.WideTable, sheetName string) ([]byte, error)

	// WorkbookFromReport renders a report including its unit and
	// year-over-year columns.
	WorkbookFromReport(report *models.Report, sheetName string) ([]byte, error)

	// WorkbookFromRecords renders long records as category, period and
	// value columns, one row per record.
	WorkbookFromRecords(records []models.LongRecord, sheetName string) ([]byte, error)
}
