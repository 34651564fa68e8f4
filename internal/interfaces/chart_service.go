package interfaces

import (
	"github.com/ternarybob/tabula/internal/models"
)

// ChartService renders extracted tables as self-contained HTML charts.
// Missing values render as gaps rather than zeros.
type ChartService interface {
	// LineChart renders each metric of the table as a line series
	// across its periods.
	LineChart(title string, table *models.WideTable) ([]byte, error)

	// BarChart renders long records as bar series grouped by category.
	BarChart(title string, records []models.LongRecord) ([]byte, error)
}
