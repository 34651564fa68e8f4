// Package charts renders extraction results as self-contained HTML
// chart pages. Missing values are passed to the charting library as
// its gap marker so they never plot as zeros.
package charts

import (
	"bytes"
	"fmt"

	echarts "github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tabula/internal/common"
	"github.com/ternarybob/tabula/internal/interfaces"
	"github.com/ternarybob/tabula/internal/models"
)

// gapMarker is the charting library's representation for absent data
// points. Series using it show a gap instead of a zero.
const gapMarker = "-"

// Service renders tables into chart pages.
type Service struct {
	logger arbor.ILogger
}

// NewService creates a chart service
func NewService(logger arbor.ILogger) *Service {
	if logger == nil {
		logger = common.GetLogger()
	}
	return &Service{logger: logger}
}

// LineChart renders each metric of the table as a line series across
// its periods.
func (s *Service) LineChart(title string, table *models.WideTable) ([]byte, error) {
	if table == nil {
		return nil, fmt.Errorf("no table to chart")
	}

	line := echarts.NewLine()
	line.SetGlobalOptions(
		echarts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1080px", Height: "600px"}),
		echarts.WithTitleOpts(opts.Title{Title: title}),
		echarts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		echarts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	line.SetXAxis(table.Periods)
	for _, row := range table.Rows {
		data := make([]opts.LineData, 0, len(row.Cells))
		for _, cell := range row.Cells {
			if cell.Valid {
				data = append(data, opts.LineData{Value: cell.Value})
			} else {
				data = append(data, opts.LineData{Value: gapMarker})
			}
		}
		line.AddSeries(row.Label, data)
	}

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		return nil, fmt.Errorf("failed to render line chart: %w", err)
	}
	return buf.Bytes(), nil
}

// BarChart renders long records as bar series grouped by category.
// Periods and categories keep their first-seen order.
func (s *Service) BarChart(title string, records []models.LongRecord) ([]byte, error) {
	periods, categories, values := groupRecords(records)

	bar := echarts.NewBar()
	bar.SetGlobalOptions(
		echarts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1080px", Height: "600px"}),
		echarts.WithTitleOpts(opts.Title{Title: title}),
		echarts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		echarts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	bar.SetXAxis(periods)
	for _, category := range categories {
		data := make([]opts.BarData, 0, len(periods))
		for _, period := range periods {
			if cell, ok := values[category][period]; ok && cell.Valid {
				data = append(data, opts.BarData{Value: cell.Value})
			} else {
				data = append(data, opts.BarData{Value: gapMarker})
			}
		}
		bar.AddSeries(category, data)
	}

	var buf bytes.Buffer
	if err := bar.Render(&buf); err != nil {
		return nil, fmt.Errorf("failed to render bar chart: %w", err)
	}
	return buf.Bytes(), nil
}

// groupRecords arranges long records into per-category series aligned
// on a shared period axis. Later duplicates win, matching pivot
// semantics elsewhere.
func groupRecords(records []models.LongRecord) ([]string, []string, map[string]map[string]models.Cell) {
	var periods []string
	var categories []string
	seenPeriod := make(map[string]bool)
	values := make(map[string]map[string]models.Cell)

	for _, record := range records {
		if !seenPeriod[record.Period] {
			seenPeriod[record.Period] = true
			periods = append(periods, record.Period)
		}
		if _, ok := values[record.Category]; !ok {
			values[record.Category] = make(map[string]models.Cell)
			categories = append(categories, record.Category)
		}
		values[record.Category][record.Period] = record.Value
	}

	return periods, categories, values
}

// Ensure Service implements the ChartService interface
var _ interfaces.ChartService = (*Service)(nil)
