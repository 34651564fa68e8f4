package extract

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ternarybob/tabula/internal/models"
)

// ErrEmptyReport is returned when a report payload carries no data rows.
// A payload with rows whose values are all missing is valid and succeeds.
var ErrEmptyReport = errors.New("report payload has no data rows")

var (
	dataKeyPattern = regexp.MustCompile(`^DATA\d+$`)
	lineBreakTag   = regexp.MustCompile(`<br\s*/?>`)
)

// Report normalizes a JSON report payload into its wide shape: line items
// by period, the shared unit applied to every row, and a derived YoY
// column. Returns ErrEmptyReport when the payload has no data rows.
func Report(payload *models.ReportPayload) (*models.Report, error) {
	if payload == nil || len(payload.Data) == 0 {
		return nil, ErrEmptyReport
	}

	keys := valueKeys(payload.Data[0])
	labels := periodLabels(payload.Labels, len(keys))

	report := &models.Report{
		Periods: labels,
		Unit:    payload.Unit,
		Rows:    make([]models.ReportRow, len(payload.Data)),
	}
	for i, raw := range payload.Data {
		row := models.ReportRow{
			Name:  stringField(raw, "ACC_NM"),
			Cells: make([]models.Cell, len(keys)),
		}
		for j, key := range keys {
			row.Cells[j] = coerceValue(raw[key])
		}
		row.YoY = yearOverYear(row.Cells)
		report.Rows[i] = row
	}
	return report, nil
}

// valueKeys discovers the period value keys of the first payload row and
// orders them by numeric suffix, recovering period order from an unordered
// object.
func valueKeys(row map[string]any) []string {
	var keys []string
	for k := range row {
		if dataKeyPattern.MatchString(k) {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		return keySuffix(keys[i]) < keySuffix(keys[j])
	})
	return keys
}

func keySuffix(key string) int {
	n, _ := strconv.Atoi(strings.TrimPrefix(key, "DATA"))
	return n
}

// periodLabels cleans the raw YYMM labels, collapsing line-break markup to
// a space, and sizes the list to the value-key count: shortfalls are padded
// with DATA{n} placeholders, excess labels are dropped from the end. The
// result is deduplicated so the period axis stays pairwise-unique.
func periodLabels(raw []string, n int) []string {
	labels := make([]string, 0, n)
	for _, l := range raw {
		labels = append(labels, strings.TrimSpace(lineBreakTag.ReplaceAllString(l, " ")))
	}
	for i := len(labels); i < n; i++ {
		labels = append(labels, fmt.Sprintf("DATA%d", i+1))
	}
	return DedupeLabels(labels[:n])
}

// coerceValue applies the narrow coercion to one raw payload value, which
// may arrive as a JSON string or number.
func coerceValue(v any) models.Cell {
	switch t := v.(type) {
	case string:
		return CoerceNumber(t)
	case float64:
		return models.Number(t)
	default:
		return models.Missing()
	}
}

func stringField(row map[string]any, key string) string {
	if v, ok := row[key].(string); ok {
		return v
	}
	return ""
}

// yearOverYear derives the percent change between the two most recent
// periods, rounded to one decimal. Missing when fewer than two periods
// exist, when either side is missing, or when the previous value is zero;
// never infinite and never an error.
func yearOverYear(cells []models.Cell) models.Cell {
	if len(cells) < 2 {
		return models.Missing()
	}
	last, prev := cells[len(cells)-1], cells[len(cells)-2]
	if !last.Valid || !prev.Valid || prev.Value == 0 {
		return models.Missing()
	}
	pct := (last.Value - prev.Value) / prev.Value * 100
	return models.Number(math.Round(pct*10) / 10)
}
