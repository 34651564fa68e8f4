package extract

import "github.com/ternarybob/tabula/internal/models"

// ReshapeForChart melts a wide table into chart-ready long records:
// every non-excluded period column becomes (category, period, value)
// triples in row-major order with the period label normalized to its bare
// year. Values are already decoded cells, so re-coercion is the identity.
// No rows are dropped; missing values are kept so callers filter them
// explicitly.
func ReshapeForChart(t *models.WideTable, exclude ...string) []models.LongRecord {
	if t == nil {
		return nil
	}
	skip := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		skip[name] = true
	}

	records := make([]models.LongRecord, 0, len(t.Rows)*len(t.Periods))
	for _, row := range t.Rows {
		for i, period := range t.Periods {
			if skip[period] {
				continue
			}
			value := models.Missing()
			if i < len(row.Cells) {
				value = row.Cells[i]
			}
			records = append(records, models.LongRecord{
				Category: row.Label,
				Period:   NormalizePeriod(period),
				Value:    value,
			})
		}
	}
	return records
}
