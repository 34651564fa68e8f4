package models

// MetricRow is one labeled row of a wide table. Labels are not required to
// be unique across rows; duplicates from the source are preserved in order.
type MetricRow struct {
	Label string `json:"label"`
	Cells []Cell `json:"values"`
}

// WideTable is the canonical wide shape: ordered metric rows crossed with an
// ordered, deduplicated sequence of period labels. Every row has exactly
// len(Periods) cells.
type WideTable struct {
	Periods []string    `json:"periods"`
	Rows    []MetricRow `json:"rows"`
}

// LongRecord is one (category, period, value) triple of the long shape.
type LongRecord struct {
	Category string `json:"category"`
	Period   string `json:"period"`
	Value    Cell   `json:"value"`
}

// Melt flattens the table into long records in row-major order: all periods
// of the first row, then the second, and so on. Ordering is deterministic
// and stable, and missing cells are kept.
func (t *WideTable) Melt() []LongRecord {
	if t == nil {
		return nil
	}
	records := make([]LongRecord, 0, len(t.Rows)*len(t.Periods))
	for _, row := range t.Rows {
		for i, period := range t.Periods {
			value := Missing()
			if i < len(row.Cells) {
				value = row.Cells[i]
			}
			records = append(records, LongRecord{
				Category: row.Label,
				Period:   period,
				Value:    value,
			})
		}
	}
	return records
}

// Pivot rebuilds a wide table from long records. Categories and periods keep
// first-seen order; a repeated (category, period) pair keeps the last value.
// For tables with unique row labels this is the exact inverse of Melt.
func Pivot(records []LongRecord) *WideTable {
	table := &WideTable{}
	periodIndex := make(map[string]int)
	rowIndex := make(map[string]int)

	for _, rec := range records {
		if _, ok := periodIndex[rec.Period]; !ok {
			periodIndex[rec.Period] = len(table.Periods)
			table.Periods = append(table.Periods, rec.Period)
		}
		if _, ok := rowIndex[rec.Category]; !ok {
			rowIndex[rec.Category] = len(table.Rows)
			table.Rows = append(table.Rows, MetricRow{Label: rec.Category})
		}
	}
	for i := range table.Rows {
		table.Rows[i].Cells = make([]Cell, len(table.Periods))
	}
	for _, rec := range records {
		table.Rows[rowIndex[rec.Category]].Cells[periodIndex[rec.Period]] = rec.Value
	}
	return table
}

// Categories returns the row labels in order, including duplicates.
func (t *WideTable) Categories() []string {
	if t == nil {
		return nil
	}
	labels := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		labels[i] = row.Label
	}
	return labels
}
