package models

// ReportPayload is the wire shape of a JSON report response: a DATA array of
// row objects (each carrying ACC_NM plus dynamically named DATA{n} value
// keys), a YYMM array of period labels, and a single UNIT string shared by
// every row. Value entries may arrive as JSON strings or numbers.
type ReportPayload struct {
	Data   []map[string]any `json:"DATA"`
	Labels []string         `json:"YYMM"`
	Unit   string           `json:"UNIT"`
}

// ReportRow is one line item of a normalized report. YoY is the derived
// year-over-year percentage change between the two most recent periods,
// missing when it cannot be computed.
type ReportRow struct {
	Name  string `json:"name"`
	Cells []Cell `json:"values"`
	YoY   Cell   `json:"yoy"`
}

// Report is the normalized wide shape of a JSON report: line-item rows
// crossed with period labels, plus the shared unit applied to every row and
// a row-scoped YoY column. The YoY column is always present; with fewer than
// two periods it is entirely missing.
type Report struct {
	Periods []string    `json:"periods"`
	Unit    string      `json:"unit"`
	Rows    []ReportRow `json:"rows"`
}

// Grid returns the report's plain wide-table view: line items by periods,
// without the unit and YoY columns. Cell slices are shared, not copied.
func (r *Report) Grid() *WideTable {
	if r == nil {
		return nil
	}
	table := &WideTable{Periods: r.Periods, Rows: make([]MetricRow, len(r.Rows))}
	for i, row := range r.Rows {
		table.Rows[i] = MetricRow{Label: row.Name, Cells: row.Cells}
	}
	return table
}

// Melt flattens the report's period cells into long records in row-major
// order. Unit and YoY are row fields, not periods, so they do not melt.
func (r *Report) Melt() []LongRecord {
	return r.Grid().Melt()
}
