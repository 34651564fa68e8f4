package models

import "time"

// Snapshot is one completed extraction for a (company, section) pair, held
// in memory for the dashboard's rerun model. Exactly one of Wide or Report
// is set: Wide for the HTML section, Report for JSON sections. Records is
// the long-form melt of whichever is present.
type Snapshot struct {
	ID          string       `json:"id"`
	CompanyCode string       `json:"cmp_cd"`
	Section     Section      `json:"section"`
	FetchedAt   time.Time    `json:"fetched_at"`
	Wide        *WideTable   `json:"wide,omitempty"`
	Report      *Report      `json:"report,omitempty"`
	Records     []LongRecord `json:"records"`
}

// Table returns the wide view of the snapshot regardless of section kind.
func (s *Snapshot) Table() *WideTable {
	if s.Wide != nil {
		return s.Wide
	}
	return s.Report.Grid()
}

// Age reports how long ago the snapshot was taken.
func (s *Snapshot) Age() time.Duration {
	return time.Since(s.FetchedAt)
}
