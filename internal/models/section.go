package models

// Section identifies one of the portal's disclosure views for a company.
// Main is the HTML statistics table; the rest are JSON report payloads.
type Section string

const (
	SectionMain   Section = "main"   // annual key-financials table (HTML)
	SectionFS     Section = "fs"     // financial statements (JSON)
	SectionProfit Section = "profit" // profitability indicators (JSON)
	SectionValue  Section = "value"  // valuation indicators (JSON)
)

// IsValid checks if the Section is a known, valid value
func (s Section) IsValid() bool {
	switch s {
	case SectionMain, SectionFS, SectionProfit, SectionValue:
		return true
	}
	return false
}

// IsJSON reports whether the section is served as a JSON report payload.
func (s Section) IsJSON() bool {
	return s == SectionFS || s == SectionProfit || s == SectionValue
}

// String returns the string representation of the Section
func (s Section) String() string {
	return string(s)
}

// AllSections returns every valid section in display order.
func AllSections() []Section {
	return []Section{SectionMain, SectionFS, SectionProfit, SectionValue}
}
