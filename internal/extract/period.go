package extract

import "regexp"

// periodYear matches a 4-digit year with an optional month suffix in any of
// the portal's separator styles ("2023/12", "2023.12", "2023-1", "202312").
var periodYear = regexp.MustCompile(`(20\d{2})(?:[./-]?(?:0?[1-9]|1[0-2]))?`)

// NormalizePeriod shortens a raw period label to its 4-digit year for chart
// axes ("2023/12" becomes "2023"). Labels without a recognizable year pass
// through unchanged; the function never fails.
func NormalizePeriod(label string) string {
	if m := periodYear.FindStringSubmatch(label); m != nil {
		return m[1]
	}
	return label
}
