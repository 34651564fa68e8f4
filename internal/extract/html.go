package extract

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ternarybob/tabula/internal/models"
)

// ErrTableNotFound is returned when a statistics document contains no
// candidate table. A found table with no body rows is not an error.
var ErrTableNotFound = errors.New("no annual statistics table found")

// mainTableSelector is the structural marker of the portal's statistics
// tables; several tables on the page share it.
const mainTableSelector = "table.gHead01.all-width"

// annualMarker flags the annual (as opposed to quarterly) table.
const annualMarker = "연간"

var (
	yearToken        = regexp.MustCompile(`20\d\d`)
	headerBoilerText = regexp.MustCompile(`주요재무정보|구분`)
	whitespaceRun    = regexp.MustCompile(`\s+`)
)

// MainTable extracts the annual key-financials table from a statistics
// document into its wide shape plus the long-form melt. Among candidate
// tables the first whose flattened text carries the annual marker or a
// 4-digit year wins; no scoring. Returns ErrTableNotFound when no candidate
// matches.
func MainTable(html string) (*models.WideTable, []models.LongRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, nil, fmt.Errorf("parsing statistics document: %w", err)
	}

	table := findAnnualTable(doc)
	if table == nil {
		return nil, nil, ErrTableNotFound
	}

	periods := headerPeriods(table)
	rows, widest := bodyRows(table)
	if len(rows) > 0 {
		periods = reconcile(periods, widest)
	}

	wide := &models.WideTable{Periods: periods, Rows: make([]models.MetricRow, len(rows))}
	for i, row := range rows {
		cells := make([]models.Cell, len(periods))
		for j := range periods {
			if j < len(row.values) {
				cells[j] = DecodeNumber(row.values[j])
			}
		}
		wide.Rows[i] = models.MetricRow{Label: row.label, Cells: cells}
	}
	return wide, wide.Melt(), nil
}

// findAnnualTable returns the first candidate table whose text looks
// annual, or nil.
func findAnnualTable(doc *goquery.Document) *goquery.Selection {
	var target *goquery.Selection
	doc.Find(mainTableSelector).EachWithBreak(func(_ int, tb *goquery.Selection) bool {
		text := cleanText(tb.Text())
		if strings.Contains(text, annualMarker) || yearToken.MatchString(text) {
			target = tb
			return false
		}
		return true
	})
	return target
}

// headerPeriods reads period labels from the last header row, in order,
// dropping empty cells and the metric-name boilerplate cell, then dedupes
// repeats.
func headerPeriods(table *goquery.Selection) []string {
	headerRows := table.Find("thead tr")
	if headerRows.Length() == 0 {
		return nil
	}
	var labels []string
	headerRows.Last().Find("th, td").Each(func(_ int, cell *goquery.Selection) {
		text := cleanText(cell.Text())
		if text == "" || headerBoilerText.MatchString(text) {
			return
		}
		labels = append(labels, text)
	})
	return DedupeLabels(labels)
}

type bodyRow struct {
	label  string
	values []string
}

// bodyRows collects every body row that has a header cell; rows without one
// are skipped. Each value prefers the cell's title attribute, which carries
// the exact figure, over the visible, rounded text. Also returns the widest
// value count seen.
func bodyRows(table *goquery.Selection) ([]bodyRow, int) {
	var rows []bodyRow
	widest := 0
	table.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		th := tr.Find("th").First()
		if th.Length() == 0 {
			return
		}
		row := bodyRow{label: cleanText(th.Text())}
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			if title, ok := td.Attr("title"); ok && strings.TrimSpace(title) != "" {
				row.values = append(row.values, title)
				return
			}
			row.values = append(row.values, cleanText(td.Text()))
		})
		if len(row.values) > widest {
			widest = len(row.values)
		}
		rows = append(rows, row)
	})
	return rows, widest
}

// reconcile aligns the period axis with the widest body row so the table
// stays rectangular: excess labels drop from the front, keeping the most
// recent periods; a short axis is padded with synthetic COL{n} names.
func reconcile(periods []string, widest int) []string {
	switch {
	case len(periods) > widest:
		return periods[len(periods)-widest:]
	case len(periods) < widest:
		padded := append(make([]string, 0, widest), periods...)
		for i := len(periods); i < widest; i++ {
			padded = append(padded, fmt.Sprintf("COL%d", i+1))
		}
		return padded
	default:
		return periods
	}
}

// cleanText collapses whitespace runs, including no-break spaces, to single
// spaces and trims the result.
func cleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}
