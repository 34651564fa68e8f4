// Package extract normalizes the portal's disclosure documents into the
// canonical wide and long tabular shapes. Everything here is a pure,
// synchronous transformation: no I/O, no logging, no shared state.
package extract

import (
	"math"
	"strconv"
	"strings"

	"github.com/ternarybob/tabula/internal/models"
)

// magnitudeScales are the Korean unit glyphs that scale a numeric literal.
// Checked in this order; at most one applies per literal.
var magnitudeScales = []struct {
	glyph string
	scale float64
}{
	{"억", 1e8},  // hundred million
	{"조", 1e12}, // trillion
	{"만", 1e4},  // ten thousand
}

// currencyGlyph is informational on statement figures and carries no scale.
const currencyGlyph = "원"

// DecodeNumber decodes one financial literal into a cell. The grammar
// covers thousands separators, a trailing currency glyph, percent literals
// (returned as their printed number, not scaled), magnitude suffixes, and
// parenthesized negatives. Empty, bare-dash, and unparseable literals
// decode to missing, never to zero. Total over arbitrary input.
func DecodeNumber(raw string) models.Cell {
	s := strings.TrimSpace(raw)
	if s == "" || s == "-" {
		return models.Missing()
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, currencyGlyph)

	// Percent literals keep their printed magnitude: "12.5%" is 12.5.
	if prefix, ok := strings.CutSuffix(s, "%"); ok {
		return parseFloat(prefix)
	}

	scale := 1.0
	for _, m := range magnitudeScales {
		if rest, ok := strings.CutSuffix(s, m.glyph); ok {
			s, scale = rest, m.scale
			break
		}
	}

	if interior, ok := cutParens(s); ok {
		cell := parseFloat(interior)
		if !cell.Valid {
			return cell
		}
		return models.Number(-cell.Value * scale)
	}

	cell := parseFloat(s)
	if !cell.Valid {
		return cell
	}
	return models.Number(cell.Value * scale)
}

// CoerceNumber is the narrow coercion used for JSON report values: strip
// thousands separators and parse, nothing else. Report payload values are
// already plain numeric strings, so the full literal grammar never applies.
func CoerceNumber(raw string) models.Cell {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if s == "" {
		return models.Missing()
	}
	return parseFloat(s)
}

// cutParens unwraps a literal fully enclosed in parentheses.
func cutParens(s string) (string, bool) {
	if len(s) >= 2 && strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		return s[1 : len(s)-1], true
	}
	return "", false
}

// parseFloat parses a signed decimal literal into a cell, missing on any
// parse failure or non-finite result.
func parseFloat(s string) models.Cell {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return models.Missing()
	}
	return models.Number(v)
}
