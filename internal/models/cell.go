// Package models provides the table shapes shared by extraction and serving.
package models

import (
	"encoding/json"
	"strconv"
)

// Cell is a single numeric table value: either a finite float or missing.
// Missing is distinct from zero and is produced by empty, dash, or
// unparseable source literals. The zero value of Cell is missing.
type Cell struct {
	Value float64
	Valid bool
}

// Number returns a present cell holding v.
func Number(v float64) Cell {
	return Cell{Value: v, Valid: true}
}

// Missing returns an absent cell.
func Missing() Cell {
	return Cell{}
}

// IsMissing reports whether the cell holds no value.
func (c Cell) IsMissing() bool {
	return !c.Valid
}

// Float64 returns the cell value and whether it is present.
func (c Cell) Float64() (float64, bool) {
	return c.Value, c.Valid
}

// String renders the value for display, or "-" when missing.
func (c Cell) String() string {
	if !c.Valid {
		return "-"
	}
	return strconv.FormatFloat(c.Value, 'f', -1, 64)
}

// MarshalJSON encodes a missing cell as null and a present cell as a number.
func (c Cell) MarshalJSON() ([]byte, error) {
	if !c.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(c.Value)
}

// UnmarshalJSON accepts null or a JSON number.
func (c *Cell) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = Cell{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*c = Cell{Value: v, Valid: true}
	return nil
}
