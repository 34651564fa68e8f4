package models

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ExtractRequest is a validated request for one section extraction.
// Company codes on the portal are always six decimal digits
// (e.g. 005930, 066570).
type ExtractRequest struct {
	CompanyCode string  `json:"cmp_cd" validate:"required,len=6,numeric"`
	Section     Section `json:"section" validate:"required"`
	Force       bool    `json:"force,omitempty"`
}

// Validate validates the request using go-playground/validator.
// Returns an error if the company code or section is malformed.
func (r *ExtractRequest) Validate() error {
	if !r.Section.IsValid() {
		return fmt.Errorf("invalid section %q", r.Section)
	}
	validate := validator.New()
	return validate.Struct(r)
}
