package tokens

import (
	"errors"
	"regexp"
	"time"

	"github.com/ternarybob/tabula/internal/models"
)

// ErrTokenNotFound is returned when a rendered company page does not
// expose the tokens the section's fetch requires.
var ErrTokenNotFound = errors.New("access tokens not found in company page")

// Page keys for the portal's company pages. Each page embeds tokens
// scoped to the documents it serves.
const (
	pageKeyMain    = "c1010001" // statistics page, needs encparam and id
	pageKeyFS      = "c1030001" // financial statements report
	pageKeyReports = "c1040001" // profitability and valuation reports
)

var (
	encParamPattern  = regexp.MustCompile(`encparam\s*:\s*['"]?([a-zA-Z0-9+/=]+)['"]?`)
	companyIDPattern = regexp.MustCompile(`cmp_cd\s*=\s*['"]?([0-9]+)['"]?`)
)

// pageKeyFor maps a section to the company page that carries its tokens.
func pageKeyFor(section models.Section) string {
	switch section {
	case models.SectionFS:
		return pageKeyFS
	case models.SectionProfit, models.SectionValue:
		return pageKeyReports
	default:
		return pageKeyMain
	}
}

// parseGrant extracts the token pair from rendered page HTML. EncParam
// is required for every fetch; the numeric ID only for the statistics
// page, so report sections tolerate its absence.
func parseGrant(companyCode string, section models.Section, html string) (*models.TokenGrant, error) {
	grant := &models.TokenGrant{
		CompanyCode: companyCode,
		FetchedAt:   time.Now(),
	}

	if m := encParamPattern.FindStringSubmatch(html); m != nil {
		grant.EncParam = m[1]
	}
	if m := companyIDPattern.FindStringSubmatch(html); m != nil {
		grant.ID = m[1]
	}

	if grant.EncParam == "" {
		return nil, ErrTokenNotFound
	}
	if section == models.SectionMain && grant.ID == "" {
		return nil, ErrTokenNotFound
	}

	return grant, nil
}
