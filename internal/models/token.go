package models

import "time"

// TokenGrant carries the two opaque access tokens the portal's AJAX
// endpoints require: an encoded parameter and a numeric id, both scraped
// from the rendered company page. They are forwarded verbatim and never
// interpreted.
type TokenGrant struct {
	CompanyCode string    `json:"cmp_cd"`
	EncParam    string    `json:"encparam"`
	ID          string    `json:"id"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// Complete reports whether both tokens are present. The HTML path needs
// both; JSON report fetches need only EncParam.
func (g *TokenGrant) Complete() bool {
	return g != nil && g.EncParam != "" && g.ID != ""
}
