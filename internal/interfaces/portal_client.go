package interfaces

import (
	"context"

	"github.com/ternarybob/tabula/internal/models"
)

// PortalClient fetches disclosure documents from the upstream portal.
// Both fetches require a token grant resolved by the TokenService.
type PortalClient interface {
	// FetchMainDocument retrieves the statistics page HTML fragment
	// for the company.
	FetchMainDocument(ctx context.Context, companyCode string, grant *models.TokenGrant) (string, error)

	// FetchReport retrieves the JSON report payload for a report
	// section (financial statements, profitability, or valuation).
	FetchReport(ctx context.Context, companyCode string, section models.Section, grant *models.TokenGrant) (*models.ReportPayload, error)
}
