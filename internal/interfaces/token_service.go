// Package interfaces provides service interfaces for dependency injection.
package interfaces

import (
	"context"

	"github.com/ternarybob/tabula/internal/models"
)

// TokenService resolves the per-company access tokens the portal embeds
// in its company pages. Grants are cached per company and section page
// so repeated extractions do not launch a browser each time.
type TokenService interface {
	// Resolve returns a token grant for the company code and section,
	// reusing a cached grant when one is still fresh.
	Resolve(ctx context.Context, companyCode string, section models.Section) (*models.TokenGrant, error)

	// Invalidate drops all cached grants for the company code.
	// Used after the portal rejects a grant.
	Invalidate(companyCode string)

	// Close releases the browser resources held by the service.
	Close() error
}
