package interfaces

import (
	"github.com/ternarybob/tabula/internal/models"
)

// SnapshotService caches extracted snapshots in memory so repeated
// requests for the same company and section do not hit the portal.
type SnapshotService interface {
	// Get returns the cached snapshot for the company code and section.
	// Returns false when no snapshot exists or the cached one has expired.
	Get(companyCode string, section models.Section) (*models.Snapshot, bool)

	// Put stores a snapshot, replacing any existing entry for the same
	// company code and section.
	Put(snapshot *models.Snapshot)

	// Invalidate removes all cached snapshots for the company code.
	Invalidate(companyCode string)

	// Len returns the number of live entries in the cache.
	Len() int
}
