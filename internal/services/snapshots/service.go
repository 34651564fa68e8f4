// Package snapshots caches extraction results in memory so repeated
// requests for the same company and section reuse the portal's answer
// until it goes stale.
package snapshots

import (
	"sync"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tabula/internal/common"
	"github.com/ternarybob/tabula/internal/interfaces"
	"github.com/ternarybob/tabula/internal/models"
)

// Service is an in-memory snapshot cache with TTL expiry. A zero or
// negative TTL disables expiry. Expired entries are evicted lazily on
// access.
type Service struct {
	logger arbor.ILogger
	ttl    time.Duration

	mu      sync.RWMutex
	entries map[string]*models.Snapshot
}

// NewService creates a snapshot cache with the given entry lifetime
func NewService(ttl time.Duration, logger arbor.ILogger) *Service {
	if logger == nil {
		logger = common.GetLogger()
	}
	return &Service{
		logger:  logger,
		ttl:     ttl,
		entries: make(map[string]*models.Snapshot),
	}
}

// Get returns the cached snapshot for the company code and section.
// Returns false when no snapshot exists or the cached one has expired.
func (s *Service) Get(companyCode string, section models.Section) (*models.Snapshot, bool) {
	k := cacheKey(companyCode, section)

	s.mu.RLock()
	snapshot, ok := s.entries[k]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if s.expired(snapshot) {
		s.mu.Lock()
		// Re-check under the write lock; a fresh Put may have replaced it
		if current, still := s.entries[k]; still && current == snapshot {
			delete(s.entries, k)
		}
		s.mu.Unlock()

		s.logger.Debug().
			Str("company", companyCode).
			Str("section", section.String()).
			Msg("Snapshot expired")
		return nil, false
	}

	return snapshot, true
}

// Put stores a snapshot, replacing any existing entry for the same
// company code and section. Assigns an ID and fetch time when unset.
func (s *Service) Put(snapshot *models.Snapshot) {
	if snapshot == nil {
		return
	}
	if snapshot.ID == "" {
		snapshot.ID = common.NewSnapshotID()
	}
	if snapshot.FetchedAt.IsZero() {
		snapshot.FetchedAt = time.Now()
	}

	s.mu.Lock()
	s.entries[cacheKey(snapshot.CompanyCode, snapshot.Section)] = snapshot
	s.mu.Unlock()

	s.logger.Debug().
		Str("snapshot_id", snapshot.ID).
		Str("company", snapshot.CompanyCode).
		Str("section", snapshot.Section.String()).
		Msg("Snapshot cached")
}

// Invalidate removes all cached snapshots for the company code
func (s *Service) Invalidate(companyCode string) {
	prefix := companyCode + "/"

	s.mu.Lock()
	defer s.mu.Unlock()

	for k := range s.entries {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			delete(s.entries, k)
		}
	}
}

// Len returns the number of live entries in the cache
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, snapshot := range s.entries {
		if !s.expired(snapshot) {
			count++
		}
	}
	return count
}

func (s *Service) expired(snapshot *models.Snapshot) bool {
	return s.ttl > 0 && snapshot.Age() > s.ttl
}

func cacheKey(companyCode string, section models.Section) string {
	return companyCode + "/" + section.String()
}

// Ensure Service implements the SnapshotService interface
var _ interfaces.SnapshotService = (*Service)(nil)
