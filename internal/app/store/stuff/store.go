// internal/app/store/stuff/store.go

// Package stuff stores the free-form records local users create through
// /api/stuff. The store is in-memory; records live for the process lifetime.
package stuff

import (
	"context"
	"sync"

	"github.com/dalemusser/idbridge/internal/domain/models"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

// Store holds stuff records keyed by owning AppUser id. Safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	byUser   map[int][]models.Stuff
	sanitize *bluemonday.Policy
}

// New creates an empty store.
func New() *Store {
	return &Store{
		byUser:   make(map[int][]models.Stuff),
		sanitize: bluemonday.StrictPolicy(),
	}
}

// Add appends one record per description for the given user and returns the
// user's full record list. Descriptions are sanitized before storage since
// they come straight from the browser.
func (s *Store) Add(_ context.Context, appUserID int, descriptions []string) []models.Stuff {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, desc := range descriptions {
		s.byUser[appUserID] = append(s.byUser[appUserID], models.Stuff{
			ID:          uuid.NewString(),
			AppUserID:   appUserID,
			Description: s.sanitize.Sanitize(desc),
		})
	}
	return s.snapshot(appUserID)
}

// ListByUser returns the user's records. The slice is a copy.
func (s *Store) ListByUser(_ context.Context, appUserID int) []models.Stuff {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot(appUserID)
}

// snapshot copies the user's records; callers hold at least a read lock.
func (s *Store) snapshot(appUserID int) []models.Stuff {
	records := s.byUser[appUserID]
	out := make([]models.Stuff, len(records))
	copy(out, records)
	return out
}
