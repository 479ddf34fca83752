// internal/app/store/users/memory.go
package users

import (
	"context"

	"github.com/dalemusser/idbridge/internal/app/identity"
	"github.com/dalemusser/idbridge/internal/domain/models"
)

// MemoryDirectory is an immutable in-memory directory. Records are copied at
// construction and never change, so concurrent lookups need no locking.
type MemoryDirectory struct {
	byEmail    map[string]models.AppUser
	byUsername map[string]models.AppUser
}

var _ identity.Directory = (*MemoryDirectory)(nil)

// NewMemoryDirectory builds a directory from the given records. Later records
// win on duplicate keys, matching the write-time uniqueness the directory
// contract assumes.
func NewMemoryDirectory(seed []models.AppUser) *MemoryDirectory {
	d := &MemoryDirectory{
		byEmail:    make(map[string]models.AppUser, len(seed)),
		byUsername: make(map[string]models.AppUser, len(seed)),
	}
	for _, u := range seed {
		if u.Email != "" {
			d.byEmail[fold(u.Email)] = u
		}
		if u.GitHubUsername != "" {
			d.byUsername[fold(u.GitHubUsername)] = u
		}
	}
	return d
}

// FindByEmail looks up a user by email, case-insensitively.
func (d *MemoryDirectory) FindByEmail(_ context.Context, email string) (models.AppUser, bool, error) {
	u, ok := d.byEmail[fold(email)]
	return u, ok, nil
}

// FindByProviderUsername looks up a user by provider username, case-insensitively.
func (d *MemoryDirectory) FindByProviderUsername(_ context.Context, username string) (models.AppUser, bool, error) {
	u, ok := d.byUsername[fold(username)]
	return u, ok, nil
}
