// internal/app/store/users/directory.go

// Package users provides AppUser directory implementations: an in-memory
// seeded directory for development and tests, and a Mongo-backed directory
// for deployments. Both satisfy identity.Directory.
package users

import (
	"strings"

	"github.com/dalemusser/idbridge/internal/domain/models"
)

// DefaultSeed is the directory content used when no seed is supplied.
var DefaultSeed = []models.AppUser{
	{
		AppUserID:      1,
		Role:           models.AppRole{AppRoleID: 1, Name: "user"},
		Name:           "James Churchill",
		Email:          "james@smashdev.com",
		GitHubUsername: "smashdevcode",
	},
}

// fold normalizes a correlation key for case-insensitive exact comparison.
// Nothing else is normalized: a padded or otherwise altered key must not match.
func fold(s string) string {
	return strings.ToLower(s)
}
