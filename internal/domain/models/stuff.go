// internal/domain/models/stuff.go
package models

// Stuff is a free-form record owned by a local user.
type Stuff struct {
	ID          string `json:"id"`
	AppUserID   int    `json:"appUserId"`
	Description string `json:"description"`
}
