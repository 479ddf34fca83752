// internal/domain/models/appuser.go
package models

// AppUser is a locally known account. Provider logins are correlated against
// these records during reconciliation; the records themselves are read-only
// from the login flow's point of view.
type AppUser struct {
	AppUserID      int     `json:"appUserId" bson:"app_user_id"`
	Role           AppRole `json:"role" bson:"role"`
	Name           string  `json:"name" bson:"name"`
	Email          string  `json:"email" bson:"email"`
	GitHubUsername string  `json:"gitHubUsername" bson:"github_username"`
}

// AppRole is the authorization role attached to an AppUser. One role per user.
type AppRole struct {
	AppRoleID int    `json:"appRoleId" bson:"app_role_id"`
	Name      string `json:"name" bson:"name"`
}
