// internal/app/identity/principal.go

// Package identity holds the unified principal and the reconciliation logic
// that correlates a provider-authenticated identity with a local AppUser.
//
// A principal is created once per login and never changes afterward. It always
// carries the raw identity the provider returned; it carries local fields only
// when reconciliation found a matching AppUser. "The provider knows you" and
// "this application knows you" stay separate facts throughout.
package identity

import (
	"github.com/dalemusser/idbridge/internal/domain/models"
)

// Protocol identifies which login leg produced a principal.
type Protocol string

const (
	ProtocolOAuth2 Protocol = "oauth2"
	ProtocolOIDC   Protocol = "oidc"
)

// Principal is the session identity after a completed login.
type Principal interface {
	// Protocol reports which login leg produced this principal.
	Protocol() Protocol

	// RawAttributes returns the attribute/claim set exactly as the provider
	// returned it. Callers must treat the map as read-only.
	RawAttributes() map[string]any

	// LocalUser returns the reconciled AppUser. The bool is false when no
	// local account matched; the provider identity is still valid then.
	LocalUser() (models.AppUser, bool)
}

// OAuth2Principal wraps a plain-OAuth2 identity (GitHub-style attribute bag).
type OAuth2Principal struct {
	attrs map[string]any
	local *models.AppUser
}

func (p *OAuth2Principal) Protocol() Protocol { return ProtocolOAuth2 }

func (p *OAuth2Principal) RawAttributes() map[string]any { return p.attrs }

func (p *OAuth2Principal) LocalUser() (models.AppUser, bool) {
	if p.local == nil {
		return models.AppUser{}, false
	}
	return *p.local, true
}

// OIDCPrincipal wraps a verified OIDC identity: the claim set plus the raw
// ID token the provider issued.
type OIDCPrincipal struct {
	claims     map[string]any
	rawIDToken string
	local      *models.AppUser
}

func (p *OIDCPrincipal) Protocol() Protocol { return ProtocolOIDC }

func (p *OIDCPrincipal) RawAttributes() map[string]any { return p.claims }

func (p *OIDCPrincipal) LocalUser() (models.AppUser, bool) {
	if p.local == nil {
		return models.AppUser{}, false
	}
	return *p.local, true
}

// RawIDToken returns the provider-issued ID token, unparsed.
func (p *OIDCPrincipal) RawIDToken() string { return p.rawIDToken }
