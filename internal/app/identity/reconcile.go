// internal/app/identity/reconcile.go
package identity

import (
	"context"
	"fmt"

	"github.com/dalemusser/idbridge/internal/domain/models"
)

// Directory looks up locally known users. Lookups are case-insensitive exact
// matches; "not found" is reported through the bool, never through the error.
// The error is reserved for backing-store failures, so implementations may sit
// on a network database. Implementations must be safe for concurrent readers.
type Directory interface {
	FindByEmail(ctx context.Context, email string) (models.AppUser, bool, error)
	FindByProviderUsername(ctx context.Context, username string) (models.AppUser, bool, error)
}

// ReconcileOAuth2 builds the principal for a plain-OAuth2 login.
//
// GitHub-style providers don't guarantee a verifiable email in the profile, so
// correlation uses the provider's unique "login" handle. A missing login
// attribute or an unmatched handle both yield a provider-only principal.
func ReconcileOAuth2(ctx context.Context, dir Directory, attrs map[string]any) (*OAuth2Principal, error) {
	p := &OAuth2Principal{attrs: attrs}

	login, _ := attrs["login"].(string)
	if login == "" {
		return p, nil
	}

	user, found, err := dir.FindByProviderUsername(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("directory lookup by provider username: %w", err)
	}
	if found {
		p.local = &user
	}
	return p, nil
}

// ReconcileOIDC builds the principal for an OIDC login.
//
// OIDC guarantees a verified email claim, so correlation uses it. An unmatched
// email yields a provider-only principal, same as the OAuth2 leg.
func ReconcileOIDC(ctx context.Context, dir Directory, claims map[string]any, rawIDToken string) (*OIDCPrincipal, error) {
	p := &OIDCPrincipal{claims: claims, rawIDToken: rawIDToken}

	email, _ := claims["email"].(string)
	if email == "" {
		return p, nil
	}

	user, found, err := dir.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("directory lookup by email: %w", err)
	}
	if found {
		p.local = &user
	}
	return p, nil
}
