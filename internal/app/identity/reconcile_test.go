package identity_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/dalemusser/idbridge/internal/app/identity"
	userstore "github.com/dalemusser/idbridge/internal/app/store/users"
	"github.com/dalemusser/idbridge/internal/domain/models"
)

func seededDirectory() identity.Directory {
	return userstore.NewMemoryDirectory([]models.AppUser{
		{
			AppUserID:      1,
			Role:           models.AppRole{AppRoleID: 1, Name: "user"},
			Name:           "James Churchill",
			Email:          "james@smashdev.com",
			GitHubUsername: "smashdevcode",
		},
	})
}

func TestReconcileOAuth2_MatchingProviderUsername(t *testing.T) {
	dir := seededDirectory()
	attrs := map[string]any{"login": "smashdevcode", "name": "James"}

	p, err := identity.ReconcileOAuth2(context.Background(), dir, attrs)
	if err != nil {
		t.Fatalf("ReconcileOAuth2 failed: %v", err)
	}

	user, ok := p.LocalUser()
	if !ok {
		t.Fatal("expected a reconciled local user")
	}
	if user.AppUserID != 1 {
		t.Errorf("AppUserID: got %d, want 1", user.AppUserID)
	}
	if user.Role.Name != "user" {
		t.Errorf("role name: got %q, want %q", user.Role.Name, "user")
	}
	if user.Email != "james@smashdev.com" {
		t.Errorf("email: got %q, want %q", user.Email, "james@smashdev.com")
	}
	if p.Protocol() != identity.ProtocolOAuth2 {
		t.Errorf("protocol: got %q, want %q", p.Protocol(), identity.ProtocolOAuth2)
	}
}

func TestReconcileOAuth2_CaseInsensitiveMatch(t *testing.T) {
	dir := seededDirectory()
	attrs := map[string]any{"login": "SmashDevCode"}

	p, err := identity.ReconcileOAuth2(context.Background(), dir, attrs)
	if err != nil {
		t.Fatalf("ReconcileOAuth2 failed: %v", err)
	}

	if _, ok := p.LocalUser(); !ok {
		t.Error("expected a case-insensitive provider-username match")
	}
}

func TestReconcileOAuth2_UnknownUser(t *testing.T) {
	dir := seededDirectory()
	attrs := map[string]any{"login": "somebody-else", "name": "Somebody Else", "id": float64(42)}

	p, err := identity.ReconcileOAuth2(context.Background(), dir, attrs)
	if err != nil {
		t.Fatalf("ReconcileOAuth2 failed: %v", err)
	}

	if _, ok := p.LocalUser(); ok {
		t.Error("expected no local user for an unknown login")
	}

	// The raw provider identity must survive unchanged.
	if !reflect.DeepEqual(p.RawAttributes(), attrs) {
		t.Errorf("raw attributes changed: got %v, want %v", p.RawAttributes(), attrs)
	}
}

func TestReconcileOAuth2_MissingLoginAttribute(t *testing.T) {
	dir := seededDirectory()
	attrs := map[string]any{"name": "No Login Here"}

	p, err := identity.ReconcileOAuth2(context.Background(), dir, attrs)
	if err != nil {
		t.Fatalf("ReconcileOAuth2 failed: %v", err)
	}

	if _, ok := p.LocalUser(); ok {
		t.Error("expected no merge when the login attribute is absent")
	}
}

func TestReconcileOAuth2_Idempotent(t *testing.T) {
	dir := seededDirectory()
	attrs := map[string]any{"login": "smashdevcode"}

	p1, err := identity.ReconcileOAuth2(context.Background(), dir, attrs)
	if err != nil {
		t.Fatalf("first ReconcileOAuth2 failed: %v", err)
	}
	p2, err := identity.ReconcileOAuth2(context.Background(), dir, attrs)
	if err != nil {
		t.Fatalf("second ReconcileOAuth2 failed: %v", err)
	}

	u1, _ := p1.LocalUser()
	u2, _ := p2.LocalUser()
	if !reflect.DeepEqual(u1, u2) {
		t.Errorf("reconciliation not idempotent: %v vs %v", u1, u2)
	}
	if !reflect.DeepEqual(p1.RawAttributes(), p2.RawAttributes()) {
		t.Error("raw attributes differ between identical reconciliations")
	}
}

func TestReconcileOIDC_MatchingEmail(t *testing.T) {
	dir := seededDirectory()
	claims := map[string]any{"email": "JAMES@SMASHDEV.COM", "sub": "abc123", "name": "James Churchill"}

	p, err := identity.ReconcileOIDC(context.Background(), dir, claims, "raw-token")
	if err != nil {
		t.Fatalf("ReconcileOIDC failed: %v", err)
	}

	user, ok := p.LocalUser()
	if !ok {
		t.Fatal("expected a reconciled local user")
	}
	if user.AppUserID != 1 {
		t.Errorf("AppUserID: got %d, want 1", user.AppUserID)
	}
	if p.RawIDToken() != "raw-token" {
		t.Errorf("RawIDToken: got %q, want %q", p.RawIDToken(), "raw-token")
	}
}

func TestReconcileOIDC_UnknownEmail(t *testing.T) {
	dir := seededDirectory()
	claims := map[string]any{"email": "unknown@example.com", "sub": "xyz"}

	p, err := identity.ReconcileOIDC(context.Background(), dir, claims, "raw-token")
	if err != nil {
		t.Fatalf("ReconcileOIDC failed: %v", err)
	}

	if _, ok := p.LocalUser(); ok {
		t.Error("expected no local user for an unknown email")
	}
	if !reflect.DeepEqual(p.RawAttributes(), claims) {
		t.Error("raw claims must remain accessible on an unreconciled principal")
	}
}

// The two legs must keep their correlation keys apart: a GitHub login handle
// that happens to equal a seeded email must not match, and vice versa.
func TestReconcile_KeysStayAsymmetric(t *testing.T) {
	dir := seededDirectory()

	p, err := identity.ReconcileOAuth2(context.Background(), dir, map[string]any{"login": "james@smashdev.com"})
	if err != nil {
		t.Fatalf("ReconcileOAuth2 failed: %v", err)
	}
	if _, ok := p.LocalUser(); ok {
		t.Error("OAuth2 leg matched on email; it must only match provider usernames")
	}

	op, err := identity.ReconcileOIDC(context.Background(), dir, map[string]any{"email": "smashdevcode"}, "")
	if err != nil {
		t.Fatalf("ReconcileOIDC failed: %v", err)
	}
	if _, ok := op.LocalUser(); ok {
		t.Error("OIDC leg matched on provider username; it must only match emails")
	}
}
