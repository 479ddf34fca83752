package identity_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/dalemusser/idbridge/internal/app/identity"
)

func TestMarshalUnmarshal_OAuth2RoundTrip(t *testing.T) {
	dir := seededDirectory()
	p, err := identity.ReconcileOAuth2(context.Background(), dir, map[string]any{
		"login": "smashdevcode",
		"name":  "James Churchill",
	})
	if err != nil {
		t.Fatalf("ReconcileOAuth2 failed: %v", err)
	}

	data, err := identity.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	restored, err := identity.Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if restored.Protocol() != identity.ProtocolOAuth2 {
		t.Errorf("protocol: got %q, want %q", restored.Protocol(), identity.ProtocolOAuth2)
	}
	if !reflect.DeepEqual(restored.RawAttributes(), p.RawAttributes()) {
		t.Error("raw attributes did not survive the round trip")
	}

	want, _ := p.LocalUser()
	got, ok := restored.LocalUser()
	if !ok {
		t.Fatal("local user lost in round trip")
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("local user: got %v, want %v", got, want)
	}
}

func TestMarshalUnmarshal_OIDCKeepsIDToken(t *testing.T) {
	dir := seededDirectory()
	p, err := identity.ReconcileOIDC(context.Background(), dir, map[string]any{
		"email": "unknown@example.com",
		"sub":   "abc123",
	}, "the-raw-token")
	if err != nil {
		t.Fatalf("ReconcileOIDC failed: %v", err)
	}

	data, err := identity.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	restored, err := identity.Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	oidcPrincipal, ok := restored.(*identity.OIDCPrincipal)
	if !ok {
		t.Fatalf("restored principal has type %T, want *identity.OIDCPrincipal", restored)
	}
	if oidcPrincipal.RawIDToken() != "the-raw-token" {
		t.Errorf("RawIDToken: got %q, want %q", oidcPrincipal.RawIDToken(), "the-raw-token")
	}
	if _, ok := restored.LocalUser(); ok {
		t.Error("unreconciled principal gained a local user in the round trip")
	}
}

func TestUnmarshal_UnknownProtocol(t *testing.T) {
	if _, err := identity.Unmarshal([]byte(`{"protocol":"saml","attributes":{}}`)); err == nil {
		t.Error("expected an error for an unknown protocol")
	}
}

func TestUnmarshal_Garbage(t *testing.T) {
	if _, err := identity.Unmarshal([]byte("not json")); err == nil {
		t.Error("expected an error for malformed data")
	}
}
