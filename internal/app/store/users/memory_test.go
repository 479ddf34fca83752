package users_test

import (
	"context"
	"sync"
	"testing"

	userstore "github.com/dalemusser/idbridge/internal/app/store/users"
	"github.com/dalemusser/idbridge/internal/domain/models"
)

func newDirectory() *userstore.MemoryDirectory {
	return userstore.NewMemoryDirectory(userstore.DefaultSeed)
}

func TestFindByEmail_CaseInsensitive(t *testing.T) {
	dir := newDirectory()

	cases := []string{
		"james@smashdev.com",
		"JAMES@SMASHDEV.COM",
		"James@SmashDev.com",
	}
	for _, email := range cases {
		u, found, err := dir.FindByEmail(context.Background(), email)
		if err != nil {
			t.Fatalf("FindByEmail(%q) failed: %v", email, err)
		}
		if !found {
			t.Errorf("FindByEmail(%q): expected a match", email)
			continue
		}
		if u.AppUserID != 1 {
			t.Errorf("FindByEmail(%q): AppUserID got %d, want 1", email, u.AppUserID)
		}
	}
}

// Matching is case-insensitive but otherwise exact: keys are not trimmed or
// otherwise normalized before comparison.
func TestFindByEmail_NoWhitespaceNormalization(t *testing.T) {
	dir := newDirectory()

	for _, email := range []string{" james@smashdev.com", "james@smashdev.com ", "\tjames@smashdev.com"} {
		if _, found, _ := dir.FindByEmail(context.Background(), email); found {
			t.Errorf("FindByEmail(%q): padded key must not match", email)
		}
	}
	if _, found, _ := dir.FindByProviderUsername(context.Background(), " smashdevcode"); found {
		t.Error("FindByProviderUsername: padded key must not match")
	}
}

func TestFindByEmail_NotFoundIsNotAnError(t *testing.T) {
	dir := newDirectory()

	_, found, err := dir.FindByEmail(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatalf("FindByEmail returned an error for an unknown email: %v", err)
	}
	if found {
		t.Error("FindByEmail: expected no match for an unknown email")
	}
}

func TestFindByProviderUsername_CaseInsensitive(t *testing.T) {
	dir := newDirectory()

	u, found, err := dir.FindByProviderUsername(context.Background(), "SMASHDEVCODE")
	if err != nil {
		t.Fatalf("FindByProviderUsername failed: %v", err)
	}
	if !found {
		t.Fatal("expected a case-insensitive match")
	}
	if u.Name != "James Churchill" {
		t.Errorf("name: got %q, want %q", u.Name, "James Churchill")
	}
}

func TestFindByProviderUsername_NotFound(t *testing.T) {
	dir := newDirectory()

	_, found, err := dir.FindByProviderUsername(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("FindByProviderUsername returned an error: %v", err)
	}
	if found {
		t.Error("expected no match for an unknown username")
	}
}

func TestMemoryDirectory_EmptyKeysDoNotIndex(t *testing.T) {
	dir := userstore.NewMemoryDirectory([]models.AppUser{
		{AppUserID: 7, Name: "No Keys"},
	})

	if _, found, _ := dir.FindByEmail(context.Background(), ""); found {
		t.Error("empty email must not match anything")
	}
	if _, found, _ := dir.FindByProviderUsername(context.Background(), ""); found {
		t.Error("empty username must not match anything")
	}
}

func TestMemoryDirectory_ConcurrentReads(t *testing.T) {
	dir := newDirectory()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, found, _ := dir.FindByEmail(context.Background(), "james@smashdev.com"); !found {
				t.Error("concurrent FindByEmail lost a record")
			}
		}()
		go func() {
			defer wg.Done()
			if _, found, _ := dir.FindByProviderUsername(context.Background(), "smashdevcode"); !found {
				t.Error("concurrent FindByProviderUsername lost a record")
			}
		}()
	}
	wg.Wait()
}
