package store

import (
	"testing"
	"time"

	"inkwell/internal/models"
)

// tokenFixture creates a user and an active refresh token for it.
func tokenFixture(t *testing.T, users *UserStore, tokens *RefreshTokenStore, email, hash string) *models.RefreshToken {
	t.Helper()

	user := newTestUser(email, models.RoleReader)
	if err := users.Create(user, "pass"); err != nil {
		t.Fatalf("create user: %v", err)
	}

	tok := &models.RefreshToken{
		TokenHash: hash,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(24 * time.Hour),
		MaxUses:   models.DefaultMaxUses,
	}
	if err := tokens.Create(tok); err != nil {
		t.Fatalf("create token: %v", err)
	}
	return tok
}

func TestRefreshTokenStoreMarkUsed(t *testing.T) {
	db := testDB(t)
	users := NewUserStore(db)
	tokens := NewRefreshTokenStore(db)

	email := "test-token-use@store-test.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	tok := tokenFixture(t, users, tokens, email, "storetest-hash-use")

	if err := tok.Use(time.Now()); err != nil {
		t.Fatalf("entity Use: %v", err)
	}
	if err := tokens.MarkUsed(tok); err != nil {
		t.Fatalf("MarkUsed: %v", err)
	}

	loaded, err := tokens.FindByHash("storetest-hash-use")
	if err != nil {
		t.Fatalf("FindByHash: %v", err)
	}
	if loaded == nil {
		t.Fatal("token not found by hash")
	}
	if loaded.UseCount != 1 {
		t.Errorf("UseCount = %d, want 1", loaded.UseCount)
	}
	if loaded.LastUsedAt == nil {
		t.Error("LastUsedAt must be persisted")
	}
	if loaded.Version != 2 {
		t.Errorf("Version = %d, want 2 after one update", loaded.Version)
	}
}

func TestRefreshTokenStoreRevokeAllForUser(t *testing.T) {
	db := testDB(t)
	users := NewUserStore(db)
	tokens := NewRefreshTokenStore(db)

	email := "test-token-revoke@store-test.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	first := tokenFixture(t, users, tokens, email, "storetest-hash-revoke-1")

	second := &models.RefreshToken{
		TokenHash: "storetest-hash-revoke-2",
		UserID:    first.UserID,
		ExpiresAt: time.Now().Add(24 * time.Hour),
		MaxUses:   models.DefaultMaxUses,
	}
	if err := tokens.Create(second); err != nil {
		t.Fatalf("create second token: %v", err)
	}

	revoked, err := tokens.RevokeAllForUser(first.UserID, time.Now())
	if err != nil {
		t.Fatalf("RevokeAllForUser: %v", err)
	}
	if revoked != 2 {
		t.Errorf("revoked = %d, want 2", revoked)
	}

	for _, hash := range []string{"storetest-hash-revoke-1", "storetest-hash-revoke-2"} {
		loaded, err := tokens.FindByHash(hash)
		if err != nil || loaded == nil {
			t.Fatalf("FindByHash %s: %v", hash, err)
		}
		if !loaded.IsRevoked() {
			t.Errorf("token %s must be revoked", hash)
		}
	}
}

func TestRefreshTokenStoreDeleteExpired(t *testing.T) {
	db := testDB(t)
	users := NewUserStore(db)
	tokens := NewRefreshTokenStore(db)

	email := "test-token-expired@store-test.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	user := newTestUser(email, models.RoleReader)
	if err := users.Create(user, "pass"); err != nil {
		t.Fatalf("create user: %v", err)
	}

	expired := &models.RefreshToken{
		TokenHash: "storetest-hash-expired",
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(-time.Hour),
		MaxUses:   models.DefaultMaxUses,
	}
	if err := tokens.Create(expired); err != nil {
		t.Fatalf("create expired token: %v", err)
	}

	if _, err := tokens.DeleteExpired(time.Now()); err != nil {
		t.Fatalf("DeleteExpired: %v", err)
	}

	loaded, err := tokens.FindByHash("storetest-hash-expired")
	if err != nil {
		t.Fatalf("FindByHash: %v", err)
	}
	if loaded != nil {
		t.Error("expired token must be physically removed")
	}
}
